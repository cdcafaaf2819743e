package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWithDegrade(t *testing.T) {
	shrink := func(v string) (string, bool) {
		if len(v) <= 1 {
			return v, false
		}
		return v[:1], true
	}

	t.Run("first write succeeds", func(t *testing.T) {
		var writes []string
		err := WriteWithDegrade(func(v string) error {
			writes = append(writes, v)
			return nil
		}, shrink, "full")

		require.NoError(t, err)
		assert.Equal(t, []string{"full"}, writes)
	})

	t.Run("quota failure retries once with shrunk payload", func(t *testing.T) {
		var writes []string
		err := WriteWithDegrade(func(v string) error {
			writes = append(writes, v)
			if len(v) > 1 {
				return fmt.Errorf("set: %w", ErrQuotaExceeded)
			}
			return nil
		}, shrink, "full")

		require.NoError(t, err)
		assert.Equal(t, []string{"full", "f"}, writes)
	})

	t.Run("quota failure on retry propagates", func(t *testing.T) {
		var writes []string
		err := WriteWithDegrade(func(v string) error {
			writes = append(writes, v)
			return ErrQuotaExceeded
		}, shrink, "full")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		// Exactly one retry, never more.
		assert.Len(t, writes, 2)
	})

	t.Run("non-quota failure does not retry", func(t *testing.T) {
		boom := errors.New("disk on fire")
		var writes []string
		err := WriteWithDegrade(func(v string) error {
			writes = append(writes, v)
			return boom
		}, shrink, "full")

		require.ErrorIs(t, err, boom)
		assert.Len(t, writes, 1)
	})

	t.Run("no degradation available propagates original error", func(t *testing.T) {
		var writes []string
		err := WriteWithDegrade(func(v string) error {
			writes = append(writes, v)
			return ErrQuotaExceeded
		}, shrink, "x")

		require.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Len(t, writes, 1)
	})
}
