package storage

import "errors"

// ShrinkFunc produces a degraded, smaller variant of a payload.
// The boolean reports whether any degradation was possible.
type ShrinkFunc[T any] func(value T) (T, bool)

// WriteWithDegrade attempts a write; on capacity exhaustion it degrades the
// payload via shrink and retries exactly once. Any other error, and a quota
// failure on the retry, propagate to the caller.
func WriteWithDegrade[T any](write func(T) error, shrink ShrinkFunc[T], value T) error {
	err := write(value)
	if err == nil || !errors.Is(err, ErrQuotaExceeded) {
		return err
	}

	light, ok := shrink(value)
	if !ok {
		return err
	}
	return write(light)
}
