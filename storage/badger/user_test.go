package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

func setupUserRepo(t *testing.T) storage.UserRepository {
	t.Helper()
	docRepo, recentRepo, userRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		docRepo.Close()
		recentRepo.Close()
		userRepo.Close()
		backend.Close()
	})
	return userRepo
}

func TestUserRepository_PutAndGet(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	user := &core.User{
		Id:        "user-1",
		Name:      "Dana",
		Email:     "dana@example.com",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.PutUser(ctx, user))

	got, err := repo.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, user.Name, got.Name)
	assert.Equal(t, user.Email, got.Email)
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo := setupUserRepo(t)

	_, err := repo.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepository_CurrentUser(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)

	require.NoError(t, repo.SetCurrentUser(ctx, "user-1"))
	current, err = repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", current)

	require.NoError(t, repo.SetCurrentUser(ctx, "user-2"))
	current, err = repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-2", current)
}
