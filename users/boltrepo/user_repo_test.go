package boltrepo_test

import (
	"testing"

	"github.com/jrsteele09/go-tasks/internal/boltdb"
	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/users/boltrepo"
	"github.com/stretchr/testify/require"
)

func TestUserRepo(t *testing.T) {
	repo := boltrepo.New(boltdb.OpenTemp(t))

	jdoe, err := repo.Create("jdoe", "hash-1")
	require.NoError(t, err)
	require.Equal(t, 1, jdoe.ID)
	require.NotZero(t, jdoe.CreatedAt)

	ann, err := repo.Create("ann", "hash-2")
	require.NoError(t, err)
	require.Equal(t, 2, ann.ID)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create("jdoe", "other")
		require.ErrorIs(t, err, apperrors.ErrUserExists)
	})

	t.Run("get by username keeps the hash", func(t *testing.T) {
		u, err := repo.GetByUsername("jdoe")
		require.NoError(t, err)
		require.Equal(t, "hash-1", u.PasswordHash)
	})

	t.Run("get by id", func(t *testing.T) {
		u, err := repo.GetByID(2)
		require.NoError(t, err)
		require.Equal(t, "ann", u.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetByUsername("nobody")
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		_, err = repo.GetByID(99)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
