package boltrepo_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-tasks/internal/boltdb"
	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/tasks/boltrepo"
	"github.com/stretchr/testify/require"
)

func TestTaskRepo(t *testing.T) {
	now := time.Unix(1700000000, 0)
	boltrepo.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { boltrepo.NowFunc = time.Now })

	repo := boltrepo.New(boltdb.OpenTemp(t))

	// user 1 owns tasks 1 and 2, user 11 owns task 3
	first, err := repo.Create(tasks.CreateInput{Title: "first", Description: "**bold**", UserID: 1})
	require.NoError(t, err)
	second, err := repo.Create(tasks.CreateInput{Title: "second", Completed: true, UserID: 1})
	require.NoError(t, err)
	other, err := repo.Create(tasks.CreateInput{Title: "other", UserID: 11})
	require.NoError(t, err)

	require.Equal(t, 1, first.ID)
	require.Equal(t, now.Unix(), first.CreatedAt)

	t.Run("list is scoped to the owner", func(t *testing.T) {
		found, err := repo.FindByUserID(1)
		require.NoError(t, err)
		require.Len(t, found, 2)

		found, err = repo.FindByUserID(11)
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, other.ID, found[0].ID)
	})

	t.Run("find by id respects the owner", func(t *testing.T) {
		got, err := repo.FindByID(first.ID, 1)
		require.NoError(t, err)
		require.Equal(t, "**bold**", got.Description)

		_, err = repo.FindByID(first.ID, 11)
		require.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("toggle flips completed and bumps last updated", func(t *testing.T) {
		now = now.Add(time.Minute)
		require.NoError(t, repo.ToggleCompleted(second.ID, 1))

		got, err := repo.FindByID(second.ID, 1)
		require.NoError(t, err)
		require.False(t, got.Completed)
		require.Equal(t, now.Unix(), got.LastUpdated)

		untouched, err := repo.FindByID(first.ID, 1)
		require.NoError(t, err)
		require.False(t, untouched.Completed)
	})

	t.Run("toggle of a missing task fails", func(t *testing.T) {
		require.ErrorIs(t, repo.ToggleCompleted(other.ID, 1), apperrors.ErrTaskNotFound)
	})

	t.Run("delete removes only that task", func(t *testing.T) {
		require.NoError(t, repo.Delete(first.ID, 1))
		require.NoError(t, repo.Delete(first.ID, 1))

		found, err := repo.FindByUserID(1)
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, second.ID, found[0].ID)

		_, err = repo.FindByID(other.ID, 11)
		require.NoError(t, err)
	})
}
