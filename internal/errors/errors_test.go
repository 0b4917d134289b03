package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	t.Run("coded error keeps its status", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", apperrors.New(http.StatusConflict, "User already exists"))
		require.Equal(t, http.StatusConflict, apperrors.Code(err))
		require.Equal(t, "outer: User already exists", err.Error())
	})

	t.Run("sentinels map to statuses", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, apperrors.Code(apperrors.ErrInvalidCredentials))
		require.Equal(t, http.StatusNotFound, apperrors.Code(apperrors.Wrapf(apperrors.ErrTaskNotFound, "task %d", 4)))
		require.Equal(t, http.StatusBadRequest, apperrors.Code(apperrors.ErrValidation))
		require.Equal(t, http.StatusConflict, apperrors.Code(apperrors.ErrUserExists))
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		require.Equal(t, http.StatusInternalServerError, apperrors.Code(fmt.Errorf("boom")))
	})
}

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "ignored"))

	err := apperrors.Wrapf(apperrors.ErrSessionExpired, "session %s", "abc")
	require.True(t, apperrors.Is(err, apperrors.ErrSessionExpired))
	require.Equal(t, "session abc: session expired", err.Error())
}
