package users_test

import (
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/users"
	"github.com/stretchr/testify/require"
)

func TestValidateSignUp(t *testing.T) {
	tests := []struct {
		name    string
		creds   users.Credentials
		message string
	}{
		{"missing username", users.Credentials{Password: "secret1"}, "Username is required"},
		{"missing password", users.Credentials{Username: "jdoe"}, "Password is required"},
		{"short password", users.Credentials{Username: "jdoe", Password: "12345"}, "Password must be at least 6 characters long"},
		{"valid", users.Credentials{Username: "jdoe", Password: "123456"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.ValidateSignUp(tt.creds)
			if tt.message == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.message)
			require.Equal(t, http.StatusBadRequest, apperrors.Code(err))
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	u := users.User{Username: "jdoe", PasswordHash: hash}
	require.True(t, u.VerifyPassword("password123"))
	require.False(t, u.VerifyPassword("password124"))
}
