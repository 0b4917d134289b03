package users

import (
	"net/http"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinUsernameLength is enforced by the sign-up form before any request is made
	MinUsernameLength = 3
	// MinPasswordLength is enforced by the backend on sign-up
	MinPasswordLength = 6
)

type User struct {
	ID           int    `json:"user_id"`    // Sequential identifier
	Username     string `json:"username"`   // Unique username
	PasswordHash string `json:"-"`          // Hashed password - never serialize
	CreatedAt    int64  `json:"created_at"` // Unix seconds
}

// Credentials is the sign-in and sign-up payload
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidateSignUp checks the credentials a new account is created with
func ValidateSignUp(c Credentials) error {
	if c.Username == "" {
		return apperrors.New(http.StatusBadRequest, "Username is required")
	}
	if c.Password == "" {
		return apperrors.New(http.StatusBadRequest, "Password is required")
	}
	if len(c.Password) < MinPasswordLength {
		return apperrors.New(http.StatusBadRequest, "Password must be at least 6 characters long")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyPassword checks a password against the user's hash
func (u *User) VerifyPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
