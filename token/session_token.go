package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const issuer = "go-tasks"

// SessionClaims identify a backend session
type SessionClaims struct {
	SessionID string
	UserID    int
	Username  string
	ExpiresAt time.Time
}

type sessionJWT struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer creates and verifies session tokens carried in the auth cookie
type Issuer struct {
	signer Signer
}

func NewIssuer(signer Signer) *Issuer {
	return &Issuer{signer: signer}
}

// Create signs claims into a compact JWT
func (i *Issuer) Create(c SessionClaims) (string, error) {
	now := NowTimeFunc()
	return i.signer.Sign(sessionJWT{
		Username: c.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(c.UserID),
			ID:        c.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	})
}

// Parse verifies a token and returns its claims. Any failure is ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (SessionClaims, error) {
	var claims sessionJWT
	_, err := jwt.ParseWithClaims(tokenString, &claims, i.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		return SessionClaims{}, apperrors.Wrapf(apperrors.ErrInvalidToken, "%s", err.Error())
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || claims.ID == "" {
		return SessionClaims{}, apperrors.Wrapf(apperrors.ErrInvalidToken, "malformed subject")
	}

	return SessionClaims{
		SessionID: claims.ID,
		UserID:    userID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
