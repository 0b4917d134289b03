package api

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/sessions"
	"github.com/jrsteele09/go-tasks/token"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the authenticated session
	ContextKeySession ContextKey = "session"
)

// RequireAuth rejects calls without a valid session with 401 "Unauthorized"
// and otherwise puts the session into the request context.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.authenticate(r)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("unauthenticated call")
			writeError(w, errUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, session)
		next(w, r.WithContext(ctx))
	}
}

// SessionFromContext returns the session RequireAuth stored, if any
func SessionFromContext(ctx context.Context) (*sessions.SessionData, bool) {
	session, ok := ctx.Value(ContextKeySession).(*sessions.SessionData)
	return session, ok && session != nil
}

// authenticate resolves the auth cookie to a live session
func (s *Server) authenticate(r *http.Request) (*sessions.SessionData, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := s.tokens.Parse(cookie.Value)
	if err != nil {
		return nil, err
	}

	session, err := s.repos.Sessions.Get(claims.SessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != claims.UserID {
		return nil, apperrors.ErrInvalidToken
	}

	if session.Expired(token.NowTimeFunc()) {
		_ = s.repos.Sessions.Delete(session.ID)
		return nil, apperrors.ErrSessionExpired
	}

	return session, nil
}

// setAuthCookie marks the cookie Secure only when it arrived over TLS: the front end
// reaches the backend over its own connection, often plain http inside the deployment.
func (s *Server) setAuthCookie(w http.ResponseWriter, r *http.Request, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
