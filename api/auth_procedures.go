package api

import (
	"net/http"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/sessions"
	"github.com/jrsteele09/go-tasks/token"
	"github.com/jrsteele09/go-tasks/users"
	"github.com/rs/zerolog/log"
)

// WhoAmI returns the signed-in user
func (s *Server) WhoAmI() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, _ Void) (*users.User, error) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			return nil, errUnauthorized
		}

		user, err := s.repos.Users.GetByID(session.UserID)
		if err != nil {
			log.Warn().Err(err).Int("user_id", session.UserID).Msg("session for unknown user")
			return nil, errUnauthorized
		}
		return user, nil
	})
}

// SignIn checks the credentials, opens a session and sets the auth cookie
func (s *Server) SignIn() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, in users.Credentials) (*users.User, error) {
		user, err := s.repos.Users.GetByUsername(in.Username)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUserNotFound) {
				return nil, errInvalidCredentials
			}
			log.Error().Err(err).Str("username", in.Username).Msg("failed to look up user")
			return nil, errInternal
		}

		if !user.VerifyPassword(in.Password) {
			log.Debug().Str("username", in.Username).Msg("password mismatch")
			return nil, errInvalidCredentials
		}

		// A previous session on this cookie is replaced
		if previous, err := s.authenticate(r); err == nil {
			_ = s.repos.Sessions.Delete(previous.ID)
		}

		now := token.NowTimeFunc()
		maxAge := s.config.GetMaxSessionAge()
		session := &sessions.SessionData{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Username:  user.Username,
			CreatedAt: now,
			ExpiresAt: now.Add(maxAge),
		}
		if err := s.repos.Sessions.Upsert(session); err != nil {
			log.Error().Err(err).Msg("failed to store session")
			return nil, errInternal
		}

		signed, err := s.tokens.Create(token.SessionClaims{
			SessionID: session.ID,
			UserID:    user.ID,
			Username:  user.Username,
			ExpiresAt: session.ExpiresAt,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to sign session token")
			return nil, errInternal
		}

		s.setAuthCookie(w, r, signed, maxAge)
		log.Info().Str("username", user.Username).Str("session_id", session.ID).Msg("signed in")
		return user, nil
	})
}

// SignUp creates an account. It does not sign the new user in.
func (s *Server) SignUp() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, in users.Credentials) (Void, error) {
		if err := users.ValidateSignUp(in); err != nil {
			return Void{}, err
		}

		hash, err := users.HashPassword(in.Password)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			return Void{}, errInternal
		}

		if _, err := s.repos.Users.Create(in.Username, hash); err != nil {
			if apperrors.Is(err, apperrors.ErrUserExists) {
				return Void{}, errUserExists
			}
			log.Error().Err(err).Str("username", in.Username).Msg("failed to create user")
			return Void{}, errInternal
		}

		log.Info().Str("username", in.Username).Msg("signed up")
		return Void{}, nil
	})
}

// SignOut revokes the current session, if any, and expires the cookie
func (s *Server) SignOut() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, _ Void) (Void, error) {
		if cookie, err := r.Cookie(AuthCookieName); err == nil {
			if claims, err := s.tokens.Parse(cookie.Value); err == nil {
				if err := s.repos.Sessions.Delete(claims.SessionID); err != nil {
					log.Error().Err(err).Str("session_id", claims.SessionID).Msg("failed to delete session")
					return Void{}, errInternal
				}
			}
		}
		s.clearAuthCookie(w, r)
		return Void{}, nil
	})
}
