package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/jrsteele09/go-tasks/client"
	"github.com/jrsteele09/go-tasks/gate"
	"github.com/jrsteele09/go-tasks/users"
	"github.com/rs/zerolog/log"
)

// Sign-up form validation messages
var (
	UsernameTooShort  = fmt.Sprintf("Username must be at least %d characters long", users.MinUsernameLength)
	PasswordsMismatch = "Passwords do not match"
)

// validateSignUp checks the sign-up form before anything is sent to the backend
func validateSignUp(username, password, confirm string) string {
	if utf8.RuneCountInString(username) < users.MinUsernameLength {
		return UsernameTooShort
	}
	if password != confirm {
		return PasswordsMismatch
	}
	return ""
}

// SignInPageHandler displays the sign-in form
func (s *Server) SignInPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("sign_in.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := authPageData{
			PageData:     s.pageData(r, viewerFrom(r.Context()), "Sign in", pageGuest),
			FormUsername: r.URL.Query().Get("username"),
		}
		render(w, http.StatusOK, tmpl, data)
	}
}

// SignInSubmissionHandler signs in, then refetches the identity so the gate sees the
// new session before the root view is requested
func (s *Server) SignInSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteSignIn, "Invalid form submission")
			return
		}

		creds := users.Credentials{
			Username: strings.TrimSpace(r.FormValue("username")),
			Password: r.FormValue("password"),
		}

		v := viewerFrom(r.Context())
		if _, err := v.Remote.SignIn(r.Context(), creds); err != nil {
			log.Debug().Err(err).Str("username", creds.Username).Msg("sign-in failed")
			redirectWithError(w, r, RouteSignIn, client.Message(err))
			return
		}

		if _, err := v.Gate.RefetchIdentity(r.Context()); err != nil {
			log.Warn().Err(err).Msg("identity refetch interrupted")
		}
		redirectSuccess(w, r, gate.RouteRoot)
	}
}

// SignUpPageHandler displays the sign-up form
func (s *Server) SignUpPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("sign_up.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := authPageData{
			PageData: s.pageData(r, viewerFrom(r.Context()), "Sign up", pageGuest),
		}
		render(w, http.StatusOK, tmpl, data)
	}
}

// SignUpSubmissionHandler creates an account. Invalid forms are shown again without
// calling the backend.
func (s *Server) SignUpSubmissionHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("sign_up.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteSignUp, "Invalid form submission")
			return
		}

		v := viewerFrom(r.Context())
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")

		if msg := validateSignUp(username, password, r.FormValue("confirm_password")); msg != "" {
			data := authPageData{
				PageData:     s.pageData(r, v, "Sign up", pageGuest),
				FormUsername: username,
				FormError:    msg,
			}
			render(w, http.StatusUnprocessableEntity, tmpl, data)
			return
		}

		if err := v.Remote.SignUp(r.Context(), users.Credentials{Username: username, Password: password}); err != nil {
			log.Debug().Err(err).Str("username", username).Msg("sign-up failed")
			redirectWithError(w, r, RouteSignUp, client.Message(err))
			return
		}
		redirectSuccess(w, r, RouteSignIn+"?username="+url.QueryEscape(username))
	}
}

// SignOutHandler ends the backend session and invalidates the identity, so the gate
// settles unauthenticated without a reload
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := viewerFrom(r.Context())
		if err := v.Remote.SignOut(r.Context()); err != nil {
			redirectWithError(w, r, returnPath(r, RouteRoot), client.Message(err))
			return
		}

		if err := v.Gate.Invalidate(r.Context()); err != nil {
			log.Warn().Err(err).Msg("identity invalidation interrupted")
		}
		w.Header().Set("Cache-Control", "no-store")
		redirectSuccess(w, r, gate.RouteSignIn)
	}
}
