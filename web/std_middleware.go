package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-tasks/gate"
	"github.com/jrsteele09/go-tasks/web/viewers"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyViewer stores the request's viewer
	ContextKeyViewer ContextKey = "viewer"
)

// ViewerMiddleware finds the viewer of the viewer_id cookie, creating one for new browsers
func (s *Server) ViewerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v *viewers.Viewer
		if cookie, err := r.Cookie(ViewerCookieName); err == nil {
			v, _ = s.viewers.Get(cookie.Value)
		}

		if v == nil {
			var err error
			v, err = s.newViewer()
			if err != nil {
				log.Error().Err(err).Msg("failed to create viewer")
				http.Error(w, "Failed to start session", http.StatusInternalServerError)
				return
			}
			s.setViewerCookie(w, v.ID)
		}
		v.Touch(s.now())

		ctx := context.WithValue(r.Context(), ContextKeyViewer, v)
		next(w, r.WithContext(ctx))
	}
}

// viewerFrom returns the viewer ViewerMiddleware stored
func viewerFrom(ctx context.Context) *viewers.Viewer {
	v, _ := ctx.Value(ContextKeyViewer).(*viewers.Viewer)
	return v
}

// RequireAuthenticated renders next only for an authenticated viewer. Everyone else is
// sent to the sign-in view; the identity query is awaited first so nothing renders
// while it loads.
func (s *Server) RequireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return s.gateMiddleware(gate.RequireAuthenticated, gate.RouteSignIn, next)
}

// RedirectIfAuthenticated keeps authenticated viewers off the auth forms
func (s *Server) RedirectIfAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return s.gateMiddleware(gate.RedirectIfAuthenticated, gate.RouteRoot, next)
}

func (s *Server) gateMiddleware(policy gate.Policy, target string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := viewerFrom(r.Context())
		snap, err := v.Gate.Load(r.Context())
		if err != nil {
			// the browser went away while the identity loaded
			return
		}

		if gate.Enforce(snap, policy, target, redirectNavigator{w: w, r: r}) != gate.Render {
			return
		}
		next(w, r)
	}
}

// CacheMiddleware sets cache headers for static assets
func (s *Server) CacheMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasSuffix(path, ".css") || strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".svg") {
			w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		}
		next(w, r)
	}
}
