package web

import (
	"net/http"

	"github.com/jrsteele09/go-tasks/internal/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	// Protected views
	s.RegisterRouteHandler("GET "+RouteRoot+"{$}", middleware.Chain(s.TasksPageHandler(), s.HTMLMiddleWare(s.RequireAuthenticated)...))
	s.RegisterRouteHandler("GET "+RouteTask, middleware.Chain(s.TaskPageHandler(), s.HTMLMiddleWare(s.RequireAuthenticated)...))

	// Auth views
	s.RegisterRouteHandler("GET "+RouteSignIn, middleware.Chain(s.SignInPageHandler(), s.HTMLMiddleWare(s.RedirectIfAuthenticated)...))
	s.RegisterRouteHandler("POST "+RouteSignIn, middleware.Chain(s.SignInSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSignUp, middleware.Chain(s.SignUpPageHandler(), s.HTMLMiddleWare(s.RedirectIfAuthenticated)...))
	s.RegisterRouteHandler("POST "+RouteSignUp, middleware.Chain(s.SignUpSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignOut, middleware.Chain(s.SignOutHandler(), s.HTMLMiddleWare()...))

	// Task mutations
	s.RegisterRouteHandler("POST "+RouteTasks, middleware.Chain(s.CreateTaskHandler(), s.HTMLMiddleWare(s.RequireAuthenticated)...))
	s.RegisterRouteHandler("POST "+RouteTaskToggle, middleware.Chain(s.ToggleTaskHandler(), s.HTMLMiddleWare(s.RequireAuthenticated)...))
	s.RegisterRouteHandler("POST "+RouteTaskDelete, middleware.Chain(s.DeleteTaskHandler(), s.HTMLMiddleWare(s.RequireAuthenticated)...))

	// Navigation events
	s.RegisterRouteHandler("GET "+RouteEvents, middleware.Chain(s.EventsHandler(), s.EventMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteFocus, middleware.Chain(s.FocusHandler(), s.EventMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStatic, middleware.Chain(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("/", middleware.Chain(s.NotFoundHandler(), s.HTMLMiddleWare()...))
}

// HTMLMiddleWare is the chain of every page and form route, followed by mw
func (s *Server) HTMLMiddleWare(mw ...middleware.Middleware) []middleware.Middleware {
	chainedMiddleWare := []middleware.Middleware{
		middleware.Logging(s.env),
		middleware.Recover(s.renderPanic),
		middleware.FrameSecurity,
		s.ViewerMiddleware,
	}
	return append(chainedMiddleWare, mw...)
}

// EventMiddleware serves the event stream. Streams are long lived, so they are not request logged.
func (s *Server) EventMiddleware() []middleware.Middleware {
	return []middleware.Middleware{
		middleware.Recover(s.renderPanic),
		s.ViewerMiddleware,
	}
}

func (s *Server) StaticMiddleware() []middleware.Middleware {
	return []middleware.Middleware{
		middleware.Logging(s.env),
		s.CacheMiddleware,
	}
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := r.PathValue("file")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			log.Warn().Err(err).Str("file", filePath).Msg("static file")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
