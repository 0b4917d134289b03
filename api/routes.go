package api

import (
	"net/http"

	"github.com/jrsteele09/go-tasks/internal/middleware"
)

func (s *Server) initRoutes() {
	// Queries
	s.RegisterProcedure(ProcWhoAmI, middleware.Chain(s.WhoAmI(), s.APIMiddleware(s.RequireAuth)...))
	s.RegisterProcedure(ProcListTodos, middleware.Chain(s.ListTodos(), s.APIMiddleware(s.RequireAuth)...))
	s.RegisterProcedure(ProcGetTodo, middleware.Chain(s.GetTodo(), s.APIMiddleware(s.RequireAuth)...))

	// Mutations
	s.RegisterProcedure(ProcSignIn, middleware.Chain(s.SignIn(), s.APIMiddleware()...))
	s.RegisterProcedure(ProcSignUp, middleware.Chain(s.SignUp(), s.APIMiddleware()...))
	s.RegisterProcedure(ProcSignOut, middleware.Chain(s.SignOut(), s.APIMiddleware()...))
	s.RegisterProcedure(ProcCreateTodo, middleware.Chain(s.CreateTodo(), s.APIMiddleware(s.RequireAuth)...))
	s.RegisterProcedure(ProcDeleteTodo, middleware.Chain(s.DeleteTodo(), s.APIMiddleware(s.RequireAuth)...))
	s.RegisterProcedure(ProcToggleCompleted, middleware.Chain(s.ToggleCompleted(), s.APIMiddleware(s.RequireAuth)...))

	s.RegisterRouteFunc(http.MethodGet, RouteHealth, s.Health())

	s.router.NotFoundHandler = middleware.Chain(s.UnknownProcedure(), s.APIMiddleware()...)
	s.router.MethodNotAllowedHandler = middleware.Chain(s.MethodNotAllowed(), s.APIMiddleware()...)
}

// APIMiddleware is the chain every procedure runs behind, followed by mw
func (s *Server) APIMiddleware(mw ...middleware.Middleware) []middleware.Middleware {
	chainedMiddleWare := []middleware.Middleware{
		middleware.Logging(s.env),
		middleware.Recover(s.panicResponse),
		middleware.Cors(s.config),
	}
	return append(chainedMiddleWare, mw...)
}

func (s *Server) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

func (s *Server) UnknownProcedure() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errUnknownProcedure)
	}
}

func (s *Server) MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errMethodNotAllowed)
	}
}

func (s *Server) panicResponse(w http.ResponseWriter, _ *http.Request, _ any) {
	writeError(w, errInternal)
}
