// Package api is the procedure-call backend the front end's Remote Data Client talks to.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-tasks/internal/config"
	"github.com/jrsteele09/go-tasks/internal/ui"
	"github.com/jrsteele09/go-tasks/sessions"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/token"
	"github.com/jrsteele09/go-tasks/users"
)

// Repos groups the storage the procedures work against
type Repos struct {
	Users    users.UserRepo
	Tasks    tasks.Repo
	Sessions sessions.Repo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PRODUCTION")
	router *mux.Router
	routes []string
	config config.Config
	repos  Repos
	tokens *token.Issuer
}

func New(cfg config.Config, repos Repos, signer token.Signer) *Server {
	s := &Server{
		env:    cfg.GetEnv(),
		router: mux.NewRouter(),
		config: cfg,
		repos:  repos,
		tokens: token.NewIssuer(signer),
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterProcedure exposes handler as POST RouteRPC/name. OPTIONS is routed too so
// the CORS middleware can answer preflight requests.
func (s *Server) RegisterProcedure(name string, handler http.HandlerFunc) {
	path := RouteRPC + "/" + name
	s.routes = append(s.routes, http.MethodPost+" "+path)
	s.router.HandleFunc(path, handler).Methods(http.MethodPost, http.MethodOptions)
}

func (s *Server) RegisterRouteFunc(method, path string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+path)
	s.router.HandleFunc(path, handler).Methods(method)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	ui.LogRoutes(s.routes)
}
