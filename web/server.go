// Package web is the server-rendered front end: views, forms and the per-browser
// viewer state behind them.
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-tasks/client"
	"github.com/jrsteele09/go-tasks/internal/config"
	"github.com/jrsteele09/go-tasks/internal/query"
	"github.com/jrsteele09/go-tasks/internal/ui"
	"github.com/jrsteele09/go-tasks/web/viewers"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
)

// RemoteFactory creates the Remote Data Client of a new viewer
type RemoteFactory func() (viewers.Remote, error)

// ClientFactory returns a RemoteFactory of HTTP clients posting to endpoint
func ClientFactory(endpoint string) RemoteFactory {
	return func() (viewers.Remote, error) {
		return client.New(endpoint)
	}
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PRODUCTION")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	viewers   viewers.Repo
	newRemote RemoteFactory
	markdown  goldmark.Markdown
	errorPage *template.Template
	keepAlive time.Duration // event stream ping interval
	now       func() time.Time
}

func New(cfg config.Config, viewerRepo viewers.Repo, newRemote RemoteFactory) *Server {
	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		viewers:   viewerRepo,
		newRemote: newRemote,
		markdown:  newMarkdown(),
		errorPage: mustParseTemplate("error.html"),
		keepAlive: keepAliveInterval,
		now:       time.Now,
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	ui.LogRoutes(s.routes)
}

// newViewer creates and registers a viewer with its own Remote Data Client
func (s *Server) newViewer() (*viewers.Viewer, error) {
	remote, err := s.newRemote()
	if err != nil {
		return nil, errors.Wrap(err, "[web newViewer] failed to create remote client")
	}

	v := viewers.New(uuid.NewString(), remote, s.queryOptions(), s.now())
	if err := s.viewers.Upsert(v); err != nil {
		v.Close()
		return nil, errors.Wrap(err, "[web newViewer] failed to store viewer")
	}
	log.Debug().Str("viewer_id", v.ID).Msg("new viewer")
	return v, nil
}

// queryOptions: the list and task queries retry and refetch on mount, focus and reconnect.
// Only reads that failed on the server or the network are retried.
func (s *Server) queryOptions() viewers.QueryOptions {
	shouldRetry := func(err error) bool {
		status := client.StatusOf(err)
		return status == 0 || status >= http.StatusInternalServerError
	}
	base := query.Options{
		RetryDelay:         s.config.GetRetryDelay(),
		ShouldRetry:        shouldRetry,
		RefetchOnMount:     true,
		RefetchOnFocus:     true,
		RefetchOnReconnect: true,
	}
	list, task := base, base
	list.Retry = s.config.GetListRetry()
	task.Retry = s.config.GetTaskRetry()
	return viewers.QueryOptions{List: list, Task: task}
}

// EvictIdleViewers drops viewers idle for longer than the configured timeout, every interval
func (s *Server) EvictIdleViewers(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.viewers.DeleteIdle(s.now().Add(-s.config.GetViewerIdleTimeout())); n > 0 {
				log.Debug().Int("count", n).Msg("evicted idle viewers")
			}
		}
	}
}
