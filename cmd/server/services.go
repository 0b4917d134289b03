package main

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-tasks/api"
	"github.com/jrsteele09/go-tasks/internal/boltdb"
	"github.com/jrsteele09/go-tasks/internal/config"
	"github.com/jrsteele09/go-tasks/sessions/boltrepo"
	taskrepo "github.com/jrsteele09/go-tasks/tasks/boltrepo"
	"github.com/jrsteele09/go-tasks/token"
	userrepo "github.com/jrsteele09/go-tasks/users/boltrepo"
	"github.com/jrsteele09/go-tasks/web"
	"github.com/jrsteele09/go-tasks/web/viewers"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func apiServices(c config.Config) ([]service, error) {
	db, err := boltdb.Open(c.GetDBPath())
	if err != nil {
		return nil, err
	}

	secret := c.GetSessionSecret()
	if secret == "" {
		// sessions will not survive a restart
		log.Warn().Msg("no session secret configured, generating one")
		if secret, err = token.GenerateSecret(); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to generate session secret")
		}
	}

	s := api.New(c, api.Repos{
		Users:    userrepo.New(db),
		Tasks:    taskrepo.New(db),
		Sessions: boltrepo.New(db),
	}, token.NewHMACSigner(secret))

	return []service{{
		server:     &http.Server{Addr: c.GetAPIPort(), Handler: s},
		background: []func(ctx context.Context){func(ctx context.Context) { s.SweepSessions(ctx, sweepInterval) }},
		close:      db.Close,
	}}, nil
}

func webServices(c config.Config) ([]service, error) {
	s := web.New(c, viewers.NewInMemoryViewerRepo(), web.ClientFactory(c.GetAPIEndpoint()))
	return []service{{
		server:     &http.Server{Addr: c.GetPort(), Handler: s},
		background: []func(ctx context.Context){func(ctx context.Context) { s.EvictIdleViewers(ctx, evictionInterval) }},
	}}, nil
}

func allServices(c config.Config) ([]service, error) {
	backend, err := apiServices(c)
	if err != nil {
		return nil, err
	}
	frontEnd, err := webServices(c)
	if err != nil {
		return nil, err
	}
	return append(backend, frontEnd...), nil
}
