package api

import (
	"context"
	"time"

	"github.com/jrsteele09/go-tasks/token"
	"github.com/rs/zerolog/log"
)

// SweepSessions deletes expired sessions every interval until ctx is done
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Server) sweepOnce() int {
	n, err := s.repos.Sessions.DeleteExpiredSessions(token.NowTimeFunc())
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep expired sessions")
		return 0
	}
	if n > 0 {
		log.Debug().Int("count", n).Msg("swept expired sessions")
	}
	return n
}
