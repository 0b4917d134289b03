package fakesessionrepo

import (
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	sessions map[string]sessions.SessionData
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]sessions.SessionData),
	}
}

func (sr *FakeSessionRepo) Upsert(sessionData *sessions.SessionData) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.sessions[sessionData.ID] = *sessionData
	return nil
}

func (sr *FakeSessionRepo) Delete(sessionID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.sessions, sessionID)
	return nil
}

func (sr *FakeSessionRepo) Get(sessionID string) (*sessions.SessionData, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	session, ok := sr.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return &session, nil
}

func (sr *FakeSessionRepo) DeleteExpiredSessions(now time.Time) (int, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	removed := 0
	for sessionID, session := range sr.sessions {
		if session.Expired(now) {
			delete(sr.sessions, sessionID)
			removed++
		}
	}
	return removed, nil
}

// Len is the number of stored sessions
func (sr *FakeSessionRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return len(sr.sessions)
}
