// Package boltrepo persists backend sessions so sign-ins survive a restart.
package boltrepo

import (
	"encoding/json"
	"time"

	"github.com/jrsteele09/go-tasks/internal/boltdb"
	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/sessions"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var _ sessions.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	db *bbolt.DB
}

func New(db *bbolt.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Upsert(sessionData *sessions.SessionData) error {
	b, err := json.Marshal(sessionData)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo Upsert] encode")
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltdb.BucketSessions).Put([]byte(sessionData.ID), b)
	})
}

func (r *SessionRepo) Delete(sessionID string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltdb.BucketSessions).Delete([]byte(sessionID))
	})
}

func (r *SessionRepo) Get(sessionID string) (*sessions.SessionData, error) {
	var session sessions.SessionData
	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltdb.BucketSessions).Get([]byte(sessionID))
		if v == nil {
			return apperrors.ErrSessionNotFound
		}
		return json.Unmarshal(v, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepo) DeleteExpiredSessions(now time.Time) (int, error) {
	removed := 0
	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltdb.BucketSessions)
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var session sessions.SessionData
			if err := json.Unmarshal(v, &session); err != nil || session.Expired(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	return removed, err
}
