// Package boltrepo stores users in bbolt, keyed by username with an id index.
package boltrepo

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/jrsteele09/go-tasks/internal/boltdb"
	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/users"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var _ users.UserRepo = (*UserRepo)(nil)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

type UserRepo struct {
	db *bbolt.DB
}

// record is the stored form; unlike users.User it keeps the password hash
type record struct {
	ID           int    `json:"user_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	CreatedAt    int64  `json:"createdAt"`
}

func New(db *bbolt.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(username, passwordHash string) (*users.User, error) {
	rec := record{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    NowFunc().Unix(),
	}

	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltdb.BucketUsers)
		if bucket.Get([]byte(username)) != nil {
			return apperrors.ErrUserExists
		}

		id, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		rec.ID = int(id)

		encoded, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(username), encoded); err != nil {
			return err
		}
		return tx.Bucket(boltdb.BucketUserIDs).Put(idKey(rec.ID), []byte(username))
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserExists) {
			return nil, err
		}
		return nil, errors.Wrap(err, "[UserRepo Create]")
	}

	return rec.user(), nil
}

func (r *UserRepo) GetByUsername(username string) (*users.User, error) {
	var rec record
	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltdb.BucketUsers).Get([]byte(username))
		if v == nil {
			return apperrors.ErrUserNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

func (r *UserRepo) GetByID(id int) (*users.User, error) {
	var rec record
	err := r.db.View(func(tx *bbolt.Tx) error {
		username := tx.Bucket(boltdb.BucketUserIDs).Get(idKey(id))
		if username == nil {
			return apperrors.ErrUserNotFound
		}
		v := tx.Bucket(boltdb.BucketUsers).Get(username)
		if v == nil {
			return apperrors.ErrUserNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

func (rec record) user() *users.User {
	return &users.User{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

func idKey(id int) []byte {
	return []byte(strconv.Itoa(id))
}
