// Package boltdb opens the bbolt database shared by the repositories.
package boltdb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// Bucket names
var (
	BucketUsers    = []byte("users")
	BucketUserIDs  = []byte("user_ids")
	BucketTodos    = []byte("todos")
	BucketSessions = []byte("sessions")
)

var buckets = [][]byte{BucketUsers, BucketUserIDs, BucketTodos, BucketSessions}

// Open opens (creating when missing) the database at path and ensures every bucket exists
func Open(path string) (*bbolt.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrapf(err, "[boltdb Open] failed to create %s", dir)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "[boltdb Open] failed to open %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "create bucket %s", name)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "[boltdb Open] failed to create buckets")
	}

	return db, nil
}
