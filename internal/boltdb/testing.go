package boltdb

import (
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"
)

// OpenTemp opens a database in a test temp dir, closed on cleanup
func OpenTemp(t testing.TB) *bbolt.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("open temp bolt db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
