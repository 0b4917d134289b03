// Package gate decides, from the identity query, whether a viewer may see a view.
package gate

import (
	"context"

	"github.com/jrsteele09/go-tasks/internal/query"
	"github.com/jrsteele09/go-tasks/users"
)

// IdentityKey is the query cache key of the whoami query
const IdentityKey = "whoami"

// Identity is who the backend says the viewer is
type Identity struct {
	UserID   int
	Username string
}

// Snapshot is the gate's read-only view of the identity query
type Snapshot struct {
	Loading  bool
	Identity *Identity // nil when not authenticated
	Failed   bool
}

// Authenticated reports a settled, successful identity with a username
func (s Snapshot) Authenticated() bool {
	return !s.Loading && !s.Failed && s.Identity != nil && s.Identity.Username != ""
}

// Username returns the identity's username or ""
func (s Snapshot) Username() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Username
}

// WhoAmIFunc performs the identity query
type WhoAmIFunc func(ctx context.Context) (users.User, error)

// Gate answers whether the viewer is authenticated, from the cached identity query
type Gate struct {
	cache *query.Client
	q     *query.Query[users.User]
}

// New observes the identity query on cache. The identity query never retries and
// ignores mount, focus and reconnect events.
func New(cache *query.Client, whoami WhoAmIFunc) *Gate {
	return &Gate{
		cache: cache,
		q:     query.New(cache, IdentityKey, whoami, query.Options{}),
	}
}

// CurrentIdentity is the current snapshot. It does not trigger a fetch.
func (g *Gate) CurrentIdentity() Snapshot {
	return snapshotOf(g.q.State())
}

// Load returns the first settled snapshot, issuing the identity query if it never
// ran or was invalidated.
func (g *Gate) Load(ctx context.Context) (Snapshot, error) {
	state, err := g.q.Await(ctx)
	return snapshotOf(state), err
}

// RefetchIdentity re-issues the identity query and waits for it to settle
func (g *Gate) RefetchIdentity(ctx context.Context) (Snapshot, error) {
	state, err := g.q.Refetch(ctx)
	return snapshotOf(state), err
}

// Invalidate marks the identity stale and refetches it
func (g *Gate) Invalidate(ctx context.Context) error {
	return g.cache.Invalidate(ctx, IdentityKey)
}

// Subscribe calls fn with the snapshot after every change of the identity query
func (g *Gate) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return g.q.Subscribe(func(s query.State[users.User]) {
		fn(snapshotOf(s))
	})
}

// Close stops observing the identity query
func (g *Gate) Close() {
	g.q.Close()
}

func snapshotOf(s query.State[users.User]) Snapshot {
	snap := Snapshot{
		Loading: s.Loading(),
		Failed:  s.IsError(),
	}
	// An error never carries an identity, even if an older fetch had one
	if s.IsSuccess() && s.Data.Username != "" {
		snap.Identity = &Identity{UserID: s.Data.ID, Username: s.Data.Username}
	}
	return snap
}
