package query

import (
	"context"
	"sync"
)

// Query is a typed observer of one cache key. Close it when the view goes away.
type Query[T any] struct {
	c     *Client
	e     *entry
	close sync.Once
}

// New observes key, registering fetch as its loader. Observers of the same key
// share one entry; the most recently registered fetch and options win.
func New[T any](c *Client, key string, fetch func(ctx context.Context) (T, error), opts Options) *Query[T] {
	e := c.register(key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, opts)
	return &Query[T]{c: c, e: e}
}

func (q *Query[T]) Key() string {
	return q.e.key
}

// State is the current snapshot without triggering a fetch
func (q *Query[T]) State() State[T] {
	return convert[T](q.e.cell.Value())
}

// Version increases with every state change
func (q *Query[T]) Version() uint64 {
	_, v := q.e.cell.Get()
	return v
}

// Fetch loads the key if it never loaded or is stale, joining any in-flight fetch
func (q *Query[T]) Fetch(ctx context.Context) (State[T], error) {
	if err := wait(ctx, q.c.ensure(ctx, q.e)); err != nil {
		return q.State(), err
	}
	return q.State(), nil
}

// Refetch starts a new fetch and waits for it
func (q *Query[T]) Refetch(ctx context.Context) (State[T], error) {
	if err := wait(ctx, q.c.refetch(ctx, q.e)); err != nil {
		return q.State(), err
	}
	return q.State(), nil
}

// Await returns the first settled state, fetching if nothing is loading yet
func (q *Query[T]) Await(ctx context.Context) (State[T], error) {
	state, err := q.Fetch(ctx)
	if err != nil || state.Settled() {
		return state, err
	}
	_, version := q.e.cell.Get()
	for {
		s, v, err := q.e.cell.WaitNewer(ctx, version)
		if err != nil {
			return convert[T](s), err
		}
		if s.Status != StatusPending {
			return convert[T](s), nil
		}
		version = v
	}
}

// Mount is Await for a view that has just appeared. A settled entry refetches when
// its options ask for RefetchOnMount or when it settled with an error.
func (q *Query[T]) Mount(ctx context.Context) (State[T], error) {
	state := q.State()
	if state.Settled() && (q.c.options(q.e).RefetchOnMount || state.IsError()) {
		return q.Refetch(ctx)
	}
	return q.Await(ctx)
}

// Subscribe calls fn with every new state of the key
func (q *Query[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	return q.e.cell.Subscribe(func(s State[any]) {
		fn(convert[T](s))
	})
}

// Changed returns a channel closed by the next state change
func (q *Query[T]) Changed() <-chan struct{} {
	return q.e.cell.Changed()
}

// Close stops observing the key. Unobserved keys are not refetched on invalidation.
func (q *Query[T]) Close() {
	q.close.Do(func() {
		q.c.release(q.e)
	})
}
