// Package query is a keyed cache of remote reads with invalidation.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-tasks/internal/signal"
	"github.com/rs/zerolog/log"
)

// Fetcher loads the value of a key
type Fetcher func(ctx context.Context) (any, error)

// Client owns every cache entry. Entries are only ever changed by fetches started
// through Fetch, Refetch, Invalidate or the refetch events.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

type entry struct {
	key       string
	fetch     Fetcher
	opts      Options
	cell      *signal.Cell[State[any]]
	observers int
	seq       uint64
	inflight  *flight
	stale     bool
}

type flight struct {
	seq  uint64
	done chan struct{}
}

type ClientOption func(*Client)

// WithSleep replaces the retry delay function
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		c.sleep = sleep
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		entries: make(map[string]*entry),
		now:     time.Now,
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate marks the entries under keys stale and refetches those with active
// observers. It returns once those refetches settle or ctx is done.
func (c *Client) Invalidate(ctx context.Context, keys ...string) error {
	var flights []*flight

	c.mu.Lock()
	var marked []*entry
	for _, key := range keys {
		e, ok := c.entries[key]
		if !ok {
			continue
		}
		if e.observers > 0 {
			flights = append(flights, c.startLocked(ctx, e))
			continue
		}
		e.stale = true
		marked = append(marked, e)
	}
	c.mu.Unlock()

	for _, e := range marked {
		e.cell.Update(func(s State[any]) State[any] {
			s.Stale = true
			return s
		})
	}

	log.Debug().Strs("keys", keys).Int("refetching", len(flights)).Msg("query invalidate")
	return wait(ctx, flights...)
}

// Mount refetches observed entries with RefetchOnMount set
func (c *Client) Mount(ctx context.Context) error {
	return c.refetchWhere(ctx, func(o Options) bool { return o.RefetchOnMount })
}

// Focus refetches observed entries with RefetchOnFocus set
func (c *Client) Focus(ctx context.Context) error {
	return c.refetchWhere(ctx, func(o Options) bool { return o.RefetchOnFocus })
}

// Reconnect refetches observed entries with RefetchOnReconnect set
func (c *Client) Reconnect(ctx context.Context) error {
	return c.refetchWhere(ctx, func(o Options) bool { return o.RefetchOnReconnect })
}

func (c *Client) refetchWhere(ctx context.Context, match func(Options) bool) error {
	var flights []*flight
	c.mu.Lock()
	for _, e := range c.entries {
		if e.observers > 0 && match(e.opts) {
			flights = append(flights, c.startLocked(ctx, e))
		}
	}
	c.mu.Unlock()
	return wait(ctx, flights...)
}

func (c *Client) register(key string, fetch Fetcher, opts Options) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			key:  key,
			cell: signal.NewCell(State[any]{}),
		}
		c.entries[key] = e
	}
	e.fetch = fetch
	e.opts = opts
	e.observers++
	return e
}

func (c *Client) options(e *entry) Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.opts
}

func (c *Client) release(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.observers > 0 {
		e.observers--
	}
}

// ensure joins the in-flight fetch, or starts one when the entry never loaded or is stale
func (c *Client) ensure(ctx context.Context, e *entry) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.inflight != nil {
		return e.inflight
	}
	state := e.cell.Value()
	if state.Status == StatusPending || e.stale || state.Stale {
		return c.startLocked(ctx, e)
	}
	return nil
}

func (c *Client) refetch(ctx context.Context, e *entry) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(ctx, e)
}

// startLocked always begins a new fetch. The fetch outlives ctx cancellation:
// in-flight requests are never aborted.
func (c *Client) startLocked(ctx context.Context, e *entry) *flight {
	e.seq++
	f := &flight{seq: e.seq, done: make(chan struct{})}
	e.inflight = f
	e.stale = false

	go c.run(context.WithoutCancel(ctx), e, f, e.fetch, e.opts)
	return f
}

func (c *Client) run(ctx context.Context, e *entry, f *flight, fetch Fetcher, opts Options) {
	defer close(f.done)

	e.cell.Update(func(s State[any]) State[any] {
		if f.seq > s.seq {
			s.Fetching = true
		}
		return s
	})

	data, err := c.fetchWithRetry(ctx, e.key, fetch, opts)

	c.mu.Lock()
	if e.inflight == f {
		e.inflight = nil
	}
	c.mu.Unlock()

	now := c.now()
	e.cell.Update(func(s State[any]) State[any] {
		if f.seq < s.seq {
			// a later fetch already settled this key
			return s
		}
		s.seq = f.seq
		s.Fetching = false
		s.Stale = false
		s.UpdatedAt = now
		if err != nil {
			s.Status = StatusError
			s.Err = err
			return s
		}
		s.Status = StatusSuccess
		s.Data = data
		s.Err = nil
		return s
	})
}

func (c *Client) fetchWithRetry(ctx context.Context, key string, fetch Fetcher, opts Options) (any, error) {
	var (
		data any
		err  error
	)
	for attempt := 0; ; attempt++ {
		data, err = safeFetch(ctx, fetch)
		if err == nil {
			return data, nil
		}
		if attempt >= opts.Retry || !opts.shouldRetry(err) {
			return nil, err
		}
		delay := opts.retryDelay(attempt)
		log.Debug().Err(err).Str("key", key).Int("attempt", attempt+1).Dur("delay", delay).Msg("query retry")
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return nil, err
		}
	}
}

// safeFetch turns a panicking fetch into an error; fetches run on their own goroutine
func safeFetch(ctx context.Context, fetch Fetcher) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("query fetch panicked")
			err = fmt.Errorf("query fetch panicked: %v", r)
		}
	}()
	return fetch(ctx)
}

func wait(ctx context.Context, flights ...*flight) error {
	for _, f := range flights {
		if f == nil {
			continue
		}
		select {
		case <-f.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
