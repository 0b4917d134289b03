package query_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-tasks/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newClient() *query.Client {
	return query.NewClient(query.WithSleep(noSleep))
}

func TestFetchLoadsOnce(t *testing.T) {
	c := newClient()
	var calls atomic.Int32
	q := query.New(c, "todos", func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, query.Options{})
	defer q.Close()

	require.True(t, q.State().Loading())

	state, err := q.Fetch(context.Background())
	require.NoError(t, err)
	require.True(t, state.IsSuccess())
	require.Equal(t, 1, state.Data)

	state, err = q.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, state.Data)
	require.Equal(t, int32(1), calls.Load())
}

func TestFetchJoinsInflight(t *testing.T) {
	c := newClient()
	release := make(chan struct{})
	var calls atomic.Int32
	q := query.New(c, "whoami", func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "jdoe", nil
	}, query.Options{})
	defer q.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := q.Await(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "jdoe", state.Data)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
}

func TestInvalidate(t *testing.T) {
	t.Run("refetches observed keys", func(t *testing.T) {
		c := newClient()
		var n atomic.Int32
		q := query.New(c, "todos", func(context.Context) (int32, error) {
			return n.Add(1), nil
		}, query.Options{})
		defer q.Close()

		_, err := q.Fetch(context.Background())
		require.NoError(t, err)

		require.NoError(t, c.Invalidate(context.Background(), "todos"))
		require.Equal(t, int32(2), q.State().Data)
	})

	t.Run("only marks unobserved keys stale", func(t *testing.T) {
		c := newClient()
		var n atomic.Int32
		q := query.New(c, "task-7", func(context.Context) (int32, error) {
			return n.Add(1), nil
		}, query.Options{})
		_, err := q.Fetch(context.Background())
		require.NoError(t, err)
		q.Close()

		require.NoError(t, c.Invalidate(context.Background(), "task-7", "unknown"))
		require.Equal(t, int32(1), n.Load())

		q = query.New(c, "task-7", func(context.Context) (int32, error) {
			return n.Add(1), nil
		}, query.Options{})
		defer q.Close()
		require.True(t, q.State().Stale)

		state, err := q.Fetch(context.Background())
		require.NoError(t, err)
		require.Equal(t, int32(2), state.Data)
		require.False(t, state.Stale)
	})

	t.Run("leaves other keys untouched", func(t *testing.T) {
		c := newClient()
		var a, b atomic.Int32
		qa := query.New(c, "task-1", func(context.Context) (int32, error) { return a.Add(1), nil }, query.Options{})
		qb := query.New(c, "task-2", func(context.Context) (int32, error) { return b.Add(1), nil }, query.Options{})
		defer qa.Close()
		defer qb.Close()
		_, _ = qa.Fetch(context.Background())
		_, _ = qb.Fetch(context.Background())

		require.NoError(t, c.Invalidate(context.Background(), "task-1"))

		require.Equal(t, int32(2), qa.State().Data)
		require.Equal(t, int32(1), qb.State().Data)
	})
}

func TestLatestFetchWins(t *testing.T) {
	c := newClient()
	first := make(chan struct{})
	var calls atomic.Int32
	q := query.New(c, "todos", func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			<-first
			return "stale list", nil
		}
		return "fresh list", nil
	}, query.Options{})
	defer q.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = q.Refetch(context.Background())
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.Invalidate(context.Background(), "todos"))
	require.Equal(t, "fresh list", q.State().Data)

	close(first)
	<-done
	state := q.State()
	require.Equal(t, "fresh list", state.Data)
	require.False(t, state.Fetching)
}

func TestRetry(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("retries reads up to the configured count", func(t *testing.T) {
		c := newClient()
		var calls atomic.Int32
		q := query.New(c, "todos", func(context.Context) (int, error) {
			if calls.Add(1) < 3 {
				return 0, errBoom
			}
			return 42, nil
		}, query.Options{Retry: 3})
		defer q.Close()

		state, err := q.Fetch(context.Background())
		require.NoError(t, err)
		require.Equal(t, 42, state.Data)
		require.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		c := newClient()
		var calls atomic.Int32
		q := query.New(c, "whoami", func(context.Context) (int, error) {
			calls.Add(1)
			return 0, errBoom
		}, query.Options{Retry: 2})
		defer q.Close()

		state, err := q.Fetch(context.Background())
		require.NoError(t, err)
		require.True(t, state.IsError())
		require.ErrorIs(t, state.Err, errBoom)
		require.Equal(t, int32(3), calls.Load())
	})

	t.Run("ShouldRetry filters errors", func(t *testing.T) {
		c := newClient()
		var calls atomic.Int32
		q := query.New(c, "task-9", func(context.Context) (int, error) {
			calls.Add(1)
			return 0, errBoom
		}, query.Options{Retry: 5, ShouldRetry: func(error) bool { return false }})
		defer q.Close()

		_, err := q.Fetch(context.Background())
		require.NoError(t, err)
		require.Equal(t, int32(1), calls.Load())
	})
}

func TestErrorKeepsLastData(t *testing.T) {
	c := newClient()
	fail := atomic.Bool{}
	q := query.New(c, "whoami", func(context.Context) (string, error) {
		if fail.Load() {
			return "", errors.New("Unauthorized")
		}
		return "jdoe", nil
	}, query.Options{})
	defer q.Close()

	_, _ = q.Fetch(context.Background())
	fail.Store(true)
	require.NoError(t, c.Invalidate(context.Background(), "whoami"))

	state := q.State()
	require.True(t, state.IsError())
	require.Equal(t, "jdoe", state.Data)
	require.EqualError(t, state.Err, "Unauthorized")
}

func TestRefetchEvents(t *testing.T) {
	c := newClient()
	var focused, plain atomic.Int32
	qf := query.New(c, "todos", func(context.Context) (int32, error) { return focused.Add(1), nil },
		query.Options{RefetchOnFocus: true, RefetchOnReconnect: true})
	qp := query.New(c, "whoami", func(context.Context) (int32, error) { return plain.Add(1), nil }, query.Options{})
	defer qf.Close()
	defer qp.Close()
	_, _ = qf.Fetch(context.Background())
	_, _ = qp.Fetch(context.Background())

	require.NoError(t, c.Focus(context.Background()))
	require.NoError(t, c.Reconnect(context.Background()))
	require.NoError(t, c.Mount(context.Background()))

	require.Equal(t, int32(3), qf.State().Data)
	require.Equal(t, int32(1), qp.State().Data)
}

func TestSubscribe(t *testing.T) {
	c := newClient()
	q := query.New(c, "whoami", func(context.Context) (string, error) { return "jdoe", nil }, query.Options{})
	defer q.Close()

	var mu sync.Mutex
	var settled []string
	unsubscribe := q.Subscribe(func(s query.State[string]) {
		if s.Settled() && !s.Fetching {
			mu.Lock()
			settled = append(settled, s.Data)
			mu.Unlock()
		}
	})
	defer unsubscribe()

	_, err := q.Fetch(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"jdoe"}, settled)
}

func TestMount(t *testing.T) {
	ctx := context.Background()

	t.Run("refetch on mount", func(t *testing.T) {
		c := newClient()
		var calls atomic.Int32
		fetch := func(context.Context) (int, error) { return int(calls.Add(1)), nil }

		first := query.New(c, "todos", fetch, query.Options{RefetchOnMount: true})
		state, err := first.Mount(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, state.Data)
		first.Close()

		second := query.New(c, "todos", fetch, query.Options{RefetchOnMount: true})
		defer second.Close()
		state, err = second.Mount(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, state.Data)
	})

	t.Run("cached without refetch on mount", func(t *testing.T) {
		c := newClient()
		var calls atomic.Int32
		fetch := func(context.Context) (int, error) { return int(calls.Add(1)), nil }

		q := query.New(c, "whoami", fetch, query.Options{})
		defer q.Close()
		_, err := q.Mount(ctx)
		require.NoError(t, err)
		state, err := q.Mount(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, state.Data)
	})

	t.Run("errors refetch", func(t *testing.T) {
		c := newClient()
		var calls atomic.Int32
		q := query.New(c, "task-1", func(context.Context) (int, error) {
			if calls.Add(1) == 1 {
				return 0, errors.New("unavailable")
			}
			return 42, nil
		}, query.Options{})
		defer q.Close()

		state, err := q.Mount(ctx)
		require.NoError(t, err)
		require.True(t, state.IsError())

		state, err = q.Mount(ctx)
		require.NoError(t, err)
		require.True(t, state.IsSuccess())
		require.Equal(t, 42, state.Data)
	})
}

func TestPanickingFetchSettlesAsError(t *testing.T) {
	q := query.New(newClient(), "todos", func(context.Context) (int, error) {
		panic("boom")
	}, query.Options{})
	defer q.Close()

	state, err := q.Fetch(context.Background())
	require.NoError(t, err)
	require.True(t, state.IsError())
	require.Contains(t, state.Err.Error(), "boom")
}
