// Package viewers holds the per-browser front-end state: one Remote Data Client,
// Query Cache and Session Gate per viewer.
package viewers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-tasks/gate"
	"github.com/jrsteele09/go-tasks/internal/query"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/users"
)

// Query cache keys
const TodosKey = "todos"

func TaskKey(id int) string {
	return fmt.Sprintf("task-%d", id)
}

// Remote is the Remote Data Client a viewer talks to the backend through
type Remote interface {
	WhoAmI(ctx context.Context) (users.User, error)
	ListTodos(ctx context.Context) (tasks.List, error)
	GetTodo(ctx context.Context, id int) (tasks.Task, error)
	SignIn(ctx context.Context, creds users.Credentials) (users.User, error)
	SignUp(ctx context.Context, creds users.Credentials) error
	SignOut(ctx context.Context) error
	CreateTodo(ctx context.Context, input tasks.CreateInput) (tasks.Task, error)
	DeleteTodo(ctx context.Context, id int) error
	ToggleCompleted(ctx context.Context, id int) error
}

// QueryOptions configure the data queries of a viewer
type QueryOptions struct {
	List query.Options
	Task query.Options
}

type Viewer struct {
	ID        string
	Remote    Remote
	Cache     *query.Client
	Gate      *gate.Gate
	CreatedAt time.Time

	opts     QueryOptions
	lastSeen atomic.Int64 // unix nanoseconds
}

func New(id string, remote Remote, opts QueryOptions, now time.Time) *Viewer {
	cache := query.NewClient()
	v := &Viewer{
		ID:        id,
		Remote:    remote,
		Cache:     cache,
		Gate:      gate.New(cache, remote.WhoAmI),
		CreatedAt: now,
		opts:      opts,
	}
	v.Touch(now)
	return v
}

// Todos observes the task list. Close the returned query when the view is done.
func (v *Viewer) Todos() *query.Query[tasks.List] {
	return query.New(v.Cache, TodosKey, v.Remote.ListTodos, v.opts.List)
}

// Task observes one task. Close the returned query when the view is done.
func (v *Viewer) Task(id int) *query.Query[tasks.Task] {
	return query.New(v.Cache, TaskKey(id), func(ctx context.Context) (tasks.Task, error) {
		return v.Remote.GetTodo(ctx, id)
	}, v.opts.Task)
}

// Touch records activity at now
func (v *Viewer) Touch(now time.Time) {
	v.lastSeen.Store(now.UnixNano())
}

func (v *Viewer) LastSeen() time.Time {
	return time.Unix(0, v.lastSeen.Load())
}

// Close releases the identity query
func (v *Viewer) Close() {
	v.Gate.Close()
}
