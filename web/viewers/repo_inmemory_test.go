package viewers_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/users"
	"github.com/jrsteele09/go-tasks/web/viewers"
	"github.com/stretchr/testify/require"
)

type stubRemote struct{}

func (stubRemote) WhoAmI(context.Context) (users.User, error) {
	return users.User{ID: 1, Username: "jdoe"}, nil
}
func (stubRemote) ListTodos(context.Context) (tasks.List, error) { return tasks.List{}, nil }
func (stubRemote) GetTodo(_ context.Context, id int) (tasks.Task, error) {
	return tasks.Task{ID: id, Title: "task"}, nil
}
func (stubRemote) SignIn(context.Context, users.Credentials) (users.User, error) {
	return users.User{}, nil
}
func (stubRemote) SignUp(context.Context, users.Credentials) error                   { return nil }
func (stubRemote) SignOut(context.Context) error                                     { return nil }
func (stubRemote) CreateTodo(context.Context, tasks.CreateInput) (tasks.Task, error) { return tasks.Task{}, nil }
func (stubRemote) DeleteTodo(context.Context, int) error                             { return nil }
func (stubRemote) ToggleCompleted(context.Context, int) error                        { return nil }

func TestInMemoryViewerRepo(t *testing.T) {
	now := time.Now()
	repo := viewers.NewInMemoryViewerRepo()

	fresh := viewers.New("fresh", stubRemote{}, viewers.QueryOptions{}, now)
	idle := viewers.New("idle", stubRemote{}, viewers.QueryOptions{}, now.Add(-time.Hour))
	require.NoError(t, repo.Upsert(fresh))
	require.NoError(t, repo.Upsert(idle))
	require.Error(t, repo.Upsert(&viewers.Viewer{}))

	got, err := repo.Get("fresh")
	require.NoError(t, err)
	require.Same(t, fresh, got)

	_, err = repo.Get("missing")
	require.Error(t, err)

	require.Equal(t, 1, repo.DeleteIdle(now.Add(-30*time.Minute)))
	require.Equal(t, 1, repo.Len())
	_, err = repo.Get("idle")
	require.Error(t, err)

	require.NoError(t, repo.Delete("fresh"))
	require.NoError(t, repo.Delete("fresh"))
	require.Equal(t, 0, repo.Len())
}

func TestViewerQueries(t *testing.T) {
	ctx := context.Background()
	v := viewers.New("v", stubRemote{}, viewers.QueryOptions{}, time.Now())
	defer v.Close()

	snap, err := v.Gate.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "jdoe", snap.Username())

	q := v.Task(7)
	defer q.Close()
	require.Equal(t, "task-7", q.Key())
	state, err := q.Mount(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, state.Data.ID)

	list := v.Todos()
	defer list.Close()
	require.Equal(t, viewers.TodosKey, list.Key())
}
