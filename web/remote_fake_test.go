package web

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/jrsteele09/go-tasks/client"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/users"
	"github.com/jrsteele09/go-tasks/web/viewers"
)

// fakeBackend is an in-memory task backend shared by every viewer's fakeRemote.
// It counts calls per procedure.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]users.User
	password map[string]string
	tasks    map[int]tasks.Task
	owner    map[int]int
	nextUser int
	nextTask int
	calls    map[string]int
	fail     map[string]error
	listHook func() // runs after ListTodos has read the tasks, before it returns
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    make(map[string]users.User),
		password: make(map[string]string),
		tasks:    make(map[int]tasks.Task),
		owner:    make(map[int]int),
		calls:    make(map[string]int),
		fail:     make(map[string]error),
		nextTask: 1,
	}
}

func (b *fakeBackend) factory() RemoteFactory {
	return func() (viewers.Remote, error) {
		return &fakeRemote{b: b}, nil
	}
}

func (b *fakeBackend) addUser(username, password string) users.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextUser++
	u := users.User{ID: b.nextUser, Username: username}
	b.users[username] = u
	b.password[username] = password
	return u
}

func (b *fakeBackend) addTask(userID int, t tasks.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks[t.ID] = t
	b.owner[t.ID] = userID
	if t.ID >= b.nextTask {
		b.nextTask = t.ID + 1
	}
}

// failWith makes every later call of procedure fail with a status and message
func (b *fakeBackend) failWith(procedure string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[procedure] = &client.RequestError{Procedure: procedure, Status: status, Message: message}
}

func (b *fakeBackend) setListHook(hook func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listHook = hook
}

func (b *fakeBackend) callCount(procedure string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[procedure]
}

func (b *fakeBackend) task(id int) (tasks.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	return t, ok
}

// begin counts a call and returns its configured failure. Callers hold b.mu.
func (b *fakeBackend) begin(procedure string) error {
	b.calls[procedure]++
	return b.fail[procedure]
}

// fakeRemote is one viewer's connection: it remembers who signed in through it
type fakeRemote struct {
	b      *fakeBackend
	userID int
	name   string
}

var _ viewers.Remote = (*fakeRemote)(nil)

func unauthorized(procedure string) error {
	return &client.RequestError{Procedure: procedure, Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

// revoke ends the session on the backend without the viewer knowing
func (r *fakeRemote) revoke() {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.userID = 0
	r.name = ""
}

func (r *fakeRemote) WhoAmI(context.Context) (users.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("whoami"); err != nil {
		return users.User{}, err
	}
	if r.userID == 0 {
		return users.User{}, unauthorized("whoami")
	}
	return users.User{ID: r.userID, Username: r.name}, nil
}

func (r *fakeRemote) ListTodos(context.Context) (tasks.List, error) {
	r.b.mu.Lock()
	if err := r.b.begin("list-todos"); err != nil {
		r.b.mu.Unlock()
		return tasks.List{}, err
	}
	if r.userID == 0 {
		r.b.mu.Unlock()
		return tasks.List{}, unauthorized("list-todos")
	}
	var mine []tasks.Task
	for id, t := range r.b.tasks {
		if r.b.owner[id] == r.userID {
			mine = append(mine, t)
		}
	}
	hook := r.b.listHook
	r.b.mu.Unlock()

	list := tasks.Partition(mine)
	if hook != nil {
		hook()
	}
	return list, nil
}

func (r *fakeRemote) GetTodo(_ context.Context, id int) (tasks.Task, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("get-todo"); err != nil {
		return tasks.Task{}, err
	}
	if r.userID == 0 {
		return tasks.Task{}, unauthorized("get-todo")
	}
	t, ok := r.b.tasks[id]
	if !ok || r.b.owner[id] != r.userID {
		return tasks.Task{}, &client.RequestError{Procedure: "get-todo", Status: http.StatusNotFound, Message: "Task not found"}
	}
	return t, nil
}

func (r *fakeRemote) SignIn(_ context.Context, creds users.Credentials) (users.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("sign-in"); err != nil {
		return users.User{}, err
	}
	u, ok := r.b.users[creds.Username]
	if !ok || r.b.password[creds.Username] != creds.Password {
		return users.User{}, &client.RequestError{Procedure: "sign-in", Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	r.userID = u.ID
	r.name = u.Username
	return u, nil
}

func (r *fakeRemote) SignUp(_ context.Context, creds users.Credentials) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("sign-up"); err != nil {
		return err
	}
	if _, taken := r.b.users[creds.Username]; taken {
		return &client.RequestError{Procedure: "sign-up", Status: http.StatusConflict, Message: "User already exists"}
	}
	r.b.nextUser++
	r.b.users[creds.Username] = users.User{ID: r.b.nextUser, Username: creds.Username}
	r.b.password[creds.Username] = creds.Password
	return nil
}

func (r *fakeRemote) SignOut(context.Context) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("sign-out"); err != nil {
		return err
	}
	r.userID = 0
	r.name = ""
	return nil
}

func (r *fakeRemote) CreateTodo(_ context.Context, input tasks.CreateInput) (tasks.Task, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("create-todo"); err != nil {
		return tasks.Task{}, err
	}
	if r.userID == 0 {
		return tasks.Task{}, unauthorized("create-todo")
	}
	t := tasks.Task{ID: r.b.nextTask, Title: input.Title, Description: input.Description, Completed: input.Completed}
	r.b.nextTask++
	r.b.tasks[t.ID] = t
	r.b.owner[t.ID] = r.userID
	return t, nil
}

func (r *fakeRemote) DeleteTodo(_ context.Context, id int) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("delete-todo"); err != nil {
		return err
	}
	if r.userID == 0 {
		return unauthorized("delete-todo")
	}
	if r.b.owner[id] == r.userID {
		delete(r.b.tasks, id)
		delete(r.b.owner, id)
	}
	return nil
}

func (r *fakeRemote) ToggleCompleted(_ context.Context, id int) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if err := r.b.begin("toggle-completed"); err != nil {
		return err
	}
	if r.userID == 0 {
		return unauthorized("toggle-completed")
	}
	t, ok := r.b.tasks[id]
	if !ok || r.b.owner[id] != r.userID {
		return &client.RequestError{Procedure: "toggle-completed", Status: http.StatusNotFound, Message: "Task not found"}
	}
	t.Completed = !t.Completed
	t.LastUpdated++
	r.b.tasks[id] = t
	return nil
}

func taskIDs(ts []tasks.Task) []int {
	ids := make([]int, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, t.ID)
	}
	sort.Ints(ids)
	return ids
}
