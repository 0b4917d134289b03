package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-tasks/client"
	"github.com/jrsteele09/go-tasks/gate"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/web/viewers"
	"github.com/rs/zerolog/log"
)

// TitleRequired is the validation message of an empty task title
const TitleRequired = "Title is required"

// TasksPageHandler renders the task list, partitioned into "To-do" and "Completed"
func (s *Server) TasksPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("tasks.html")

	return func(w http.ResponseWriter, r *http.Request) {
		v := viewerFrom(r.Context())
		q := v.Todos()
		defer q.Close()

		state, err := q.Mount(r.Context())
		if err != nil {
			return
		}
		if s.reauthenticate(w, r, v, state.Err) {
			return
		}

		data := tasksPageData{
			PageData: s.pageData(r, v, "Tasks", pageProtected),
			List:     state.Data,
		}
		data.View = viewTasks
		if state.IsError() {
			data.LoadError = client.Message(state.Err)
		}
		render(w, http.StatusOK, tmpl, data)
	}
}

// TaskPageHandler renders one task with its markdown description
func (s *Server) TaskPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("task.html")

	return func(w http.ResponseWriter, r *http.Request) {
		v := viewerFrom(r.Context())
		data := taskPageData{
			PageData: s.pageData(r, v, "Task", pageProtected),
		}

		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			data.LoadError = fmt.Sprintf("Invalid task id %q", r.PathValue("id"))
			render(w, http.StatusOK, tmpl, data)
			return
		}

		q := v.Task(id)
		defer q.Close()

		state, err := q.Mount(r.Context())
		if err != nil {
			return
		}
		if s.reauthenticate(w, r, v, state.Err) {
			return
		}

		if state.IsError() {
			data.LoadError = client.Message(state.Err)
		} else {
			data.Task = state.Data
			data.Title = state.Data.Title
			data.Description = s.renderMarkdown(state.Data.Description)
		}
		render(w, http.StatusOK, tmpl, data)
	}
}

// CreateTaskHandler handles the create task modal
func (s *Server) CreateTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteRoot, "Invalid form submission")
			return
		}

		input := tasks.CreateInput{
			Title:       strings.TrimSpace(r.FormValue("title")),
			Description: r.FormValue("description"),
			Completed:   r.FormValue("completed") == "on",
		}
		if input.Title == "" {
			redirectWithError(w, r, RouteRoot, TitleRequired)
			return
		}

		v := viewerFrom(r.Context())
		if _, err := v.Remote.CreateTodo(r.Context(), input); err != nil {
			s.mutationFailed(w, r, RouteRoot, "create-todo", err)
			return
		}
		s.invalidate(r, v, viewers.TodosKey)
		redirectSuccess(w, r, RouteRoot)
	}
}

// ToggleTaskHandler flips a task between to-do and completed
func (s *Server) ToggleTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := returnPath(r, RouteRoot)
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			redirectWithError(w, r, back, "Invalid task id")
			return
		}

		v := viewerFrom(r.Context())
		if err := v.Remote.ToggleCompleted(r.Context(), id); err != nil {
			s.mutationFailed(w, r, back, "toggle-completed", err)
			return
		}
		s.invalidate(r, v, viewers.TodosKey, viewers.TaskKey(id))
		redirectSuccess(w, r, back)
	}
}

// DeleteTaskHandler deletes a task. The page asks for confirmation before submitting.
func (s *Server) DeleteTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			redirectWithError(w, r, RouteRoot, "Invalid task id")
			return
		}

		v := viewerFrom(r.Context())
		if err := v.Remote.DeleteTodo(r.Context(), id); err != nil {
			s.mutationFailed(w, r, RouteRoot, "delete-todo", err)
			return
		}
		s.invalidate(r, v, viewers.TodosKey)
		redirectSuccess(w, r, RouteRoot)
	}
}

// invalidate runs after a successful mutation, before the response is written
func (s *Server) invalidate(r *http.Request, v *viewers.Viewer, keys ...string) {
	if err := v.Cache.Invalidate(r.Context(), keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("invalidate interrupted")
	}
}

// mutationFailed shows the failure as a toast on back. Nothing is invalidated.
func (s *Server) mutationFailed(w http.ResponseWriter, r *http.Request, back, procedure string, err error) {
	log.Warn().Err(err).Str("procedure", procedure).Msg("mutation failed")
	if client.StatusOf(err) == http.StatusUnauthorized {
		v := viewerFrom(r.Context())
		if s.reauthenticate(w, r, v, err) {
			return
		}
	}
	redirectWithError(w, r, back, client.Message(err))
}

// reauthenticate handles a read or write rejected with 401: the backend session is
// gone, so the identity is invalidated and the gate decides again. It reports whether
// it redirected.
func (s *Server) reauthenticate(w http.ResponseWriter, r *http.Request, v *viewers.Viewer, err error) bool {
	if err == nil || client.StatusOf(err) != http.StatusUnauthorized {
		return false
	}
	if invErr := v.Gate.Invalidate(r.Context()); invErr != nil {
		return false
	}
	d := gate.Enforce(v.Gate.CurrentIdentity(), gate.RequireAuthenticated, gate.RouteSignIn, redirectNavigator{w: w, r: r})
	return d == gate.Redirect
}
