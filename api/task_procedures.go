package api

import (
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/rs/zerolog/log"
)

// ListTodos returns the caller's tasks partitioned by completion
func (s *Server) ListTodos() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, _ Void) (tasks.List, error) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			return tasks.List{}, errUnauthorized
		}

		all, err := s.repos.Tasks.FindByUserID(session.UserID)
		if err != nil {
			log.Error().Err(err).Int("user_id", session.UserID).Msg("failed to fetch tasks")
			return tasks.List{}, apperrors.New(http.StatusInternalServerError, "Failed to fetch tasks")
		}
		return tasks.Partition(all), nil
	})
}

func (s *Server) GetTodo() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, id TaskID) (tasks.Task, error) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			return tasks.Task{}, errUnauthorized
		}

		task, err := s.repos.Tasks.FindByID(int(id), session.UserID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrTaskNotFound) {
				return tasks.Task{}, apperrors.New(http.StatusNotFound, fmt.Sprintf("Task with id %d not found", id))
			}
			log.Error().Err(err).Int("task_id", int(id)).Msg("failed to fetch task")
			return tasks.Task{}, apperrors.New(http.StatusInternalServerError, "Failed to fetch task")
		}
		return task, nil
	})
}

func (s *Server) CreateTodo() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, in tasks.CreateInput) (tasks.Task, error) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			return tasks.Task{}, errUnauthorized
		}

		if err := in.Validate(); err != nil {
			return tasks.Task{}, err
		}

		in.UserID = session.UserID
		task, err := s.repos.Tasks.Create(in)
		if err != nil {
			log.Error().Err(err).Msg("failed to create task")
			return tasks.Task{}, apperrors.New(http.StatusInternalServerError, "Failed to create task")
		}
		return task, nil
	})
}

func (s *Server) DeleteTodo() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, id TaskID) (Void, error) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			return Void{}, errUnauthorized
		}

		if err := s.repos.Tasks.Delete(int(id), session.UserID); err != nil {
			log.Error().Err(err).Int("task_id", int(id)).Msg("failed to delete task")
			return Void{}, apperrors.New(http.StatusInternalServerError, "Failed to delete task")
		}
		return Void{}, nil
	})
}

// ToggleCompleted flips the completed flag of one task
func (s *Server) ToggleCompleted() http.HandlerFunc {
	return procedure(func(w http.ResponseWriter, r *http.Request, id TaskID) (Void, error) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			return Void{}, errUnauthorized
		}

		if err := s.repos.Tasks.ToggleCompleted(int(id), session.UserID); err != nil {
			log.Error().Err(err).Int("task_id", int(id)).Msg("failed to toggle task")
			return Void{}, apperrors.New(http.StatusInternalServerError, "Failed to toggle task")
		}
		return Void{}, nil
	})
}
