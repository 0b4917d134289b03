package tasks

import (
	"net/http"
	"sort"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
)

type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"createdAt"`   // Unix seconds
	LastUpdated int64  `json:"lastUpdated"` // Unix seconds
}

type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      int    `json:"-"` // set from the session, never from the request
}

// List is the task list partitioned by completion
type List struct {
	Complete   []Task `json:"complete"`
	Incomplete []Task `json:"incomplete"`
}

// Validate checks a create request
func (in CreateInput) Validate() error {
	if in.Title == "" {
		return apperrors.New(http.StatusBadRequest, "title is required")
	}
	return nil
}

// Partition splits tasks into complete and incomplete, each ordered by id.
// Both slices are non-nil so they encode as [] rather than null.
func Partition(all []Task) List {
	list := List{
		Complete:   make([]Task, 0),
		Incomplete: make([]Task, 0),
	}
	for _, t := range all {
		if t.Completed {
			list.Complete = append(list.Complete, t)
		} else {
			list.Incomplete = append(list.Incomplete, t)
		}
	}
	byID := func(s []Task) func(i, j int) bool {
		return func(i, j int) bool { return s[i].ID < s[j].ID }
	}
	sort.Slice(list.Complete, byID(list.Complete))
	sort.Slice(list.Incomplete, byID(list.Incomplete))
	return list
}

// Find returns the task with id from either partition
func (l List) Find(id int) (Task, bool) {
	for _, part := range [][]Task{l.Incomplete, l.Complete} {
		for _, t := range part {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Task{}, false
}
