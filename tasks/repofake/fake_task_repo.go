package faketaskrepo

import (
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/tasks"
)

var _ tasks.Repo = (*FakeTaskRepo)(nil)

type taskKey struct {
	userID int
	id     int
}

type FakeTaskRepo struct {
	tasks  map[taskKey]tasks.Task
	nextID int
	lock   sync.RWMutex
}

func NewFakeTaskRepo() *FakeTaskRepo {
	return &FakeTaskRepo{
		tasks: make(map[taskKey]tasks.Task),
	}
}

func (tr *FakeTaskRepo) Create(input tasks.CreateInput) (tasks.Task, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.nextID++
	now := time.Now().Unix()
	task := tasks.Task{
		ID:          tr.nextID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   now,
		LastUpdated: now,
	}
	tr.tasks[taskKey{userID: input.UserID, id: task.ID}] = task
	return task, nil
}

func (tr *FakeTaskRepo) FindByUserID(userID int) ([]tasks.Task, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	found := make([]tasks.Task, 0)
	for k, v := range tr.tasks {
		if k.userID == userID {
			found = append(found, v)
		}
	}
	return found, nil
}

func (tr *FakeTaskRepo) FindByID(id, userID int) (tasks.Task, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	task, ok := tr.tasks[taskKey{userID: userID, id: id}]
	if !ok {
		return tasks.Task{}, apperrors.Wrapf(apperrors.ErrTaskNotFound, "task with id %d", id)
	}
	return task, nil
}

func (tr *FakeTaskRepo) Delete(id, userID int) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	delete(tr.tasks, taskKey{userID: userID, id: id})
	return nil
}

func (tr *FakeTaskRepo) ToggleCompleted(id, userID int) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	key := taskKey{userID: userID, id: id}
	task, ok := tr.tasks[key]
	if !ok {
		return apperrors.Wrapf(apperrors.ErrTaskNotFound, "task with id %d", id)
	}
	task.Completed = !task.Completed
	task.LastUpdated = time.Now().Unix()
	tr.tasks[key] = task
	return nil
}
