// Package boltrepo stores tasks in bbolt under "userID:taskID" keys.
package boltrepo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jrsteele09/go-tasks/internal/boltdb"
	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var _ tasks.Repo = (*TaskRepo)(nil)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

type TaskRepo struct {
	db *bbolt.DB
}

func New(db *bbolt.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(input tasks.CreateInput) (tasks.Task, error) {
	now := NowFunc().Unix()
	task := tasks.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   now,
		LastUpdated: now,
	}

	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltdb.BucketTodos)
		id, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		task.ID = int(id)

		b, err := json.Marshal(task)
		if err != nil {
			return err
		}
		return bucket.Put(recordKey(input.UserID, task.ID), b)
	})
	if err != nil {
		return tasks.Task{}, errors.Wrap(err, "[TaskRepo Create]")
	}

	return task, nil
}

func (r *TaskRepo) FindByID(id, userID int) (tasks.Task, error) {
	var task tasks.Task

	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltdb.BucketTodos).Get(recordKey(userID, id))
		if v == nil {
			return apperrors.Wrapf(apperrors.ErrTaskNotFound, "task with id %d", id)
		}
		return json.Unmarshal(v, &task)
	})

	return task, err
}

func (r *TaskRepo) FindByUserID(userID int) ([]tasks.Task, error) {
	var found []tasks.Task

	err := r.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(boltdb.BucketTodos).Cursor()
		prefix := []byte(strconv.Itoa(userID) + ":")

		for k, v := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cursor.Next() {
			var task tasks.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return errors.Wrapf(err, "decode %s", k)
			}
			found = append(found, task)
		}
		return nil
	})

	return found, err
}

func (r *TaskRepo) Delete(id, userID int) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltdb.BucketTodos).Delete(recordKey(userID, id))
	})
}

func (r *TaskRepo) ToggleCompleted(id, userID int) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		key := recordKey(userID, id)
		bucket := tx.Bucket(boltdb.BucketTodos)

		v := bucket.Get(key)
		if v == nil {
			return apperrors.Wrapf(apperrors.ErrTaskNotFound, "task with id %d", id)
		}

		var task tasks.Task
		if err := json.Unmarshal(v, &task); err != nil {
			return err
		}

		task.Completed = !task.Completed
		task.LastUpdated = NowFunc().Unix()

		data, err := json.Marshal(task)
		if err != nil {
			return err
		}
		return bucket.Put(key, data)
	})
}

func recordKey(userID, id int) []byte {
	return []byte(fmt.Sprintf("%d:%d", userID, id))
}
