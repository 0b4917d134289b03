package fakeuserrepo

import (
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/jrsteele09/go-tasks/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[string]*users.User
	usernames map[int]string // id to username
	nextID    int
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[string]*users.User),
		usernames: make(map[int]string),
	}
}

func (ur *FakeUserRepo) Create(username, passwordHash string) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.users[username]; ok {
		return nil, apperrors.ErrUserExists
	}
	ur.nextID++
	user := &users.User{
		ID:           ur.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
	ur.users[username] = user
	ur.usernames[user.ID] = username

	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) GetByID(id int) (*users.User, error) {
	ur.lock.RLock()
	username, ok := ur.usernames[id]
	ur.lock.RUnlock()

	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return ur.GetByUsername(username)
}
