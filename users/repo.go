package users

type UserRepo interface {
	// Create stores a new user and assigns its ID. Fails with ErrUserExists for a taken username.
	Create(username, passwordHash string) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByID(id int) (*User, error)
}
