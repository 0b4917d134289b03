package tasks

// Repo stores tasks per owner. Every lookup is scoped by userID.
type Repo interface {
	Create(input CreateInput) (Task, error)
	FindByUserID(userID int) ([]Task, error)
	FindByID(id, userID int) (Task, error)
	// Delete is idempotent: deleting a missing task succeeds
	Delete(id, userID int) error
	ToggleCompleted(id, userID int) error
}
