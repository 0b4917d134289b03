package sessions

import "time"

// Repo defines the interface for session storage operations.
// Expired sessions should be cleaned up regularly.
type Repo interface {
	// Upsert creates or updates a session
	Upsert(sessionData *SessionData) error

	// Delete removes a session by ID. Deleting a missing session is not an error.
	Delete(sessionID string) error

	// Get retrieves a session by ID
	Get(sessionID string) (*SessionData, error)

	// DeleteExpiredSessions removes sessions that expired at or before now and returns how many
	DeleteExpiredSessions(now time.Time) (int, error)
}
