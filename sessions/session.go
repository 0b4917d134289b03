package sessions

import "time"

// SessionData is a signed-in session on the backend. The auth cookie carries its ID
// inside a signed token; deleting the record revokes the cookie.
type SessionData struct {
	ID        string    `json:"id"`         // Unique session identifier (UUID)
	UserID    int       `json:"user_id"`    // Owner of the session
	Username  string    `json:"username"`   // Username at sign-in
	CreatedAt time.Time `json:"created_at"` // When the session was created
	ExpiresAt time.Time `json:"expires_at"` // When the session expires
}

// Expired reports whether the session is no longer valid at now
func (s *SessionData) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
