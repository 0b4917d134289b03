package viewers

import "time"

type Repo interface {
	Upsert(viewer *Viewer) error
	Get(viewerID string) (*Viewer, error)
	// Delete removes and closes a viewer. Deleting a missing viewer is not an error.
	Delete(viewerID string) error
	// DeleteIdle removes viewers last seen before idleSince and returns how many
	DeleteIdle(idleSince time.Time) int
	Len() int
}
