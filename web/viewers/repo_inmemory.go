package viewers

import (
	"fmt"
	"sync"
	"time"
)

var _ Repo = (*InMemoryViewerRepo)(nil)

// InMemoryViewerRepo keeps viewers for the lifetime of the process
type InMemoryViewerRepo struct {
	mu      sync.RWMutex
	viewers map[string]*Viewer
}

func NewInMemoryViewerRepo() *InMemoryViewerRepo {
	return &InMemoryViewerRepo{
		viewers: make(map[string]*Viewer),
	}
}

func (r *InMemoryViewerRepo) Upsert(viewer *Viewer) error {
	if viewer == nil || viewer.ID == "" {
		return fmt.Errorf("viewer ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.viewers[viewer.ID]; ok && old != viewer {
		old.Close()
	}
	r.viewers[viewer.ID] = viewer
	return nil
}

func (r *InMemoryViewerRepo) Get(viewerID string) (*Viewer, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("viewerID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	viewer, ok := r.viewers[viewerID]
	if !ok {
		return nil, fmt.Errorf("viewer not found")
	}
	return viewer, nil
}

func (r *InMemoryViewerRepo) Delete(viewerID string) error {
	r.mu.Lock()
	viewer, ok := r.viewers[viewerID]
	delete(r.viewers, viewerID)
	r.mu.Unlock()

	if ok {
		viewer.Close()
	}
	return nil
}

func (r *InMemoryViewerRepo) DeleteIdle(idleSince time.Time) int {
	var idle []*Viewer

	r.mu.Lock()
	for id, viewer := range r.viewers {
		if viewer.LastSeen().Before(idleSince) {
			idle = append(idle, viewer)
			delete(r.viewers, id)
		}
	}
	r.mu.Unlock()

	for _, viewer := range idle {
		viewer.Close()
	}
	return len(idle)
}

func (r *InMemoryViewerRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.viewers)
}
