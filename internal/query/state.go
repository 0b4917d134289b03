package query

import "time"

// Status of a cached query
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "pending"
	}
}

// State is a snapshot of one cache entry.
// Data survives a failed refetch so views can keep showing the last good value.
type State[T any] struct {
	Status    Status
	Data      T
	Err       error
	Fetching  bool
	Stale     bool
	UpdatedAt time.Time

	seq uint64 // sequence number of the fetch that produced Data/Err
}

// Loading reports whether the entry has never settled
func (s State[T]) Loading() bool {
	return s.Status == StatusPending
}

// Settled reports whether the entry has a success or error result
func (s State[T]) Settled() bool {
	return s.Status != StatusPending
}

func (s State[T]) IsError() bool {
	return s.Status == StatusError
}

func (s State[T]) IsSuccess() bool {
	return s.Status == StatusSuccess
}

func convert[T any](s State[any]) State[T] {
	out := State[T]{
		Status:    s.Status,
		Err:       s.Err,
		Fetching:  s.Fetching,
		Stale:     s.Stale,
		UpdatedAt: s.UpdatedAt,
		seq:       s.seq,
	}
	if v, ok := s.Data.(T); ok {
		out.Data = v
	}
	return out
}
