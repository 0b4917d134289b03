// Package signal provides an observable value cell.
package signal

import (
	"context"
	"sync"
)

// Cell holds the latest value of T. Every Set replaces the value wholesale,
// bumps the version and notifies subscribers.
type Cell[T any] struct {
	mu          sync.RWMutex
	value       T
	version     uint64
	changed     chan struct{}
	subscribers map[uint64]func(T)
	nextSubID   uint64
}

// NewCell creates a cell holding initial at version 0
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value:       initial,
		changed:     make(chan struct{}),
		subscribers: make(map[uint64]func(T)),
	}
}

// Get returns the current value and its version
func (c *Cell[T]) Get() (T, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.version
}

// Value returns the current value
func (c *Cell[T]) Value() T {
	v, _ := c.Get()
	return v
}

// Set replaces the value and notifies subscribers outside the lock
func (c *Cell[T]) Set(v T) uint64 {
	c.mu.Lock()
	version, subs := c.store(v)
	c.mu.Unlock()

	notify(subs, v)
	return version
}

// Update applies fn to the current value and stores the result atomically
func (c *Cell[T]) Update(fn func(T) T) uint64 {
	c.mu.Lock()
	next := fn(c.value)
	version, subs := c.store(next)
	c.mu.Unlock()

	notify(subs, next)
	return version
}

// store must be called with mu held
func (c *Cell[T]) store(v T) (uint64, []func(T)) {
	c.value = v
	c.version++
	close(c.changed)
	c.changed = make(chan struct{})
	subs := make([]func(T), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return c.version, subs
}

func notify[T any](subs []func(T), v T) {
	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn for every later Set. The returned func unsubscribes.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
		})
	}
}

// Changed returns a channel closed by the next Set
func (c *Cell[T]) Changed() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.changed
}

// WaitNewer blocks until the version is greater than since or ctx is done
func (c *Cell[T]) WaitNewer(ctx context.Context, since uint64) (T, uint64, error) {
	for {
		c.mu.RLock()
		v, version, ch := c.value, c.version, c.changed
		c.mu.RUnlock()
		if version > since {
			return v, version, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return v, version, ctx.Err()
		}
	}
}
