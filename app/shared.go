package app

import "sync"

// Shared guards a value read by many goroutines and written by one at a time
type Shared[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewShared wraps v
func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{v: v}
}

// Read calls fn with the value under a read lock
// fn must not retain pointers into the value past its return
func (s *Shared[T]) Read(fn func(T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.v)
}

// Write calls fn with exclusive access to the value
func (s *Shared[T]) Write(fn func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.v)
}

// Load returns a copy of the value
func (s *Shared[T]) Load() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Store replaces the value
func (s *Shared[T]) Store(v T) {
	s.mu.Lock()
	s.v = v
	s.mu.Unlock()
}
