package terminal

import (
	"errors"
	"time"
)

// ErrNotTerminal is returned by Init when the input is not a terminal device
var ErrNotTerminal = errors.New("not a terminal")

// Backend abstracts platform-specific terminal operations
type Backend interface {
	// Lifecycle
	// Check reports whether Init can succeed without changing any terminal state
	Check() error
	Init() error
	Fini()

	// Capabilities
	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, timeout elapses, or an error occurs
	// Returns nil, nil when stopped or timed out
	Read(stop <-chan struct{}, timeout time.Duration) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize events
	SetResizeHandler(handler func(width, height int))
}

// Fallback dimensions when the size query fails
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// pollSlice bounds a single blocking wait so stop is observed promptly
const pollSlice = 100 * time.Millisecond
