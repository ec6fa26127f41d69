//go:build !unix

package terminal

import (
	"errors"
	"os"
	"time"
)

// ErrUnsupported is returned by the stdio backend on platforms without termios
var ErrUnsupported = errors.New("terminal backend unsupported on this platform")

type unsupportedBackend struct{}

// NewBackend returns a backend whose Init always fails on this platform
func NewBackend() Backend {
	return unsupportedBackend{}
}

// NewFileBackend returns a backend whose Init always fails on this platform
func NewFileBackend(in, out *os.File) Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Check() error                    { return ErrUnsupported }
func (unsupportedBackend) Init() error                     { return ErrUnsupported }
func (unsupportedBackend) Fini()                           {}
func (unsupportedBackend) Size() (int, int)                { return fallbackWidth, fallbackHeight }
func (unsupportedBackend) Write(p []byte) error            { return ErrUnsupported }
func (unsupportedBackend) SetResizeHandler(func(w, h int)) {}
func (unsupportedBackend) Read(<-chan struct{}, time.Duration) ([]byte, error) {
	return nil, ErrUnsupported
}

func resetTerminalMode() {}

// OpenTTY is unavailable on this platform
func OpenTTY() (Backend, error) {
	return nil, ErrUnsupported
}
