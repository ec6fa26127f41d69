//go:build unix

package terminal

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// ttyBackend drives a tcell.Tty, which talks to /dev/tty directly and so works with redirected stdio
type ttyBackend struct {
	tty tcell.Tty

	dataCh chan []byte
	errCh  chan error
	done   chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// OpenTTY opens the controlling terminal through tcell
func OpenTTY() (Backend, error) {
	tty, err := tcell.NewDevTty()
	if err != nil {
		return nil, fmt.Errorf("open tty: %w", err)
	}
	return NewTTYBackend(tty), nil
}

// NewTTYBackend wraps an existing tcell.Tty
func NewTTYBackend(tty tcell.Tty) Backend {
	return &ttyBackend{
		tty:    tty,
		dataCh: make(chan []byte, 16),
		errCh:  make(chan error, 1),
		done:   make(chan struct{}),
	}
}

// Check always succeeds, the tty was opened when the backend was built
func (b *ttyBackend) Check() error {
	return nil
}

func (b *ttyBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}
	if err := b.tty.Start(); err != nil {
		return fmt.Errorf("start tty: %w", err)
	}
	b.started = true
	go b.pump()
	return nil
}

// pump moves tty reads onto a channel so Read can honor stop and timeout
func (b *ttyBackend) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := b.tty.Read(buf)
		if n > 0 {
			p := make([]byte, n)
			copy(p, buf[:n])
			select {
			case b.dataCh <- p:
			case <-b.done:
				return
			}
		}
		if err != nil {
			select {
			case b.errCh <- fmt.Errorf("read tty: %w", err):
			default:
			}
			return
		}
		select {
		case <-b.done:
			return
		default:
		}
	}
}

func (b *ttyBackend) Fini() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started || b.stopped {
		return
	}
	b.stopped = true
	b.tty.NotifyResize(nil)
	close(b.done)
	// Drain unblocks the pending read before the tty leaves raw mode
	b.tty.Drain()
	b.tty.Stop()
	b.tty.Close()
}

func (b *ttyBackend) Size() (int, int) {
	ws, err := b.tty.WindowSize()
	if err != nil || ws.Width == 0 || ws.Height == 0 {
		return fallbackWidth, fallbackHeight
	}
	return ws.Width, ws.Height
}

func (b *ttyBackend) Write(p []byte) error {
	_, err := b.tty.Write(p)
	return err
}

func (b *ttyBackend) Read(stop <-chan struct{}, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case p := <-b.dataCh:
		return p, nil
	case err := <-b.errCh:
		return nil, err
	case <-stop:
		return nil, nil
	case <-timer.C:
		return nil, nil
	}
}

func (b *ttyBackend) SetResizeHandler(handler func(width, height int)) {
	b.tty.NotifyResize(func() {
		w, h := b.Size()
		handler(w, h)
	})
}
