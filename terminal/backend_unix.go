//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State
	buf     []byte

	mu           sync.Mutex
	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

// NewBackend returns the stdio backend
func NewBackend() Backend {
	return NewFileBackend(os.Stdin, os.Stdout)
}

// NewFileBackend returns a backend over arbitrary terminal files, e.g. a pty slave
func NewFileBackend(in, out *os.File) Backend {
	return &unixBackend{
		in:    in,
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
		buf:   make([]byte, 4096),
	}
}

func (b *unixBackend) Check() error {
	if !term.IsTerminal(b.inFd) {
		return fmt.Errorf("%w: %s", ErrNotTerminal, b.in.Name())
	}
	return nil
}

func (b *unixBackend) Init() error {
	if err := b.Check(); err != nil {
		return err
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	b.mu.Lock()
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	b.mu.Unlock()

	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	return getTerminalSize(b.outFd)
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

// Read polls in short slices so both stop and timeout are honored
func (b *unixBackend) Read(stop <-chan struct{}, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)

	for {
		select {
		case <-stop:
			return nil, nil
		default:
		}

		wait := time.Until(deadline)
		if wait < 0 {
			wait = 0
		}
		if wait > pollSlice {
			wait = pollSlice
		}

		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, int(wait/time.Millisecond))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, fmt.Errorf("poll input: %w", err)
		}

		if n == 0 {
			if !time.Now().Before(deadline) {
				return nil, nil
			}
			continue
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 && fds[0].Revents&unix.POLLIN == 0 {
			return nil, io.EOF
		}

		rn, err := unix.Read(b.inFd, b.buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return nil, fmt.Errorf("read input: %w", err)
		}
		if rn == 0 {
			return nil, io.EOF
		}

		ret := make([]byte, rn)
		copy(ret, b.buf[:rn])
		return ret, nil
	}
}

func (b *unixBackend) SetResizeHandler(handler func(width, height int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	b.resizeStopCh = stopCh
	b.resizeDoneCh = doneCh

	go func() {
		defer close(doneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-stopCh:
				return
			case <-sigCh:
				w, h := b.Size()
				handler(w, h)
			}
		}
	}()
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return fallbackWidth, fallbackHeight
	}
	return int(ws.Col), int(ws.Row)
}
