package terminal

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// ErrInputClosed is returned by MemoryBackend reads after CloseInput
var ErrInputClosed = errors.New("input closed")

// MemoryBackend is an in-process Backend for headless rendering and tests
// Output accumulates in memory; input is injected with Inject
type MemoryBackend struct {
	mu       sync.Mutex
	width    int
	height   int
	out      bytes.Buffer
	written  int64
	writeErr error
	checkErr error
	onResize func(w, h int)

	inited bool
	closed bool

	input  chan []byte
	inDone chan struct{}
	inOnce sync.Once
}

// NewMemoryBackend creates a backend reporting the given size
func NewMemoryBackend(width, height int) *MemoryBackend {
	return &MemoryBackend{
		width:  width,
		height: height,
		input:  make(chan []byte, 64),
		inDone: make(chan struct{}),
	}
}

func (m *MemoryBackend) Check() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkErr
}

func (m *MemoryBackend) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkErr != nil {
		return m.checkErr
	}
	m.inited = true
	return nil
}

func (m *MemoryBackend) Fini() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *MemoryBackend) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *MemoryBackend) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.out.Write(p)
	m.written += int64(len(p))
	return nil
}

func (m *MemoryBackend) Read(stop <-chan struct{}, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case p := <-m.input:
		return p, nil
	case <-m.inDone:
		// Deliver anything injected before close
		select {
		case p := <-m.input:
			return p, nil
		default:
		}
		return nil, ErrInputClosed
	case <-stop:
		return nil, nil
	case <-timer.C:
		return nil, nil
	}
}

func (m *MemoryBackend) SetResizeHandler(handler func(width, height int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onResize = handler
}

// Inject queues raw input bytes for the next Read
func (m *MemoryBackend) Inject(p []byte) {
	cp := make([]byte, len(p))
	copy(cp, p)
	m.input <- cp
}

// InjectString queues raw input from a string
func (m *MemoryBackend) InjectString(s string) {
	m.Inject([]byte(s))
}

// CloseInput makes subsequent reads fail with ErrInputClosed
func (m *MemoryBackend) CloseInput() {
	m.inOnce.Do(func() { close(m.inDone) })
}

// Resize changes the reported size and fires the resize handler
func (m *MemoryBackend) Resize(width, height int) {
	m.mu.Lock()
	m.width, m.height = width, height
	h := m.onResize
	m.mu.Unlock()
	if h != nil {
		h(width, height)
	}
}

// FailWrites makes every subsequent write return err; nil restores writes
func (m *MemoryBackend) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// FailCheck makes Check and Init return err, as a backend without a terminal would
func (m *MemoryBackend) FailCheck(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkErr = err
}

// Output returns a copy of everything written so far
func (m *MemoryBackend) Output() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.out.Bytes())
}

// TakeOutput returns and clears the accumulated output
func (m *MemoryBackend) TakeOutput() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := bytes.Clone(m.out.Bytes())
	m.out.Reset()
	return p
}

// Written returns the total number of bytes written
func (m *MemoryBackend) Written() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written
}

// Active reports whether Init was called and Fini was not
func (m *MemoryBackend) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inited && !m.closed
}

// Closed reports whether Fini was called
func (m *MemoryBackend) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
