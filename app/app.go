package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
	"github.com/lixenwraith/termrender/render"
	"github.com/lixenwraith/termrender/terminal"
	"github.com/lixenwraith/termrender/widget"
)

const tracerName = "github.com/lixenwraith/termrender/app"

var (
	// ErrCallback wraps an error returned by the frame callback
	ErrCallback = errors.New("frame callback failed")
	// ErrPanic wraps a panic recovered in the frame task
	ErrPanic = errors.New("frame task panic")
	// ErrAlreadyRun is returned when Run is called on an App that has already started
	ErrAlreadyRun = errors.New("app already started")
	// ErrNilCallback is returned when Run is given no callback
	ErrNilCallback = errors.New("nil callback")
)

// State is the lifecycle phase of an App
type State int32

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateTerminating
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Option configures an App
type Option func(*App)

// WithConfig replaces DefaultConfig
func WithConfig(cfg Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// WithLogger sets the diagnostic logger; the default discards
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTracerProvider sets the provider for frame spans instead of the global one
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		if tp != nil {
			a.tracer = tp.Tracer(tracerName)
		}
	}
}

// App owns the terminal, the scene and the renderer for one run
// The area and renderer are shared with other goroutines; the scene, screen and queue belong to the frame task
type App struct {
	cfg    Config
	logger *log.Logger
	tracer trace.Tracer

	term   *terminal.Terminal
	reader *terminal.Reader

	area     *Shared[frame.Rect]
	renderer *Shared[*render.Renderer]

	scene  *widget.Scene
	screen *frame.Frame
	queue  *input.Queue
	keymap *input.Keymap

	events chan terminal.Event
	redraw chan struct{}
	state  atomic.Int32
}

// New creates an App on the process's terminal
// Fails with terminal.ErrNotTerminal when stdin is not a terminal
func New(opts ...Option) (*App, error) {
	return NewWithBackend(terminal.NewBackend(), opts...)
}

// NewWithBackend creates an App on the given backend
// The backend must pass its Check; nothing is written to it until Run
func NewWithBackend(b terminal.Backend, opts ...Option) (*App, error) {
	if err := b.Check(); err != nil {
		return nil, fmt.Errorf("acquire terminal: %w", err)
	}

	a := &App{
		cfg:    DefaultConfig(),
		logger: log.New(io.Discard, "", 0),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	colorMode, err := terminal.ParseColorMode(a.cfg.ColorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	a.keymap, err = input.NewKeymap(a.cfg.Keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	a.term = terminal.New(b, terminal.Options{
		ColorMode:      colorMode,
		MouseMode:      a.cfg.mouseMode(),
		BracketedPaste: true,
	})
	a.reader = terminal.NewReader(b, terminal.NewDecoder(a.cfg.EscapeTimeout))

	w, h := b.Size()
	area := frame.Rect{Width: max(w, 0), Height: max(h, 0)}
	a.area = NewShared(area)
	r := render.NewRenderer(a.term, colorMode)
	r.Resize(area.Width, area.Height)
	a.renderer = NewShared(r)

	a.scene = widget.NewScene()
	a.queue = input.NewQueue()
	a.events = make(chan terminal.Event, a.cfg.EventBuffer)
	a.redraw = make(chan struct{}, 1)
	return a, nil
}

// Config returns the configuration in use
func (a *App) Config() Config {
	return a.cfg
}

// Terminal returns the terminal the App draws on
func (a *App) Terminal() *terminal.Terminal {
	return a.term
}

// Area returns the current screen rectangle
func (a *App) Area() frame.Rect {
	return a.area.Load()
}

// ReadArea calls fn with the screen rectangle while holding off resizes
func (a *App) ReadArea(fn func(frame.Rect)) {
	a.area.Read(fn)
}

// Scene returns the scene composed each frame
func (a *App) Scene() *widget.Scene {
	return a.scene
}

// SetScene replaces the scene from inside the frame callback; the next frame repaints everything
func (a *App) SetScene(s *widget.Scene) {
	if s == nil {
		s = widget.NewScene()
	}
	s.Invalidate()
	a.scene = s
}

// Events returns the current frame's input queue
func (a *App) Events() *input.Queue {
	return a.queue
}

// Keymap returns the bindings built from Config.Keys
func (a *App) Keymap() *input.Keymap {
	return a.keymap
}

// ReadRenderer calls fn with the renderer while holding off commits
// fn may only inspect the renderer; use UpdateRenderer to change it
func (a *App) ReadRenderer(fn func(*render.Renderer)) {
	a.renderer.Read(fn)
}

// UpdateRenderer calls fn with exclusive access to the renderer
func (a *App) UpdateRenderer(fn func(*render.Renderer)) {
	a.renderer.Write(func(r **render.Renderer) {
		fn(*r)
	})
}

// SwapRenderer installs r for subsequent frames; it starts with a full repaint at the current size
func (a *App) SwapRenderer(r *render.Renderer) {
	area := a.area.Load()
	r.Resize(area.Width, area.Height)
	a.renderer.Store(r)
	a.RequestRedraw()
}

// RequestRedraw wakes the frame task when frames render on demand
// Safe to call from any goroutine
func (a *App) RequestRedraw() {
	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

// State returns the lifecycle phase
func (a *App) State() State {
	return State(a.state.Load())
}

func (a *App) setState(s State) {
	a.state.Store(int32(s))
	a.logger.Printf("app: %s", s)
}
