package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/render"
	"github.com/lixenwraith/termrender/terminal"
)

// Callback is called once per frame after input is collected and before the scene updates
// Returning true ends the run; an error ends it with ErrCallback
type Callback[T any] func(a *App, data *T) (bool, error)

// Run executes the frame loop until the callback finishes, ctx is cancelled or I/O fails
// The terminal is restored on every return path. Cancellation of ctx returns nil
func Run[T any](ctx context.Context, a *App, data *T, cb Callback[T]) (err error) {
	if cb == nil {
		return ErrNilCallback
	}
	if !a.state.CompareAndSwap(int32(StateIdle), int32(StateInitializing)) {
		return ErrAlreadyRun
	}
	a.logger.Printf("app: %s", StateInitializing)

	if err := a.term.Init(); err != nil {
		a.setState(StateTerminated)
		return fmt.Errorf("init terminal: %w", err)
	}
	defer func() {
		a.setState(StateTerminating)
		a.term.Fini()
		a.setState(StateTerminated)
		if err != nil {
			a.logger.Printf("app: run failed: %v", err)
		}
	}()

	w, h := a.term.Size()
	if err := a.resize(terminal.ResizeEvent{Width: w, Height: h}, false); err != nil {
		return err
	}
	a.setState(StateRunning)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return a.reader.Run(gctx, a.events)
	})
	g.Go(func() error {
		// The reader only stops on cancellation or failure
		defer cancel()
		return frameLoop(gctx, a, data, cb)
	})
	return g.Wait()
}

// Run executes the frame loop with a callback that carries no user data
func (a *App) Run(ctx context.Context, fn func(*App) (bool, error)) error {
	if fn == nil {
		return ErrNilCallback
	}
	var none struct{}
	return Run(ctx, a, &none, func(a *App, _ *struct{}) (bool, error) {
		return fn(a)
	})
}

func frameLoop[T any](ctx context.Context, a *App, data *T, cb Callback[T]) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, p, debug.Stack())
		}
	}()

	var tick <-chan time.Time
	var wake <-chan terminal.Event
	if a.cfg.FrameInterval > 0 {
		ticker := time.NewTicker(a.cfg.FrameInterval)
		defer ticker.Stop()
		tick = ticker.C
	} else {
		// On demand: any input starts a frame
		wake = a.events
	}

	for {
		done, err := runFrame(ctx, a, data, cb)
		if err != nil || done {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		case <-a.redraw:
		case ev := <-wake:
			a.queue.Push(ev)
		case rs := <-a.term.Resizes():
			if err := a.resize(rs, true); err != nil {
				return err
			}
		}
	}
}

// runFrame runs one iteration: collect, callback, update, compose, commit
func runFrame[T any](ctx context.Context, a *App, data *T, cb Callback[T]) (bool, error) {
	_, span := a.tracer.Start(ctx, "termrender.frame")
	defer span.End()

	if err := a.collect(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	span.SetAttributes(attribute.Int("termrender.events", a.queue.Len()))

	done, err := cb(a, data)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCallback, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if done {
		return true, nil
	}
	if a.cfg.ExitOnCtrlC && a.queue.ContainsKeyCode(terminal.KeyCtrlC) {
		a.logger.Printf("app: ctrl+c exit")
		return true, nil
	}

	stats, err := a.draw()
	span.SetAttributes(
		attribute.Int("termrender.runs", stats.Runs),
		attribute.Int("termrender.cells", stats.Cells),
		attribute.Int64("termrender.bytes", stats.Bytes),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	a.queue.Clear()
	return false, nil
}

// collect drains pending input into the queue and applies a pending resize
func (a *App) collect() error {
	for {
		select {
		case ev := <-a.events:
			a.queue.Push(ev)
		case rs := <-a.term.Resizes():
			if err := a.resize(rs, true); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// resize records the new area, invalidates the scene and renderer and, when live, clears the terminal
// A resize event is pushed to the queue so widgets and the callback see it in this frame
func (a *App) resize(rs terminal.ResizeEvent, live bool) error {
	area := frame.Rect{Width: max(rs.Width, 0), Height: max(rs.Height, 0)}
	screen, err := frame.New(area)
	if err != nil {
		return err
	}
	a.area.Write(func(r *frame.Rect) {
		*r = area
		a.screen = screen
		a.scene.Invalidate()
	})
	if live {
		if err := a.term.Clear(); err != nil {
			return fmt.Errorf("clear terminal: %w", err)
		}
		a.queue.Push(terminal.Event{Type: terminal.EventResize, Width: area.Width, Height: area.Height})
		a.logger.Printf("app: resize %dx%d", area.Width, area.Height)
	}
	a.UpdateRenderer(func(r *render.Renderer) {
		r.Resize(area.Width, area.Height)
	})
	return nil
}

// draw updates and composes the scene, then commits the damaged regions
func (a *App) draw() (render.Stats, error) {
	area := a.area.Load()
	if err := a.scene.Update(a.queue, area); err != nil {
		return render.Stats{}, err
	}
	damage := a.scene.Compose(a.screen)
	if damage == nil {
		// Nothing moved or changed; only a pending full repaint produces output
		damage = []frame.Rect{}
	}

	var (
		stats render.Stats
		err   error
	)
	a.UpdateRenderer(func(r *render.Renderer) {
		stats, err = r.Commit(a.screen, damage)
	})
	return stats, err
}
