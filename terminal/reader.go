package terminal

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// idleTimeout bounds a read when no sequence is pending, so cancellation is observed
const idleTimeout = 250 * time.Millisecond

// Reader is the input task: it reads the backend, decodes, and hands events off in arrival order
type Reader struct {
	backend Backend
	decoder *Decoder
	now     func() time.Time
	batch   []Event
}

// NewReader creates a Reader; a nil decoder uses DefaultEscapeTimeout
func NewReader(backend Backend, decoder *Decoder) *Reader {
	if decoder == nil {
		decoder = NewDecoder(DefaultEscapeTimeout)
	}
	return &Reader{
		backend: backend,
		decoder: decoder,
		now:     time.Now,
		batch:   make([]Event, 0, 64),
	}
}

// Run reads until ctx is done or the backend fails
// Sends block while out is full; nothing is dropped. Returns nil on cancellation
func (r *Reader) Run(ctx context.Context, out chan<- Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("input reader panic: %v\n%s", p, debug.Stack())
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		timeout := idleTimeout
		if dl, ok := r.decoder.Deadline(); ok {
			timeout = dl.Sub(r.now())
			if timeout < 0 {
				timeout = 0
			}
		}

		data, err := r.backend.Read(ctx.Done(), timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		now := r.now()
		r.batch = r.batch[:0]
		if len(data) == 0 {
			r.batch = r.decoder.Expire(r.batch, now)
		} else {
			r.batch = r.decoder.Feed(r.batch, data, now)
		}

		for _, ev := range r.batch {
			select {
			case out <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
