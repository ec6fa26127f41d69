package render

import (
	"io"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/terminal"
)

// Stats describes the output of one commit
type Stats struct {
	Runs  int
	Cells int
	Bytes int64
}

// Renderer commits frames to a terminal, emitting only cells that changed since the last commit
// Not safe for concurrent use
type Renderer struct {
	enc  *Encoder
	prev *frame.Frame // what the terminal is showing, nil forces a full repaint
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer, colorMode terminal.ColorMode) *Renderer {
	return &Renderer{enc: NewEncoder(w, colorMode)}
}

// Encoder returns the underlying encoder
func (r *Renderer) Encoder() *Encoder {
	return r.enc
}

// Commit writes the difference between the last committed frame and cur
// With damage, only cells inside the screen-coordinate rectangles are compared; a nil damage compares everything
// A failed write invalidates the renderer so the next commit repaints in full
func (r *Renderer) Commit(cur *frame.Frame, damage []frame.Rect) (Stats, error) {
	var (
		runs []frame.Run
		err  error
	)
	switch {
	case r.prev == nil:
		runs = frame.FullRuns(cur)
	case damage != nil:
		runs, err = frame.DiffRegions(r.prev, cur, damage)
	default:
		runs, err = frame.Diff(r.prev, cur)
	}
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Runs: len(runs)}
	for _, run := range runs {
		stats.Cells += run.Width()
	}
	if len(runs) == 0 {
		return stats, nil
	}

	before := r.enc.Written()
	if err := r.enc.Encode(runs); err != nil {
		r.Invalidate()
		return stats, err
	}
	if err := r.enc.Flush(); err != nil {
		r.Invalidate()
		return stats, err
	}
	stats.Bytes = r.enc.Written() - before

	r.snapshot(cur, runs)
	return stats, nil
}

// snapshot records what the terminal now shows
func (r *Renderer) snapshot(cur *frame.Frame, runs []frame.Run) {
	if r.prev == nil {
		r.prev = cur.Clone()
		return
	}
	bounds := cur.Rect()
	for _, run := range runs {
		row := r.prev.Row(run.Y - bounds.Y)
		copy(row[run.X-bounds.X:], run.Cells)
	}
	r.prev.SetOrigin(bounds.X, bounds.Y)
}

// Invalidate forgets the terminal contents and graphic state; the next commit repaints everything
func (r *Renderer) Invalidate() {
	r.prev = nil
	r.enc.Reset()
}

// Resize records new screen dimensions and invalidates
func (r *Renderer) Resize(width, height int) {
	r.enc.SetSize(width, height)
	r.Invalidate()
}
