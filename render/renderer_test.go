package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/terminal"
)

func TestRendererFirstCommitIsFull(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, terminal.ColorModeTrueColor)
	f := frame.MustNew(frame.Rect{Width: 6, Height: 3})

	stats, err := r.Commit(f, nil)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if stats.Runs != 3 || stats.Cells != 18 {
		t.Errorf("Expected 3 runs / 18 cells, got %+v", stats)
	}
	if stats.Bytes != int64(buf.Len()) {
		t.Errorf("Expected %d bytes in stats, got %d", buf.Len(), stats.Bytes)
	}
}

func TestRendererUnchangedCommitWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, terminal.ColorModeTrueColor)
	f := frame.MustNew(frame.Rect{X: 10, Y: 10, Width: 50, Height: 10})
	f.SetString(0, 0, "status", terminal.StyleDefault.Bold())

	if _, err := r.Commit(f, nil); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	buf.Reset()

	stats, err := r.Commit(f, nil)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if buf.Len() != 0 || stats.Bytes != 0 {
		t.Errorf("Expected no output for unchanged frame, got %q", buf.String())
	}
}

func TestRendererEmitsOnlyChanges(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, terminal.ColorModeTrueColor)
	f := frame.MustNew(frame.Rect{X: 10, Y: 10, Width: 50, Height: 10})
	if _, err := r.Commit(f, nil); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	buf.Reset()

	f.SetString(3, 2, "Z", terminal.StyleDefault)
	stats, err := r.Commit(f, nil)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if stats.Cells != 1 {
		t.Errorf("Expected 1 changed cell, got %d", stats.Cells)
	}
	// Screen position is frame origin plus local offset, 1-based
	if buf.String() != "\x1b[13;14HZ" {
		t.Errorf("Expected single positioned glyph, got %q", buf.String())
	}
}

func TestRendererInvalidate(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, terminal.ColorModeTrueColor)
	f := frame.MustNew(frame.Rect{Width: 4, Height: 2})
	if _, err := r.Commit(f, nil); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	first := buf.String()
	buf.Reset()

	r.Invalidate()
	if _, err := r.Commit(f, nil); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if buf.String() != first {
		t.Errorf("Expected full repaint %q, got %q", first, buf.String())
	}
}

func TestRendererDamageRegions(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, terminal.ColorModeTrueColor)
	f := frame.MustNew(frame.Rect{Width: 10, Height: 3})
	if _, err := r.Commit(f, nil); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	buf.Reset()

	f.SetString(8, 2, "x", terminal.StyleDefault)
	stats, err := r.Commit(f, []frame.Rect{{X: 0, Y: 0, Width: 4, Height: 1}})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if stats.Cells != 0 || buf.Len() != 0 {
		t.Errorf("Expected change outside damage to be skipped, got %+v %q", stats, buf.String())
	}

	// The skipped cell is still pending against what the terminal shows
	stats, err = r.Commit(f, nil)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if stats.Cells != 1 || !strings.HasSuffix(buf.String(), "x") {
		t.Errorf("Expected pending cell on full diff, got %+v %q", stats, buf.String())
	}
}

func TestRendererDimensionMismatch(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, terminal.ColorModeTrueColor)
	if _, err := r.Commit(frame.MustNew(frame.Rect{Width: 3, Height: 3}), nil); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	_, err := r.Commit(frame.MustNew(frame.Rect{Width: 2, Height: 2}), nil)
	if !errors.Is(err, frame.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}

	// Resize starts over at the new dimensions
	r.Resize(2, 2)
	if _, err := r.Commit(frame.MustNew(frame.Rect{Width: 2, Height: 2}), nil); err != nil {
		t.Errorf("Expected commit after resize to succeed, got %v", err)
	}
}

type toggleWriter struct {
	buf  bytes.Buffer
	fail bool
}

func (w *toggleWriter) Write(p []byte) (int, error) {
	if w.fail {
		return 0, errors.New("disconnected")
	}
	return w.buf.Write(p)
}

func TestRendererWriteFailureRepaints(t *testing.T) {
	w := &toggleWriter{fail: true}
	r := NewRenderer(w, terminal.ColorModeTrueColor)
	f := frame.MustNew(frame.Rect{Width: 3, Height: 2})

	if _, err := r.Commit(f, nil); !errors.Is(err, ErrWrite) {
		t.Fatalf("Expected ErrWrite, got %v", err)
	}

	w.fail = false
	stats, err := r.Commit(f, nil)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if stats.Cells != 6 {
		t.Errorf("Expected full repaint after failure, got %d cells", stats.Cells)
	}
}
