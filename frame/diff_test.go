package frame

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lixenwraith/termrender/terminal"
)

func TestDiffFirstRenderIsFull(t *testing.T) {
	cur := MustNew(Rect{Width: 4, Height: 3})
	runs, err := Diff(nil, cur)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected one run per row, got %d", len(runs))
	}
	if got := len(Positions(runs)); got != 12 {
		t.Errorf("Expected 12 cells, got %d", got)
	}
}

func TestDiffIdempotent(t *testing.T) {
	f := MustNew(Rect{Width: 8, Height: 4})
	f.SetString(1, 1, "hello", terminal.StyleDefault.Foreground(terminal.ColorRed))
	runs, err := Diff(f.Clone(), f)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no runs for identical frames, got %v", runs)
	}
}

func TestDiffCoalescesRow(t *testing.T) {
	prev := MustNew(Rect{X: 10, Y: 5, Width: 10, Height: 2})
	cur := prev.Clone()
	cur.SetString(2, 1, "abc", terminal.StyleDefault)
	cur.SetString(7, 1, "x", terminal.StyleDefault)

	runs, err := Diff(prev, cur)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].X != 12 || runs[0].Y != 6 || runs[0].Width() != 3 {
		t.Errorf("Unexpected first run: (%d,%d) w=%d", runs[0].X, runs[0].Y, runs[0].Width())
	}
	if runs[1].X != 17 || runs[1].Width() != 1 {
		t.Errorf("Unexpected second run: (%d,%d) w=%d", runs[1].X, runs[1].Y, runs[1].Width())
	}
}

func TestDiffDimensionMismatch(t *testing.T) {
	a := MustNew(Rect{Width: 3, Height: 3})
	b := MustNew(Rect{Width: 4, Height: 3})
	if _, err := Diff(a, b); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := DiffRegions(a, b, nil); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch from DiffRegions, got %v", err)
	}
}

// Narrow glyphs only: with wide glyphs a run also covers the unchanged half of a changed glyph
func TestDiffExactChangedSet(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	glyphs := []rune{' ', 'a', 'b', '#'}
	styles := []terminal.Style{
		terminal.StyleDefault,
		terminal.StyleDefault.Bold(),
		terminal.StyleDefault.Foreground(terminal.RGB(1, 2, 3)),
	}
	random := func() terminal.Cell {
		return terminal.NewCell(glyphs[rng.Intn(len(glyphs))], styles[rng.Intn(len(styles))])
	}

	for iter := 0; iter < 200; iter++ {
		w, h := 1+rng.Intn(12), 1+rng.Intn(6)
		prev := MustNew(Rect{Width: w, Height: h})
		for i := range prev.Cells() {
			prev.Cells()[i] = random()
		}
		cur := prev.Clone()
		want := map[Point]bool{}
		for n := rng.Intn(w * h); n > 0; n-- {
			x, y := rng.Intn(w), rng.Intn(h)
			c := random()
			cur.Cells()[y*w+x] = c
			p, _ := prev.At(x, y)
			if p != c {
				want[Point{x, y}] = true
			} else {
				delete(want, Point{x, y})
			}
		}

		runs, err := Diff(prev, cur)
		if err != nil {
			t.Fatalf("Diff failed: %v", err)
		}
		got := map[Point]bool{}
		for _, p := range Positions(runs) {
			if got[p] {
				t.Fatalf("Iteration %d: position %v reported twice", iter, p)
			}
			got[p] = true
		}
		if len(got) != len(want) {
			t.Fatalf("Iteration %d: expected %d changed cells, got %d", iter, len(want), len(got))
		}
		for p := range want {
			if !got[p] {
				t.Fatalf("Iteration %d: missing changed cell %v", iter, p)
			}
		}

		// Runs on a row never touch: a gap means an unchanged cell
		for i := 1; i < len(runs); i++ {
			a, b := runs[i-1], runs[i]
			if a.Y == b.Y && a.X+a.Width() >= b.X {
				t.Fatalf("Iteration %d: runs not coalesced: %v then %v", iter, a, b)
			}
		}
	}
}

func TestDiffRegionsRestricts(t *testing.T) {
	prev := MustNew(Rect{Width: 10, Height: 3})
	cur := prev.Clone()
	cur.SetString(0, 0, "xxxxxxxxxx", terminal.StyleDefault)
	cur.SetString(0, 2, "yy", terminal.StyleDefault)

	regions := []Rect{
		{X: 2, Y: 0, Width: 3, Height: 1},
		{X: 4, Y: 0, Width: 3, Height: 1}, // overlaps the first
	}
	runs, err := DiffRegions(prev, cur, regions)
	if err != nil {
		t.Fatalf("DiffRegions failed: %v", err)
	}
	if len(runs) != 1 || runs[0].X != 2 || runs[0].Width() != 5 {
		t.Fatalf("Expected a single merged run at x=2 w=5, got %v", runs)
	}
}

func TestDiffWidensWideGlyph(t *testing.T) {
	prev := MustNew(Rect{Width: 4, Height: 1})
	prev.SetString(0, 0, "漢", terminal.StyleDefault)
	cur := prev.Clone()
	// Only the continuation's style changes
	cur.Row(0)[1].Bg = terminal.ColorBlue

	runs, err := Diff(prev, cur)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(runs) != 1 || runs[0].X != 0 || runs[0].Width() != 2 {
		t.Errorf("Expected run covering the whole glyph, got %v", runs)
	}
}
