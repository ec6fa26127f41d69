package frame

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/termrender/terminal"
)

// Run is a horizontal span of consecutive changed cells in screen coordinates
// Cells alias the current frame's storage and are valid until it is modified
type Run struct {
	X, Y  int
	Cells []terminal.Cell
}

// Width returns the number of cells in the run
func (r Run) Width() int { return len(r.Cells) }

// Diff returns the runs of cells in cur that differ from prev
// A nil prev yields the full grid (first render); frames must share dimensions
func Diff(prev, cur *Frame) ([]Run, error) {
	if prev == nil {
		return FullRuns(cur), nil
	}
	if err := sameSize(prev, cur); err != nil {
		return nil, err
	}

	var runs []Run
	w := cur.rect.Width
	for y := 0; y < cur.rect.Height; y++ {
		runs = diffRow(runs, prev.Row(y), cur.Row(y), cur.rect, y, 0, w)
	}
	return runs, nil
}

// DiffRegions is Diff restricted to the given screen-coordinate rectangles
// Overlapping regions are merged per row so no cell is reported twice
func DiffRegions(prev, cur *Frame, regions []Rect) ([]Run, error) {
	if prev == nil {
		return FullRuns(cur), nil
	}
	if err := sameSize(prev, cur); err != nil {
		return nil, err
	}

	var runs []Run
	var spans [][2]int
	bounds := cur.rect
	for y := 0; y < bounds.Height; y++ {
		absY := bounds.Y + y

		spans = spans[:0]
		for _, r := range regions {
			if r.Empty() || absY < r.Y || absY >= r.Bottom() {
				continue
			}
			lo := max(r.X, bounds.X) - bounds.X
			hi := min(r.Right(), bounds.Right()) - bounds.X
			if hi > lo {
				spans = append(spans, [2]int{lo, hi})
			}
		}
		if len(spans) == 0 {
			continue
		}

		slices.SortFunc(spans, func(a, b [2]int) int { return a[0] - b[0] })
		merged := spans[:1]
		for _, s := range spans[1:] {
			last := &merged[len(merged)-1]
			if s[0] <= last[1] {
				last[1] = max(last[1], s[1])
			} else {
				merged = append(merged, s)
			}
		}

		prow, crow := prev.Row(y), cur.Row(y)
		for _, s := range merged {
			runs = diffRow(runs, prow, crow, bounds, y, s[0], s[1])
		}
	}
	return runs, nil
}

// diffRow appends runs for columns [lo, hi) of one row
// Runs touching half of a wide glyph are widened to cover the whole glyph
func diffRow(runs []Run, prev, cur []terminal.Cell, bounds Rect, y, lo, hi int) []Run {
	floor := lo
	if n := len(runs); n > 0 && runs[n-1].Y == bounds.Y+y {
		floor = max(floor, runs[n-1].X-bounds.X+len(runs[n-1].Cells))
	}

	x := lo
	for x < hi {
		if prev[x] == cur[x] {
			x++
			continue
		}
		start := x
		for x < hi && prev[x] != cur[x] {
			x++
		}
		end := x

		// A wide glyph is re-emitted whole, so the run may include its unchanged half
		if start > floor && cur[start].IsContinuation() {
			start--
		}
		if end < len(cur) && cur[end].IsContinuation() {
			end++
		}
		start = max(start, floor)

		runs = append(runs, Run{X: bounds.X + start, Y: bounds.Y + y, Cells: cur[start:end]})
		floor = end
		x = max(x, end)
	}
	return runs
}

// FullRuns returns one run per row covering the whole frame
func FullRuns(f *Frame) []Run {
	if f.rect.Width == 0 {
		return nil
	}
	runs := make([]Run, 0, f.rect.Height)
	for y := 0; y < f.rect.Height; y++ {
		runs = append(runs, Run{X: f.rect.X, Y: f.rect.Y + y, Cells: f.Row(y)})
	}
	return runs
}

// Positions expands runs into the individual cell positions they cover
func Positions(runs []Run) []Point {
	var pts []Point
	for _, r := range runs {
		for i := range r.Cells {
			pts = append(pts, Point{X: r.X + i, Y: r.Y})
		}
	}
	return pts
}

func sameSize(a, b *Frame) error {
	if a.rect.Width != b.rect.Width || a.rect.Height != b.rect.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			a.rect.Width, a.rect.Height, b.rect.Width, b.rect.Height)
	}
	return nil
}
