package main

import (
	"fmt"

	"github.com/lixenwraith/termrender/app"
	"github.com/lixenwraith/termrender/frame"
	"github.com/lixenwraith/termrender/input"
	"github.com/lixenwraith/termrender/render"
	"github.com/lixenwraith/termrender/terminal"
	"github.com/lixenwraith/termrender/widget"
)

// defaultKeys sit under the [keys] table of the config file
var defaultKeys = map[string]string{
	"q":      "quit",
	"esc":    "quit",
	"h":      "help",
	"f1":     "help",
	"x":      "clear",
	"tab":    "theme",
	"ctrl+l": "redraw",
}

const recentKeys = 6

var (
	muted   = terminal.Style{Fg: terminal.MustParseColor("#8a8a8a")}
	warning = terminal.Style{Fg: terminal.MustParseColor("#ffaf00")}.Bold()

	themes = []terminal.Color{
		terminal.MustParseColor("#5fafff"),
		terminal.MustParseColor("#87d787"),
		terminal.MustParseColor("#d787d7"),
	}
)

// demo is the per-run state handed to the frame callback
type demo struct {
	keys   *input.Keymap
	frames int
	clicks int
	recent []string
	theme  int
}

func newDemo(overrides map[string]string) (*demo, error) {
	km, err := input.Merge(defaultKeys, overrides)
	if err != nil {
		return nil, err
	}
	return &demo{keys: km}, nil
}

func (d *demo) accent() terminal.Style {
	return terminal.Style{Fg: themes[d.theme]}
}

// build populates the app's scene
func (d *demo) build(a *app.App) error {
	s := a.Scene()
	area := a.Area()

	_, err := widget.NewBuilder("header").
		WithPosition(0, 0).
		WithDynamicSize(widget.Percent(1, 0), widget.Cells(3)).
		WithBorderSet(frame.BorderRounded, d.accent()).
		WithTitle("termrender", d.accent().Bold()).
		WithKeywords("themed").
		WithRenderer(func(size, _ frame.Point) []widget.Line {
			hint := widget.Text("q quit  h help  x clear  tab theme  c click", muted)
			return []widget.Line{hint.Center(size.X - 2)}
		}).
		AddTo(s, area)
	if err != nil {
		return err
	}

	_, err = widget.NewBuilder("counter").
		WithPosition(2, 4).
		WithSize(18, 3).
		WithBorderSet(frame.BorderNormal, d.accent()).
		WithKeywords("themed").
		WithParent("header").
		WithLabel("Click me").
		WithHotkey("c").
		WithOnPress(func(b *widget.Button) {
			d.clicks++
			b.SetLabel(fmt.Sprintf("Clicked %d", d.clicks))
		}).
		AddButtonTo(s, area)
	if err != nil {
		return err
	}

	_, err = widget.NewBuilder("keys").
		WithDynamicPosition(widget.Cells(22), widget.Cells(4)).
		WithDynamicSize(widget.Percent(1, -24), widget.Cells(recentKeys+2)).
		WithBorderSet(frame.BorderNormal, d.accent()).
		WithTitle("input", terminal.StyleDefault).
		WithKeywords("themed").
		WithRenderer(func(_, _ frame.Point) []widget.Line {
			lines := make([]widget.Line, 0, len(d.recent))
			for i := len(d.recent) - 1; i >= 0; i-- {
				lines = append(lines, widget.Text(d.recent[i], terminal.StyleDefault))
			}
			return lines
		}).
		AddTo(s, area)
	if err != nil {
		return err
	}

	_, err = widget.NewBuilder("status").
		WithDynamicPosition(widget.Cells(0), widget.Percent(1, -1)).
		WithDynamicSize(widget.Percent(1, 0), widget.Cells(1)).
		WithRenderer(func(_, _ frame.Point) []widget.Line {
			return []widget.Line{widget.Text(d.status(a), muted.Reverse())}
		}).
		AddTo(s, area)
	if err != nil {
		return err
	}

	sw, help, err := widget.NewBuilder("help").
		WithDynamicPosition(widget.Percent(0.5, -20), widget.Percent(0.5, -4)).
		WithSize(40, 8).
		WithBorderSet(frame.BorderDouble, warning).
		WithTitle("help", warning).
		WithStyle(terminal.Style{Bg: terminal.MustParseColor("#262626")}).
		WithDepth(10).
		WithRenderer(func(_, _ frame.Point) []widget.Line {
			return []widget.Line{
				widget.Text("Mouse clicks press the button", terminal.StyleDefault),
				widget.Text("unless this window covers it.", terminal.StyleDefault),
				widget.Text("Keys are rebindable in [keys].", terminal.StyleDefault),
				widget.Text("Ctrl+C always exits.", muted),
			}
		}).
		Build(area)
	if err != nil {
		return err
	}
	help.Hide()
	return s.AddWidget(sw, help)
}

// status is the bottom line: size, pointer, scroll velocity and counters
func (d *demo) status(a *app.App) string {
	q := a.Events()
	area := a.Area()
	pointer := "-"
	if x, y, ok := q.MousePosition(); ok {
		pointer = fmt.Sprintf("%d,%d", x, y)
	}
	return fmt.Sprintf(" %dx%d  mouse %s  scroll %+.2f  clicks %d  frame %d",
		area.Width, area.Height, pointer, q.Scroll(), d.clicks, d.frames)
}

// step is the frame callback
func step(a *app.App, d *demo) (bool, error) {
	d.frames++
	q := a.Events()

	for _, ev := range q.KeyEvents() {
		d.recent = append(d.recent, ev.String())
		if len(d.recent) > recentKeys {
			d.recent = d.recent[1:]
		}
	}

	for _, action := range q.Actions(d.keys) {
		switch action {
		case "quit":
			return true, nil
		case "help":
			if w := a.Scene().Window("help"); w != nil {
				if w.Hidden() {
					w.Show()
				} else {
					w.Hide()
				}
			}
		case "clear":
			d.recent = d.recent[:0]
		case "theme":
			d.theme = (d.theme + 1) % len(themes)
			for _, id := range a.Scene().IDsByKeyword("themed") {
				a.Scene().Window(id).SetBorderStyle(d.accent())
			}
		case "redraw":
			a.Scene().Invalidate()
			a.UpdateRenderer((*render.Renderer).Invalidate)
			if err := a.Terminal().Clear(); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}
