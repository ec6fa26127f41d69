package terminal

import (
	"bytes"
	"errors"
	"testing"
)

func TestTerminalInitFini(t *testing.T) {
	mb := NewMemoryBackend(40, 10)
	term := New(mb, Options{ColorMode: ColorModeTrueColor, MouseMode: MouseModeClick, BracketedPaste: true})

	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	out := mb.TakeOutput()
	for _, want := range [][]byte{csiAltScreenEnter, csiCursorHide, csiAutoWrapOff, csiPasteOn, csiMouseSGROn, csiMouseClickOn, csiClear} {
		if !bytes.Contains(out, want) {
			t.Errorf("Init output missing %q", want)
		}
	}

	// Second Init is a no-op
	if err := term.Init(); err != nil {
		t.Fatalf("Second Init failed: %v", err)
	}
	if len(mb.TakeOutput()) != 0 {
		t.Error("Expected no output from repeated Init")
	}

	term.Fini()
	out = mb.TakeOutput()
	for _, want := range [][]byte{csiMouseClickOff, csiMouseSGROff, csiPasteOff, csiCursorShow, csiAltScreenExit, csiAutoWrapOn} {
		if !bytes.Contains(out, want) {
			t.Errorf("Fini output missing %q", want)
		}
	}
	if !mb.Closed() {
		t.Error("Expected backend finalized")
	}

	term.Fini()
	if len(mb.TakeOutput()) != 0 {
		t.Error("Expected Fini to be idempotent")
	}

	if _, err := term.Write([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed after Fini, got %v", err)
	}
}

func TestTerminalResizeLatestWins(t *testing.T) {
	mb := NewMemoryBackend(40, 10)
	term := New(mb, Options{})
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	mb.Resize(50, 12)
	mb.Resize(60, 20)

	select {
	case ev := <-term.Resizes():
		if ev.Width != 60 || ev.Height != 20 {
			t.Errorf("Expected latest size 60x20, got %dx%d", ev.Width, ev.Height)
		}
	default:
		t.Fatal("Expected a pending resize")
	}
	select {
	case ev := <-term.Resizes():
		t.Errorf("Expected a single pending resize, got extra %v", ev)
	default:
	}
}

func TestTerminalSetMouseMode(t *testing.T) {
	mb := NewMemoryBackend(40, 10)
	term := New(mb, Options{})
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()
	mb.TakeOutput()

	if err := term.SetMouseMode(MouseModeClick | MouseModeMotion); err != nil {
		t.Fatalf("SetMouseMode failed: %v", err)
	}
	out := mb.TakeOutput()
	if !bytes.Contains(out, csiMouseSGROn) || !bytes.Contains(out, csiMouseMotionOn) {
		t.Errorf("Expected SGR and motion enable, got %q", out)
	}

	if err := term.SetMouseMode(MouseModeNone); err != nil {
		t.Fatalf("SetMouseMode failed: %v", err)
	}
	out = mb.TakeOutput()
	if !bytes.Contains(out, csiMouseSGROff) || !bytes.Contains(out, csiMouseMotionOff) {
		t.Errorf("Expected SGR and motion disable, got %q", out)
	}
	if term.MouseMode() != MouseModeNone {
		t.Errorf("Expected no mouse mode, got %v", term.MouseMode())
	}
}

func TestTerminalInitWriteFailure(t *testing.T) {
	mb := NewMemoryBackend(40, 10)
	mb.FailWrites(errors.New("broken pipe"))
	term := New(mb, Options{})
	if err := term.Init(); err == nil {
		t.Fatal("Expected Init to fail")
	}
	if !mb.Closed() {
		t.Error("Expected backend restored after failed Init")
	}
}

func TestEmergencyReset(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)
	if !bytes.Contains(buf.Bytes(), csiAltScreenExit) || !bytes.Contains(buf.Bytes(), csiCursorShow) {
		t.Errorf("Expected restore sequences, got %q", buf.String())
	}
}
