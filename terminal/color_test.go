package terminal

import (
	"errors"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"default", ColorDefault},
		{"", ColorDefault},
		{"#ff8000", RGB(255, 128, 0)},
		{"#FFF", RGB(255, 255, 255)},
		{"196", Indexed(196)},
		{"0", Indexed(0)},
		{"maroon", ColorRed},
		{"red", ColorBrightRed},
		{"Navy", ColorBlue},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestParseColorX11Name(t *testing.T) {
	got, err := ParseColor("aliceblue")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != RGB(0xf0, 0xf8, 0xff) {
		t.Errorf("Expected #f0f8ff, got %v", got)
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"#zzzzzz", "256", "-1", "notacolor"} {
		if _, err := ParseColor(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q): expected ErrInvalidColor, got %v", in, err)
		}
	}
}

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		in   Color
		want uint8
	}{
		{RGB(0, 0, 0), 16},
		{RGB(255, 255, 255), 231},
		{RGB(255, 0, 0), 196},
		{RGB(128, 128, 128), 244},
		{Indexed(42), 42},
	}
	for _, tt := range tests {
		if got := RGBTo256(tt.in); got != tt.want {
			t.Errorf("RGBTo256(%v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestBlend(t *testing.T) {
	a := RGB(0, 0, 0)
	b := RGB(255, 255, 255)
	if got := Blend(a, b, 0); got != a {
		t.Errorf("Blend at 0: expected %v, got %v", a, got)
	}
	if got := Blend(a, b, 1); got != b {
		t.Errorf("Blend at 1: expected %v, got %v", b, got)
	}
	mid := Blend(a, b, 0.5)
	if mid.R == 0 || mid.R == 255 || mid.Kind != ColorKindRGB {
		t.Errorf("Blend at 0.5: expected an intermediate gray, got %v", mid)
	}
	if got := Blend(ColorDefault, b, 0.2); got != ColorDefault {
		t.Errorf("Blend with default: expected default below midpoint, got %v", got)
	}
}

func TestParseColorMode(t *testing.T) {
	if m, err := ParseColorMode("truecolor"); err != nil || m != ColorModeTrueColor {
		t.Errorf("Expected truecolor, got %v %v", m, err)
	}
	if m, err := ParseColorMode("256"); err != nil || m != ColorMode256 {
		t.Errorf("Expected 256, got %v %v", m, err)
	}
	if _, err := ParseColorMode("16"); err == nil {
		t.Error("Expected error for unsupported mode")
	}
}

func TestDetectColorMode(t *testing.T) {
	for _, k := range []string{"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID", "ALACRITTY_LOG", "WEZTERM_PANE"} {
		t.Setenv(k, "")
	}
	t.Setenv("COLORTERM", "truecolor")
	if DetectColorMode() != ColorModeTrueColor {
		t.Error("Expected truecolor from COLORTERM")
	}
	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "xterm-256color")
	if DetectColorMode() != ColorMode256 {
		t.Error("Expected 256 for xterm-256color")
	}
}
