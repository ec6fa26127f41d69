package terminal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned by ParseColor for unrecognized color specs
var ErrInvalidColor = errors.New("invalid color")

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// ColorKind selects how a Color is encoded
type ColorKind uint8

const (
	ColorKindDefault ColorKind = iota // terminal default (SGR 39/49)
	ColorKindIndexed                  // palette index stored in R
	ColorKindRGB                      // 24-bit
)

// Color is a comparable terminal color value
// Indexed colors store the palette index in R, G and B are zero
type Color struct {
	Kind    ColorKind
	R, G, B uint8
}

// ColorDefault leaves the color to the terminal
var ColorDefault = Color{}

// RGB returns a 24-bit color
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorKindRGB, R: r, G: g, B: b}
}

// Indexed returns a palette color
func Indexed(n uint8) Color {
	return Color{Kind: ColorKindIndexed, R: n}
}

// Basic palette entries, rendered with the terminal's own theme
var (
	ColorBlack   = Indexed(0)
	ColorRed     = Indexed(1)
	ColorGreen   = Indexed(2)
	ColorYellow  = Indexed(3)
	ColorBlue    = Indexed(4)
	ColorMagenta = Indexed(5)
	ColorCyan    = Indexed(6)
	ColorWhite   = Indexed(7)

	ColorBrightBlack   = Indexed(8)
	ColorBrightRed     = Indexed(9)
	ColorBrightGreen   = Indexed(10)
	ColorBrightYellow  = Indexed(11)
	ColorBrightBlue    = Indexed(12)
	ColorBrightMagenta = Indexed(13)
	ColorBrightCyan    = Indexed(14)
	ColorBrightWhite   = Indexed(15)
)

// IsDefault reports whether the color defers to the terminal default
func (c Color) IsDefault() bool {
	return c.Kind == ColorKindDefault
}

// Index returns the palette index of an indexed color
func (c Color) Index() uint8 {
	return c.R
}

func (c Color) String() string {
	switch c.Kind {
	case ColorKindIndexed:
		return strconv.Itoa(int(c.R))
	case ColorKindRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return "default"
	}
}

// ParseColor resolves a color spec
// Accepts "default", "#rgb", "#rrggbb", a palette index "0".."255", or a color name ("red", "navy")
func ParseColor(spec string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" || s == "default" || s == "reset" {
		return ColorDefault, nil
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
		}
		r, g, b := c.RGB255()
		return RGB(r, g, b), nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return Color{}, fmt.Errorf("%w: palette index %d out of range", ErrInvalidColor, n)
		}
		return Indexed(uint8(n)), nil
	}

	tc, ok := tcell.ColorNames[s]
	if !ok || !tc.Valid() {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
	}
	// Basic palette names keep their index so terminal themes apply, X11 names resolve to RGB
	if !tc.IsRGB() {
		if idx := int64(tc - tcell.ColorValid); idx >= 0 && idx < 256 {
			return Indexed(uint8(idx)), nil
		}
	}
	r, g, b := tc.RGB()
	if r < 0 || g < 0 || b < 0 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
	}
	return RGB(uint8(r), uint8(g), uint8(b)), nil
}

// MustParseColor is ParseColor for static color tables, panics on error
func MustParseColor(spec string) Color {
	c, err := ParseColor(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Blend mixes two RGB colors in Lab space, t in [0,1]
// Non-RGB inputs return a unchanged when t < 0.5 and b otherwise
func Blend(a, b Color, t float64) Color {
	if a.Kind != ColorKindRGB || b.Kind != ColorKindRGB {
		if t < 0.5 {
			return a
		}
		return b
	}
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return RGB(r, g, bl)
}

// Color cube levels for the 6x6x6 palette (indices 16-231)
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// grayscaleStart is the first grayscale index (232-255 = 24 shades)
const grayscaleStart = 232

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// cubeIndex maps a channel value to the nearest cube level
func cubeIndex(v uint8) uint8 {
	best := 0
	bestDist := abs(int(v) - int(cubeValues[0]))
	for j := 1; j < len(cubeValues); j++ {
		if d := abs(int(v) - int(cubeValues[j])); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return uint8(best)
}

// RGBTo256 converts a color to the nearest 256-color palette index
// Indexed colors pass through; default maps to 0
func RGBTo256(c Color) uint8 {
	switch c.Kind {
	case ColorKindIndexed:
		return c.R
	case ColorKindDefault:
		return 0
	}

	r, g, b := c.R, c.G, c.B
	cr, cg, cb := cubeIndex(r), cubeIndex(g), cubeIndex(b)
	cubeDist := abs(int(r)-int(cubeValues[cr])) +
		abs(int(g)-int(cubeValues[cg])) +
		abs(int(b)-int(cubeValues[cb]))
	cube := 16 + 36*cr + 6*cg + cb

	// Grayscale ramp: 232-255 maps to luminance 8, 18, ..., 238
	gray := (int(r) + int(g) + int(b)) / 3
	if gray < 4 || gray > 243 {
		return cube
	}
	grayIdx := (gray - 8) / 10
	if grayIdx < 0 {
		grayIdx = 0
	}
	if grayIdx > 23 {
		grayIdx = 23
	}
	level := 8 + grayIdx*10
	grayDist := abs(int(r)-level) + abs(int(g)-level) + abs(int(b)-level)
	if grayDist < cubeDist {
		return uint8(grayscaleStart + grayIdx)
	}
	return cube
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("ALACRITTY_LOG") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}

// ParseColorMode maps a config string to a ColorMode, "auto" detects from environment
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DetectColorMode(), nil
	case "truecolor", "24bit", "true":
		return ColorModeTrueColor, nil
	case "256":
		return ColorMode256, nil
	}
	return ColorMode256, fmt.Errorf("unknown color mode %q", s)
}
