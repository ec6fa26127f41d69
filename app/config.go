package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/termrender/input"
	"github.com/lixenwraith/termrender/terminal"
)

// ErrConfig is returned for invalid configuration values
var ErrConfig = errors.New("invalid config")

// Default configuration values
const (
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultEventBuffer   = 256
)

// Config controls terminal setup and frame pacing
type Config struct {
	// EscapeTimeout is how long a lone ESC waits for the rest of a sequence
	EscapeTimeout time.Duration `toml:"escape_timeout"`
	// FrameInterval paces frames; zero renders only when input arrives or a redraw is requested
	FrameInterval time.Duration `toml:"frame_interval"`
	// ColorMode is "auto", "truecolor" or "256"
	ColorMode string `toml:"color_mode"`

	Mouse       bool `toml:"mouse"`
	MouseMotion bool `toml:"mouse_motion"`
	// ExitOnCtrlC ends the run when Ctrl+C arrives, whatever the callback does
	ExitOnCtrlC bool `toml:"exit_on_ctrl_c"`
	// EventBuffer is the capacity of the input hand-off channel
	EventBuffer int `toml:"event_buffer"`

	// Keys maps chords to action names, merged over nothing by default
	Keys map[string]string `toml:"keys"`
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() Config {
	return Config{
		EscapeTimeout: terminal.DefaultEscapeTimeout,
		FrameInterval: DefaultFrameInterval,
		ColorMode:     "auto",
		Mouse:         true,
		ExitOnCtrlC:   true,
		EventBuffer:   DefaultEventBuffer,
	}
}

// LoadConfig reads a TOML file over DefaultConfig
// Durations are strings such as "50ms"; unknown keys are rejected
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%w: unknown key %q", ErrConfig, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges, the color mode name and key bindings
func (c Config) Validate() error {
	if c.EscapeTimeout < 0 {
		return fmt.Errorf("%w: escape_timeout %v is negative", ErrConfig, c.EscapeTimeout)
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("%w: frame_interval %v is negative", ErrConfig, c.FrameInterval)
	}
	if c.EventBuffer < 1 {
		return fmt.Errorf("%w: event_buffer must be at least 1, got %d", ErrConfig, c.EventBuffer)
	}
	if _, err := terminal.ParseColorMode(c.ColorMode); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := input.NewKeymap(c.Keys); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

// mouseMode maps the mouse flags to a reporting mode
func (c Config) mouseMode() terminal.MouseMode {
	mode := terminal.MouseModeNone
	if c.Mouse {
		mode |= terminal.MouseModeClick | terminal.MouseModeDrag
	}
	if c.MouseMotion {
		mode |= terminal.MouseModeMotion
	}
	return mode
}
