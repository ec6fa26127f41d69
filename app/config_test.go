package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termrender/terminal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termrender.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, terminal.DefaultEscapeTimeout, cfg.EscapeTimeout)
	assert.True(t, cfg.ExitOnCtrlC)
	assert.Equal(t, terminal.MouseModeClick|terminal.MouseModeDrag, cfg.mouseMode())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
escape_timeout = "25ms"
frame_interval = "0s"
color_mode = "256"
mouse = false
exit_on_ctrl_c = false

[keys]
"ctrl+s" = "save"
q = "quit"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 25*time.Millisecond, cfg.EscapeTimeout)
	assert.Equal(t, time.Duration(0), cfg.FrameInterval)
	assert.Equal(t, "256", cfg.ColorMode)
	assert.False(t, cfg.ExitOnCtrlC)
	assert.Equal(t, terminal.MouseModeNone, cfg.mouseMode())
	// Unset keys keep their defaults
	assert.Equal(t, DefaultEventBuffer, cfg.EventBuffer)
	assert.Equal(t, "save", cfg.Keys["ctrl+s"])
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", `colour = "256"`},
		{"bad duration", `escape_timeout = "soon"`},
		{"negative interval", `frame_interval = "-1s"`},
		{"bad color", `color_mode = "sepia"`},
		{"bad chord", "[keys]\n\"hyper+x\" = \"quit\""},
		{"syntax", `mouse = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
