package orion

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oliverbestmann/cubic/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Minimal(t *testing.T) {
	config, err := ParseConfig(strings.NewReader(`
resolution = [800, 600]
max_frame_rate = 60.0
`))

	require.NoError(t, err)

	assert.Equal(t, [2]uint32{800, 600}, config.Resolution)
	assert.Equal(t, 60.0, config.MaxFrameRate)

	// defaults
	assert.Equal(t, "Cubic", config.Title)
	assert.True(t, config.Overlay)
	assert.Equal(t, pulse.ColorWhite, config.ClearColor())
	assert.Equal(t, float32(1.0), config.Clear.Depth)

	level, err := config.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestParseConfig_Full(t *testing.T) {
	config, err := ParseConfig(strings.NewReader(`
resolution = [1920, 1080]
max_frame_rate = 144.0
title = "Test"
overlay = false
log_level = "debug"
profile = true

[clear]
color = [0.0, 0.5, 1.0, 1.0]
depth = 0.5
`))

	require.NoError(t, err)

	assert.Equal(t, Config{
		Resolution:   [2]uint32{1920, 1080},
		MaxFrameRate: 144,
		Title:        "Test",
		Overlay:      false,
		LogLevel:     "debug",
		Profile:      true,
		Clear: ClearConfig{
			Color: [4]float32{0, 0.5, 1, 1},
			Depth: 0.5,
		},
	}, config)
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing resolution":     `max_frame_rate = 60.0`,
		"missing frame rate":     `resolution = [800, 600]`,
		"zero width":             "resolution = [0, 600]\nmax_frame_rate = 60.0",
		"negative frame rate":    "resolution = [800, 600]\nmax_frame_rate = -1.0",
		"frame rate too high":    "resolution = [800, 600]\nmax_frame_rate = 2e9",
		"unknown field":          "resolution = [800, 600]\nmax_frame_rate = 60.0\nvsync = true",
		"wrong type":             "resolution = \"800x600\"\nmax_frame_rate = 60.0",
		"depth out of range":     "resolution = [800, 600]\nmax_frame_rate = 60.0\n[clear]\ndepth = 2.0",
		"unknown log level":      "resolution = [800, 600]\nmax_frame_rate = 60.0\nlog_level = \"loud\"",
		"malformed toml":         "resolution = [800, 600",
		"unknown field in table": "resolution = [800, 600]\nmax_frame_rate = 60.0\n[clear]\nstencil = 0",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(input))

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("resolution = [640, 480]\nmax_frame_rate = 30.0\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, [2]uint32{640, 480}, config.Resolution)
}

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := LoadConfig(path)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, path, configErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadConfig_InvalidKeepsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("resolution = [640, 480]\n"), 0o644))

	_, err := LoadConfig(path)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, path, configErr.Path)
	assert.Contains(t, err.Error(), "max_frame_rate")
}
