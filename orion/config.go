package orion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/oliverbestmann/cubic/pulse"
	"github.com/pelletier/go-toml/v2"
)

// ConfigError is returned if the configuration can not be loaded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %s", e.Err)
	}

	return fmt.Sprintf("config %q: %s", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type Config struct {
	// window size in pixels
	Resolution [2]uint32 `toml:"resolution"`

	MaxFrameRate float64 `toml:"max_frame_rate"`

	Title    string `toml:"title"`
	Overlay  bool   `toml:"overlay"`
	LogLevel string `toml:"log_level"`

	// write a cpu profile to the working directory
	Profile bool `toml:"profile"`

	Clear ClearConfig `toml:"clear"`
}

type ClearConfig struct {
	// linear rgba
	Color [4]float32 `toml:"color"`
	Depth float32    `toml:"depth"`
}

func DefaultConfig() Config {
	return Config{
		Title:    "Cubic",
		Overlay:  true,
		LogLevel: "info",
		Clear: ClearConfig{
			Color: pulse.ColorWhite,
			Depth: 1.0,
		},
	}
}

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}

	config, err := ParseConfig(bytes.NewReader(buf))
	if err != nil {
		var configErr *ConfigError
		if errors.As(err, &configErr) {
			configErr.Path = path
		}

		return Config{}, err
	}

	return config, nil
}

// ParseConfig decodes a configuration in toml format. Fields that are not
// present keep their default value, unknown fields are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()

	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return Config{}, &ConfigError{Err: errors.New(strictErr.String())}
		}

		return Config{}, &ConfigError{Err: err}
	}

	if err := config.Validate(); err != nil {
		return Config{}, &ConfigError{Err: err}
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.Resolution[0] == 0 || c.Resolution[1] == 0 {
		return fmt.Errorf("resolution must be set and positive, got %dx%d", c.Resolution[0], c.Resolution[1])
	}

	if _, err := frameInterval(c.MaxFrameRate); err != nil {
		return fmt.Errorf("max_frame_rate %g: %w", c.MaxFrameRate, err)
	}

	if c.Clear.Depth < 0 || c.Clear.Depth > 1 {
		return fmt.Errorf("clear.depth must be within [0, 1], got %f", c.Clear.Depth)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}

// ClearColor is the color each frame starts with.
func (c Config) ClearColor() pulse.Color {
	return pulse.Color(c.Clear.Color)
}
