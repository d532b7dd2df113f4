package orion

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/cubic/glimpse"
	"github.com/pkg/profile"
)

type RunOptions struct {
	Config Config

	// render offscreen without opening a window
	Headless bool

	// number of frames to render in headless mode
	Frames int

	// write the last frame to this png file, headless only
	Screenshot string
}

// Run opens a window (or a headless one) and drives the application
// until the window is closed or a fatal error occurs.
func Run(opts RunOptions) error {
	config := opts.Config

	if err := config.Validate(); err != nil {
		return &ConfigError{Err: err}
	}

	if config.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	width, height := config.Resolution[0], config.Resolution[1]

	var win glimpse.Window
	var backend Backend

	if opts.Headless {
		win = glimpse.NewHeadlessWindow(width, height, opts.Frames)
		backend = HeadlessBackend
	} else {
		var err error

		win, err = glimpse.NewWindow(int(width), int(height), config.Title)
		if err != nil {
			return fmt.Errorf("create window: %w", err)
		}

		backend = WindowBackend(win)
	}

	defer win.Terminate()

	if opts.Screenshot != "" && !opts.Headless {
		slog.Warn("Screenshots are only written in headless mode")
	}

	app := NewApp(config, backend)
	app.screenshot = opts.Screenshot

	if err := win.Run(app); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	return nil
}
