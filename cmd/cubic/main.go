package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/oliverbestmann/cubic/orion"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	headless   bool
	frames     int
	screenshot string
	logLevel   string
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:           "cubic",
		Short:         "Render frames paced to a fixed frame rate",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "config.toml", "path to the configuration file")
	flags.BoolVar(&opts.headless, "headless", false, "render offscreen without opening a window")
	flags.IntVar(&opts.frames, "frames", 60, "number of frames to render in headless mode")
	flags.StringVar(&opts.screenshot, "screenshot", "", "write the last frame to this png file (headless only)")
	flags.StringVar(&opts.logLevel, "log-level", "", "overrides log_level of the configuration")

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "cubic: %s\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	config, err := orion.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	if opts.logLevel != "" {
		config.LogLevel = opts.logLevel
	}

	level, err := config.SlogLevel()
	if err != nil {
		return &orion.ConfigError{Path: opts.configPath, Err: err}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: level})
	slog.SetDefault(slog.New(handler))

	if opts.frames <= 0 && opts.headless {
		return errors.New("--frames must be positive")
	}

	return orion.Run(orion.RunOptions{
		Config:     config,
		Headless:   opts.headless,
		Frames:     opts.frames,
		Screenshot: opts.screenshot,
	})
}
