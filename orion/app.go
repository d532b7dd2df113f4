package orion

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/cubic/glimpse"
	"github.com/oliverbestmann/cubic/pulse"
	"github.com/oliverbestmann/cubic/pulse/stage"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Backend opens a graphics device together with the surface to render to.
type Backend func() (*pulse.Context, pulse.Surface, error)

// WindowBackend renders into the given window.
func WindowBackend(win glimpse.Window) Backend {
	return func() (*pulse.Context, pulse.Surface, error) {
		ctx, err := pulse.New(win.SurfaceDescriptor())
		if err != nil {
			return nil, nil, err
		}

		return ctx, pulse.NewWindowSurface(ctx), nil
	}
}

// HeadlessBackend renders into an offscreen texture.
func HeadlessBackend() (*pulse.Context, pulse.Surface, error) {
	ctx, err := pulse.NewHeadless()
	if err != nil {
		return nil, nil, err
	}

	return ctx, pulse.NewTextureSurface(ctx), nil
}

// App drives the frame loop. It implements glimpse.Handler: graphics
// resources are created on activation and dropped on deactivation.
type App struct {
	config  Config
	backend Backend

	lifecycle Lifecycle
	session   *session

	// if set, the last frame rendered to an offscreen
	// surface is written to this file on deactivation
	screenshot string
}

func NewApp(config Config, backend Backend) *App {
	return &App{config: config, backend: backend}
}

func (a *App) Activated(width, height uint32) error {
	if err := a.lifecycle.Transition(Active); err != nil {
		return err
	}

	if width == 0 || height == 0 {
		slog.Info("Surface has zero size, start session once it is resized")
		return nil
	}

	return a.start(width, height)
}

// start creates the session for an active application.
func (a *App) start(width, height uint32) error {
	s, err := a.open(width, height)
	if err != nil {
		a.lifecycle = Inactive
		return err
	}

	// apply the current size once, resources are in a
	// consistent state from here on
	if err := s.resize(width, height); err != nil {
		s.release()
		a.lifecycle = Inactive
		return err
	}

	a.session = s

	return nil
}

func (a *App) Deactivated() {
	if err := a.lifecycle.Transition(Inactive); err != nil {
		slog.Warn("Ignore deactivation", slog.String("err", err.Error()))
		return
	}

	if a.session == nil {
		return
	}

	a.session.release()
	a.session = nil
}

func (a *App) Resized(width, height uint32) error {
	if a.session == nil {
		// activated with a zero size
		if a.lifecycle == Active && width > 0 && height > 0 {
			return a.start(width, height)
		}

		return nil
	}

	return a.session.resize(width, height)
}

func (a *App) Render(input glimpse.InputState) error {
	if input.KeyJustPressed(glimpse.KeyEscape) {
		return glimpse.ErrStop
	}

	s := a.session
	if s == nil {
		return nil
	}

	if input.KeyJustPressed(glimpse.KeyF3) && s.overlay != nil {
		s.overlayEnabled = !s.overlayEnabled
		slog.Info("Toggle overlay", slog.Bool("enabled", s.overlayEnabled))
	}

	if s.paused {
		return nil
	}

	if err := s.renderFrame(); err != nil {
		slog.Error("Failed to render frame", slog.String("err", err.Error()))
		return err
	}

	return nil
}

// Lifecycle returns the current activation state.
func (a *App) Lifecycle() Lifecycle {
	return a.lifecycle
}

func (a *App) open(width, height uint32) (s *session, err error) {
	var cleanup []func()

	defer func() {
		if err != nil {
			// release in reverse order of creation
			for idx := len(cleanup) - 1; idx >= 0; idx-- {
				cleanup[idx]()
			}
		}
	}()

	ctx, surface, err := a.backend()
	if err != nil {
		return nil, fmt.Errorf("open graphics device: %w", err)
	}

	cleanup = append(cleanup, ctx.Release, surface.Release)

	view, err := pulse.NewView(ctx, surface, width, height)
	if err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}

	cleanup = append(cleanup, view.Release)

	b := stage.NewBuilder(ctx)
	stage.Add(b, "clear", stage.NewClear, stage.ClearParams{
		Color: a.config.ClearColor(),
		Depth: a.config.Clear.Depth,
	})

	pipeline, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build stage pipeline: %w", err)
	}

	cleanup = append(cleanup, pipeline.Release)

	clock, err := NewFrameClock(a.config.MaxFrameRate)
	if err != nil {
		return nil, err
	}

	overlay, err := NewDebugOverlay(ctx, clock.Interval())
	if err != nil {
		return nil, fmt.Errorf("create overlay: %w", err)
	}

	slog.Info("Session started",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Any("format", view.Format()),
		slog.Duration("interval", clock.Interval()),
		slog.Int("stages", pipeline.Len()),
	)

	s = &session{
		view:     view,
		pipeline: pipeline,
		overlay:  overlay,
		clock:    clock,

		beginFrame: func(destination *wgpu.Texture) (*pulse.Frame, error) {
			return pulse.BeginFrame(view, destination)
		},

		submit: func(buffers []*wgpu.CommandBuffer) {
			ctx.Submit(buffers...)
			releaseCommandBuffers(buffers)
		},

		releaseBuffers: releaseCommandBuffers,

		// the view releases the surface
		close: ctx.Release,

		overlayEnabled: a.config.Overlay,
		now:            time.Now,
	}

	if a.screenshot != "" {
		s.capture = func() { a.writeScreenshot(ctx, surface) }
	}

	return s, nil
}

func (a *App) writeScreenshot(ctx *pulse.Context, surface pulse.Surface) {
	offscreen, ok := surface.(*pulse.TextureSurface)
	if !ok {
		slog.Warn("Screenshots are only supported for offscreen rendering")
		return
	}

	if err := WriteScreenshot(ctx, offscreen.Texture(), a.screenshot); err != nil {
		slog.Error("Failed to write screenshot", slog.String("err", err.Error()))
		return
	}

	slog.Info("Screenshot written", slog.String("path", a.screenshot))
}

func releaseCommandBuffers(buffers []*wgpu.CommandBuffer) {
	for _, buf := range buffers {
		buf.Release()
	}
}
