package orion

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/cubic/pulse"
	"github.com/oliverbestmann/cubic/pulse/stage"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// frameView is the part of pulse.View the frame loop depends on.
type frameView interface {
	Acquire() (*wgpu.Texture, error)
	Reconfigure() error
	Discard(texture *wgpu.Texture)
	Present()
	Resize(width, height uint32) error
	Release()
}

// session holds everything that only exists while the application is active.
type session struct {
	view     frameView
	pipeline *stage.Pipeline
	overlay  Overlay
	clock    *FrameClock

	beginFrame func(destination *wgpu.Texture) (*pulse.Frame, error)

	// submit takes ownership of the buffers
	submit func(buffers []*wgpu.CommandBuffer)

	// releases buffers that will never be submitted
	releaseBuffers func(buffers []*wgpu.CommandBuffer)

	// runs before any resource is released
	capture func()

	// releases the resources that are not covered by the fields above
	close func()

	overlayEnabled bool

	// rendering is paused while the surface has a zero size
	paused bool

	// metrics of the previous frame
	metrics FrameMetrics

	now func() time.Time
}

// renderFrame produces and presents one frame, then waits for the frame clock.
func (s *session) renderFrame() error {
	start := s.now()

	destination, err := acquireWithRetry(s.view)
	if err != nil {
		return err
	}

	frame, err := s.beginFrame(destination)
	if err != nil {
		s.view.Discard(destination)
		return fmt.Errorf("begin frame: %w", err)
	}

	buffers, err := s.record(frame)
	if err != nil {
		frame.Discard()
		s.view.Discard(destination)

		if errors.Is(err, pulse.ErrStaleFrame) {
			slog.Warn("Drop frame, surface was resized while recording")
			return nil
		}

		return err
	}

	// frame first, everything the overlay produced afterward
	s.submit(buffers)

	renderTime := s.now().Sub(start)

	s.view.Present()

	s.clock.WaitNextFrame()

	s.metrics = FrameMetrics{
		DeltaTime:  float32(s.now().Sub(start).Seconds()),
		RenderTime: float32(renderTime.Seconds()),
	}

	return nil
}

func (s *session) record(frame *pulse.Frame) ([]*wgpu.CommandBuffer, error) {
	if err := s.pipeline.Render(frame); err != nil {
		return nil, err
	}

	var overlayBuffers []*wgpu.CommandBuffer

	if s.overlay != nil && s.overlayEnabled {
		var err error

		overlayBuffers, err = s.overlay.Render(frame, s.metrics)
		if err != nil {
			return nil, fmt.Errorf("render overlay: %w", err)
		}
	}

	buf, err := frame.Finish()
	if err != nil {
		s.releaseBuffers(overlayBuffers)
		return nil, err
	}

	return append([]*wgpu.CommandBuffer{buf}, overlayBuffers...), nil
}

func (s *session) resize(width, height uint32) error {
	if width == 0 || height == 0 {
		if !s.paused {
			slog.Info("Surface has zero size, pause rendering")
		}

		s.paused = true
		return nil
	}

	s.paused = false

	if err := s.view.Resize(width, height); err != nil {
		return fmt.Errorf("resize view to %dx%d: %w", width, height, err)
	}

	return nil
}

func (s *session) release() {
	if s.capture != nil {
		s.capture()
	}

	if s.overlay != nil {
		s.overlay.Release()
	}

	s.pipeline.Release()
	s.view.Release()

	if s.close != nil {
		s.close()
	}
}

// acquireWithRetry acquires the next destination texture. If the surface
// reports a recoverable condition it is reconfigured and acquired exactly once
// more. Every other failure ends the session.
func acquireWithRetry(view frameView) (*wgpu.Texture, error) {
	texture, err := view.Acquire()
	if err == nil {
		return texture, nil
	}

	var acquireErr *pulse.AcquireError
	if !errors.As(err, &acquireErr) || !acquireErr.Recoverable() {
		return nil, fmt.Errorf("acquire frame destination: %w", err)
	}

	slog.Warn("Surface texture not available, reconfigure surface",
		slog.String("status", acquireErr.Status.String()),
	)

	if err := view.Reconfigure(); err != nil {
		return nil, fmt.Errorf("reconfigure surface: %w", err)
	}

	texture, err = view.Acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire frame destination after reconfigure: %w", err)
	}

	return texture, nil
}
