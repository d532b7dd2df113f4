package pulse

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// View owns the presentable surface together with a depth attachment of the
// same size. Both are replaced together on every effective resize, the
// surface configuration and the depth attachment never disagree on their size.
type View struct {
	*Context

	surface       Surface
	surfaceConfig SurfaceConfig

	// depth texture to render to, same size as the surface
	depthTexture *Texture

	// incremented every time the depth texture is replaced
	generation uint64

	newDepthTexture func(width, height uint32) (*Texture, error)
}

// NewView selects the default configuration of the surface for the given size
// and allocates a depth attachment of identical size.
func NewView(ctx *Context, surface Surface, width, height uint32) (*View, error) {
	vs := &View{
		Context: ctx,
		surface: surface,
		newDepthTexture: func(width, height uint32) (*Texture, error) {
			return NewDepthTexture(ctx, width, height)
		},
	}

	if err := vs.init(width, height); err != nil {
		return nil, err
	}

	return vs, nil
}

func (vs *View) init(width, height uint32) error {
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}

	caps := vs.surface.Capabilities()
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	config, err := DefaultSurfaceConfig(caps, width, height)
	if err != nil {
		return err
	}

	vs.surfaceConfig = config

	if err := vs.configure(width, height); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}

	return nil
}

// Resize reconfigures the surface to the given size and replaces the depth
// attachment. Resizing to the current size does nothing.
func (vs *View) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}

	if vs.depthTexture != nil && vs.surfaceConfig.Width == width && vs.surfaceConfig.Height == height {
		return nil
	}

	slog.Debug("Resize surface",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
	)

	return vs.configure(width, height)
}

// Reconfigure applies the current configuration again and allocates a fresh
// depth attachment. Use this after the surface reported itself as outdated or lost.
func (vs *View) Reconfigure() error {
	slog.Debug("Reconfigure surface",
		slog.Int("width", int(vs.surfaceConfig.Width)),
		slog.Int("height", int(vs.surfaceConfig.Height)),
	)

	return vs.configure(vs.surfaceConfig.Width, vs.surfaceConfig.Height)
}

func (vs *View) configure(width, height uint32) error {
	// allocate the new depth texture first, on failure the
	// previous state stays untouched
	depthTexture, err := vs.newDepthTexture(width, height)
	if err != nil {
		return err
	}

	config := vs.surfaceConfig
	config.Width = width
	config.Height = height

	if err := vs.surface.Configure(config); err != nil {
		depthTexture.Release()
		return fmt.Errorf("configure surface %dx%d: %w", width, height, err)
	}

	previous := vs.depthTexture

	vs.surfaceConfig = config
	vs.depthTexture = depthTexture
	vs.generation++

	if previous != nil {
		previous.Release()
	}

	return nil
}

// Acquire requests the next destination texture from the surface.
// Errors are of type *AcquireError.
func (vs *View) Acquire() (*wgpu.Texture, error) {
	return vs.surface.Acquire()
}

func (vs *View) Present() {
	vs.surface.Present()
}

// Discard gives back a texture returned by Acquire that will not be presented.
func (vs *View) Discard(texture *wgpu.Texture) {
	vs.surface.Discard(texture)
}

// DepthView returns the view of the current depth attachment.
// It stays valid until the next call to Resize or Reconfigure.
func (vs *View) DepthView() *wgpu.TextureView {
	return vs.depthTexture.ToWGPUTextureView()
}

func (vs *View) DepthTexture() *Texture {
	return vs.depthTexture
}

func (vs *View) DepthSize() (uint32, uint32) {
	return vs.depthTexture.Width(), vs.depthTexture.Height()
}

func (vs *View) DepthFormat() wgpu.TextureFormat {
	return vs.depthTexture.Format()
}

// Config returns the active surface configuration.
func (vs *View) Config() SurfaceConfig {
	return vs.surfaceConfig
}

// Format returns the texture format of the surface.
func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

// Generation identifies the current depth attachment.
func (vs *View) Generation() uint64 {
	return vs.generation
}

func (vs *View) Release() {
	if vs.depthTexture != nil {
		vs.depthTexture.Release()
		vs.depthTexture = nil
	}

	if vs.surface != nil {
		vs.surface.Release()
		vs.surface = nil
	}
}
