package pulse

import (
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// TextureFormatOffscreen is the format offscreen surfaces render to.
const TextureFormatOffscreen = wgpu.TextureFormatRGBA8Unorm

// TextureSurface is an offscreen Surface backed by a single texture.
// It behaves like a window surface that never becomes outdated.
type TextureSurface struct {
	ctx     *Context
	texture *Texture
}

func NewTextureSurface(ctx *Context) *TextureSurface {
	return &TextureSurface{ctx: ctx}
}

func (s *TextureSurface) Capabilities() SurfaceCapabilities {
	return SurfaceCapabilities{
		Formats:      []wgpu.TextureFormat{TextureFormatOffscreen},
		PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo},
		AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
	}
}

func (s *TextureSurface) Configure(config SurfaceConfig) error {
	texture, err := NewTexture(s.ctx, NewTextureOptions{
		Label:  "OffscreenSurface",
		Format: config.Format,
		Width:  config.Width,
		Height: config.Height,
		Usage:  config.Usage | wgpu.TextureUsageCopySrc,
	})

	if err != nil {
		return fmt.Errorf("create offscreen texture: %w", err)
	}

	if s.texture != nil {
		s.texture.Release()
	}

	s.texture = texture

	return nil
}

func (s *TextureSurface) Acquire() (*wgpu.Texture, error) {
	if s.texture == nil {
		return nil, &AcquireError{Status: AcquireOutdated}
	}

	return s.texture.ToWGPUTexture(), nil
}

func (s *TextureSurface) Present() {
	// nothing to present
}

func (s *TextureSurface) Discard(texture *wgpu.Texture) {
	// the texture is reused for the next frame
}

// Texture returns the texture the surface currently renders to.
func (s *TextureSurface) Texture() *Texture {
	return s.texture
}

func (s *TextureSurface) Release() {
	if s.texture != nil {
		s.texture.Release()
		s.texture = nil
	}
}
