package pulse

import (
	"errors"
	"reflect"
	"strings"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// SurfaceConfig describes how a Surface is configured. The value is
// comparable, two configurations are identical if they compare equal.
type SurfaceConfig struct {
	Format      wgpu.TextureFormat
	PresentMode wgpu.PresentMode
	AlphaMode   wgpu.CompositeAlphaMode
	Usage       wgpu.TextureUsage
	Width       uint32
	Height      uint32
}

type SurfaceCapabilities struct {
	Formats      []wgpu.TextureFormat
	PresentModes []wgpu.PresentMode
	AlphaModes   []wgpu.CompositeAlphaMode
}

// Surface is something that hands out a new destination texture every frame
// and can be presented afterward. This is either the window or an offscreen texture.
type Surface interface {
	Capabilities() SurfaceCapabilities
	Configure(config SurfaceConfig) error
	Acquire() (*wgpu.Texture, error)
	Present()

	// Discard gives back an acquired texture that will not be presented.
	Discard(texture *wgpu.Texture)

	Release()
}

// DefaultSurfaceConfig picks the default configuration for the given size:
// the preferred format, fifo presentation and the first supported alpha mode.
func DefaultSurfaceConfig(caps SurfaceCapabilities, width, height uint32) (SurfaceConfig, error) {
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return SurfaceConfig{}, ErrSurfaceConfigUnavailable
	}

	return SurfaceConfig{
		Format:      caps.Formats[0],
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
		Usage:       wgpu.TextureUsageRenderAttachment,
		Width:       width,
		Height:      height,
	}, nil
}

type windowSurface struct {
	ctx *Context
}

// NewWindowSurface returns the Surface of the window the context
// was created for.
func NewWindowSurface(ctx *Context) Surface {
	if ctx.Surface == nil {
		panic("context has no window surface")
	}

	return &windowSurface{ctx: ctx}
}

func (w *windowSurface) Capabilities() SurfaceCapabilities {
	caps := w.ctx.Surface.GetCapabilities(w.ctx.Adapter)

	return SurfaceCapabilities{
		Formats:      caps.Formats,
		PresentModes: caps.PresentModes,
		AlphaModes:   caps.AlphaModes,
	}
}

func (w *windowSurface) Configure(config SurfaceConfig) error {
	w.ctx.Surface.Configure(w.ctx.Device, &wgpu.SurfaceConfiguration{
		Usage:       config.Usage,
		Format:      config.Format,
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: config.PresentMode,
		AlphaMode:   config.AlphaMode,
	})

	return nil
}

func (w *windowSurface) Acquire() (*wgpu.Texture, error) {
	return checkSurfaceTexture(w.ctx.Surface.GetCurrentTexture())
}

func (w *windowSurface) Present() {
	w.ctx.Surface.Present()
}

func (w *windowSurface) Discard(texture *wgpu.Texture) {
	texture.Release()
}

func (w *windowSurface) Release() {
	// the surface itself is owned by the Context
}

// checkSurfaceTexture turns the result of Surface.GetCurrentTexture into
// the result of Surface.Acquire. The binding does not forward the status of
// the surface texture: an outdated, lost or timed out surface yields a
// texture without a native handle and no error. That case is reported as
// AcquireOutdated, so the surface gets reconfigured.
func checkSurfaceTexture(texture *wgpu.Texture, err error) (*wgpu.Texture, error) {
	if err != nil {
		return nil, &AcquireError{Status: classifyAcquireError(err), Err: err}
	}

	if texture == nil || !hasNativeHandle(texture) {
		return nil, &AcquireError{Status: AcquireOutdated, Err: ErrNoSurfaceTexture}
	}

	return texture, nil
}

// hasNativeHandle reports whether a native texture has a non-null handle.
// Textures of the js binding are always valid.
func hasNativeHandle(texture *wgpu.Texture) bool {
	ref := reflect.ValueOf(texture).Elem().FieldByName("ref")
	if !ref.IsValid() || ref.Kind() != reflect.Pointer {
		return true
	}

	return !ref.IsNil()
}

// classifyAcquireError maps the error returned by the native surface to an
// AcquireStatus. Errors are only reported by message, unknown failures
// are treated as fatal.
func classifyAcquireError(err error) AcquireStatus {
	var acquireErr *AcquireError
	if errors.As(err, &acquireErr) {
		return acquireErr.Status
	}

	msg := strings.ToLower(strings.ReplaceAll(err.Error(), "_", ""))
	msg = strings.ReplaceAll(msg, " ", "")

	switch {
	case strings.Contains(msg, "devicelost"):
		return AcquireDeviceLost
	case strings.Contains(msg, "outofmemory"):
		return AcquireOutOfMemory
	case strings.Contains(msg, "outdated"):
		return AcquireOutdated
	case strings.Contains(msg, "lost"):
		return AcquireLost
	case strings.Contains(msg, "timeout"):
		return AcquireTimeout
	default:
		return AcquireDeviceLost
	}
}
