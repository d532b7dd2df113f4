package pulse

import (
	"errors"
	"testing"

	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	caps       SurfaceCapabilities
	configs    []SurfaceConfig
	failConfig error

	acquireErrs []error
	acquired    int
	presented   int
	discarded   int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		caps: SurfaceCapabilities{
			Formats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8Unorm},
			PresentModes: []wgpu.PresentMode{wgpu.PresentModeMailbox, wgpu.PresentModeFifo},
			AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
		},
	}
}

func (s *fakeSurface) Capabilities() SurfaceCapabilities {
	return s.caps
}

func (s *fakeSurface) Configure(config SurfaceConfig) error {
	if s.failConfig != nil {
		return s.failConfig
	}

	s.configs = append(s.configs, config)
	return nil
}

func (s *fakeSurface) Acquire() (*wgpu.Texture, error) {
	s.acquired++

	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]

		if err != nil {
			return nil, err
		}
	}

	return &wgpu.Texture{}, nil
}

func (s *fakeSurface) Present() {
	s.presented++
}

func (s *fakeSurface) Discard(texture *wgpu.Texture) {
	s.discarded++
}

func (s *fakeSurface) Release() {
}

type depthAllocator struct {
	allocated []*Texture
	fail      error
}

func (a *depthAllocator) allocate(width, height uint32) (*Texture, error) {
	if a.fail != nil {
		return nil, a.fail
	}

	texture := &Texture{format: DepthFormat, width: width, height: height}
	a.allocated = append(a.allocated, texture)
	return texture, nil
}

func newTestView(t *testing.T, surface Surface, width, height uint32) (*View, *depthAllocator) {
	t.Helper()

	alloc := &depthAllocator{}

	view := &View{
		Context:         &Context{},
		surface:         surface,
		newDepthTexture: alloc.allocate,
	}

	require.NoError(t, view.init(width, height))

	return view, alloc
}

func requireConsistent(t *testing.T, view *View, width, height uint32) {
	t.Helper()

	config := view.Config()
	require.Equal(t, width, config.Width)
	require.Equal(t, height, config.Height)

	depthWidth, depthHeight := view.DepthSize()
	require.Equal(t, width, depthWidth)
	require.Equal(t, height, depthHeight)

	require.Equal(t, DepthFormat, view.DepthFormat())
}

func TestNewView_DefaultConfig(t *testing.T) {
	surface := newFakeSurface()
	view, _ := newTestView(t, surface, 800, 600)

	config := view.Config()
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, config.Format)
	assert.Equal(t, wgpu.PresentModeFifo, config.PresentMode)
	assert.Equal(t, wgpu.CompositeAlphaModeOpaque, config.AlphaMode)
	assert.Equal(t, wgpu.TextureUsageRenderAttachment, config.Usage)

	requireConsistent(t, view, 800, 600)

	require.Len(t, surface.configs, 1)
	assert.Equal(t, config, surface.configs[0])
	assert.EqualValues(t, 1, view.Generation())
}

func TestNewView_NoFormats(t *testing.T) {
	surface := newFakeSurface()
	surface.caps.Formats = nil

	view := &View{Context: &Context{}, surface: surface, newDepthTexture: (&depthAllocator{}).allocate}

	err := view.init(800, 600)
	require.ErrorIs(t, err, ErrSurfaceConfigUnavailable)
	assert.Empty(t, surface.configs)
}

func TestNewView_ZeroSize(t *testing.T) {
	view := &View{Context: &Context{}, surface: newFakeSurface(), newDepthTexture: (&depthAllocator{}).allocate}
	require.ErrorIs(t, view.init(0, 600), ErrInvalidSize)
}

func TestView_ResizeKeepsDepthAndSurfaceConsistent(t *testing.T) {
	view, _ := newTestView(t, newFakeSurface(), 800, 600)

	sizes := [][2]uint32{{1024, 768}, {1, 1}, {1920, 1080}, {640, 480}, {800, 600}}
	for _, size := range sizes {
		require.NoError(t, view.Resize(size[0], size[1]))
		requireConsistent(t, view, size[0], size[1])
	}
}

func TestView_ResizeReusesConfig(t *testing.T) {
	view, _ := newTestView(t, newFakeSurface(), 800, 600)
	before := view.Config()

	require.NoError(t, view.Resize(1024, 768))

	after := view.Config()
	assert.Equal(t, before.Format, after.Format)
	assert.Equal(t, before.PresentMode, after.PresentMode)
	assert.Equal(t, before.AlphaMode, after.AlphaMode)
	assert.Equal(t, before.Usage, after.Usage)
}

func TestView_ResizeIsIdempotent(t *testing.T) {
	surface := newFakeSurface()
	view, alloc := newTestView(t, surface, 800, 600)

	require.NoError(t, view.Resize(1024, 768))
	config := view.Config()
	generation := view.Generation()
	depth := view.DepthTexture()

	require.NoError(t, view.Resize(1024, 768))

	assert.True(t, config == view.Config())
	assert.Equal(t, generation, view.Generation())
	assert.Same(t, depth, view.DepthTexture())
	assert.Len(t, alloc.allocated, 2)
	assert.Len(t, surface.configs, 2)
}

func TestView_ResizeZeroSize(t *testing.T) {
	view, _ := newTestView(t, newFakeSurface(), 800, 600)
	generation := view.Generation()

	require.ErrorIs(t, view.Resize(0, 600), ErrInvalidSize)
	require.ErrorIs(t, view.Resize(800, 0), ErrInvalidSize)

	requireConsistent(t, view, 800, 600)
	assert.Equal(t, generation, view.Generation())
}

func TestView_ResizeFailedAllocationKeepsState(t *testing.T) {
	surface := newFakeSurface()
	view, alloc := newTestView(t, surface, 800, 600)

	config := view.Config()
	depth := view.DepthTexture()
	generation := view.Generation()

	errOOM := errors.New("out of memory")
	alloc.fail = errOOM

	require.ErrorIs(t, view.Resize(4096, 4096), errOOM)

	assert.Equal(t, config, view.Config())
	assert.Same(t, depth, view.DepthTexture())
	assert.Equal(t, generation, view.Generation())
	assert.Len(t, surface.configs, 1)

	requireConsistent(t, view, 800, 600)
}

func TestView_ResizeFailedConfigureKeepsState(t *testing.T) {
	surface := newFakeSurface()
	view, alloc := newTestView(t, surface, 800, 600)

	depth := view.DepthTexture()

	errConfigure := errors.New("configure failed")
	surface.failConfig = errConfigure

	require.ErrorIs(t, view.Resize(1024, 768), errConfigure)

	assert.Same(t, depth, view.DepthTexture())
	requireConsistent(t, view, 800, 600)

	// the texture allocated for the failed resize was given back
	require.Len(t, alloc.allocated, 2)
	assert.Nil(t, alloc.allocated[1].ToWGPUTextureView())
}

func TestView_ReconfigureReplacesDepth(t *testing.T) {
	surface := newFakeSurface()
	view, _ := newTestView(t, surface, 800, 600)

	depth := view.DepthTexture()
	generation := view.Generation()

	require.NoError(t, view.Reconfigure())

	assert.NotSame(t, depth, view.DepthTexture())
	assert.Equal(t, generation+1, view.Generation())
	requireConsistent(t, view, 800, 600)
	assert.Len(t, surface.configs, 2)
}

func TestView_GenerationIncreasesOnEffectiveResize(t *testing.T) {
	view, _ := newTestView(t, newFakeSurface(), 800, 600)

	for idx := range 10 {
		generation := view.Generation()
		require.NoError(t, view.Resize(uint32(100+idx), 100))
		assert.Equal(t, generation+1, view.Generation())
	}
}
