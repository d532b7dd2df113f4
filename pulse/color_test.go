package pulse

import (
	"testing"

	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestColorSRGBA(t *testing.T) {
	assert.Equal(t, ColorWhite, ColorSRGBA(1, 1, 1, 1))
	assert.Equal(t, ColorBlack, ColorSRGBA(0, 0, 0, 1))

	gray := ColorSRGBA(0.5, 0.5, 0.5, 0.25)
	assert.InDelta(t, 0.214, gray[0], 0.001)
	assert.Equal(t, float32(0.25), gray.Alpha())
}

func TestColor_ToWGPU(t *testing.T) {
	color := ColorLinearRGBA(0.25, 0.5, 0.75, 1)
	assert.Equal(t, wgpu.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}, color.ToWGPU())
}

func TestColor_WithAlpha(t *testing.T) {
	color := ColorWhite.WithAlpha(0.5)
	assert.Equal(t, float32(0.5), color.Alpha())
	assert.Equal(t, float32(1), ColorWhite.Alpha())
}
