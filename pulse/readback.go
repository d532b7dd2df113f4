package pulse

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// rows of a texture to buffer copy must be aligned to this many bytes
const copyBytesPerRowAlignment = 256

// ReadImage copies the content of a color texture back to host memory.
// Only 8 bit rgba and bgra formats are supported.
func ReadImage(ctx *Context, texture *Texture) (*image.RGBA, error) {
	var swapRedBlue bool

	switch texture.Format() {
	case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb:
	case wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb:
		swapRedBlue = true
	default:
		return nil, fmt.Errorf("unsupported texture format for readback: %s", texture.Format())
	}

	pixels, err := readTexture(ctx, texture, 4)
	if err != nil {
		return nil, err
	}

	if swapRedBlue {
		for idx := 0; idx < len(pixels); idx += 4 {
			pixels[idx], pixels[idx+2] = pixels[idx+2], pixels[idx]
		}
	}

	img := &image.RGBA{
		Pix:    pixels,
		Stride: int(texture.Width()) * 4,
		Rect:   image.Rect(0, 0, int(texture.Width()), int(texture.Height())),
	}

	return img, nil
}

// ReadDepth copies the content of a depth texture back to host memory.
// Values are returned row by row. The depth texture must have been created
// with TextureBinding usage, as NewDepthTexture does.
func ReadDepth(ctx *Context, texture *Texture) ([]float32, error) {
	if texture.Format() != wgpu.TextureFormatDepth32Float {
		return nil, fmt.Errorf("unsupported depth format for readback: %s", texture.Format())
	}

	resolved, err := resolveDepth(ctx, texture)
	if err != nil {
		return nil, fmt.Errorf("resolve depth: %w", err)
	}

	defer resolved.Release()

	raw, err := readTexture(ctx, resolved, 4)
	if err != nil {
		return nil, err
	}

	values := make([]float32, len(raw)/4)
	for idx := range values {
		values[idx] = math.Float32frombits(binary.LittleEndian.Uint32(raw[idx*4:]))
	}

	return values, nil
}

func readTexture(ctx *Context, texture *Texture, bytesPerPixel uint32) ([]byte, error) {
	width, height := texture.Width(), texture.Height()

	unpaddedBytesPerRow := width * bytesPerPixel
	bytesPerRow := alignUp(unpaddedBytesPerRow, copyBytesPerRowAlignment)
	size := uint64(bytesPerRow) * uint64(height)

	buffer, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Readback",
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		Size:  size,
	})

	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}

	defer buffer.Release()

	encoder, err := ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Readback"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	err = encoder.CopyTextureToBuffer(
		&wgpu.TexelCopyTextureInfo{
			Texture:  texture.ToWGPUTexture(),
			MipLevel: 0,
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.TexelCopyBufferInfo{
			Layout: wgpu.TexelCopyBufferLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: height,
			},
			Buffer: buffer,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("copy texture to buffer: %w", err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish readback: %w", err)
	}

	defer cmdBuffer.Release()

	ctx.Submit(cmdBuffer)

	var status wgpu.MapAsyncStatus
	err = buffer.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.MapAsyncStatus) {
		status = s
	})

	if err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}

	// wait for the copy and the mapping to complete
	ctx.Poll(true, nil)

	if status != wgpu.MapAsyncStatusSuccess {
		return nil, errors.New("map readback buffer was not successful")
	}

	defer buffer.Unmap()

	mapped := buffer.GetMappedRange(0, uint(size))

	// remove row padding
	result := make([]byte, unpaddedBytesPerRow*height)
	for row := range height {
		src := mapped[row*bytesPerRow : row*bytesPerRow+unpaddedBytesPerRow]
		copy(result[row*unpaddedBytesPerRow:], src)
	}

	return result, nil
}

func alignUp(value, alignment uint32) uint32 {
	return (value + alignment - 1) / alignment * alignment
}
