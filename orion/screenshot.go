package orion

import (
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/oliverbestmann/cubic/pulse"
)

// WriteScreenshot reads back the content of texture and writes it to path as png.
func WriteScreenshot(ctx *pulse.Context, texture *pulse.Texture, path string) error {
	if texture == nil {
		return errors.New("nothing rendered yet")
	}

	img, err := pulse.ReadImage(ctx, texture)
	if err != nil {
		return fmt.Errorf("read texture: %w", err)
	}

	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}

	defer fp.Close()

	if err := png.Encode(fp, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	return fp.Close()
}
