// Package inspect reads image pixel dimensions without keeping decoded
// pixel data in memory.
package inspect

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/miokari/smartppt/internal/layout"
)

// Inspect decodes only the header of the image at path and returns its
// record. The file is closed before returning, so at most one image is
// open per caller at any time. Any read or decode failure means the
// file is not treated as an image.
func Inspect(path string) (layout.ImageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return layout.ImageRecord{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return layout.ImageRecord{}, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return layout.ImageRecord{}, fmt.Errorf("image %s has invalid dimensions %dx%d", filepath.Base(path), cfg.Width, cfg.Height)
	}

	return layout.ImageRecord{
		Path:     path,
		Filename: filepath.Base(path),
		Width:    cfg.Width,
		Height:   cfg.Height,
		Ratio:    float64(cfg.Width) / float64(cfg.Height),
	}, nil
}
