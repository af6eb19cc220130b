package render

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// writeImage encodes the framebuffer and writes it to path. The encoder is
// selected by file extension (.png, .bmp, .tif/.tiff; anything else encodes
// as PNG). The image is written to a temporary file in the target directory
// and renamed into place, so a failed render never leaves a half-written
// file at path.
func writeImage(fb *Framebuffer, path string) error {
	img := fb.ToImage()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".meshview-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		err = bmp.Encode(tmp, img)
	case ".tif", ".tiff":
		err = tiff.Encode(tmp, img, nil)
	default:
		err = png.Encode(tmp, img)
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding image: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing image: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
