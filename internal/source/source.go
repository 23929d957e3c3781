// Package source locates image files and decodes them into raster images.
// Supported formats are whatever image.Decode has registered: gif, jpeg and
// png from the standard library plus bmp, tiff and webp from x/image.
package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/AnyUserName/imcat/internal/raster"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source is one input image.
type Source struct {
	// Path is the file path as given or as found under a directory.
	Path string
	// Key is a display name: the argument itself, or the path relative to
	// the directory argument it was found in.
	Key string
	// Format is the extension-derived format (png, jpeg, webp, ...).
	Format string
	// Size is the file size in bytes, 0 if unknown.
	Size int64
}

// Read loads the raw file bytes.
func Read(src Source) ([]byte, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Key, err)
	}
	return data, nil
}

// Decode decodes data into a straight-alpha raster, applying any EXIF
// orientation. It also returns the format name reported by the decoder.
func Decode(data []byte) (*raster.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	m := raster.FromImage(img)
	if err := m.Validate(); err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	return m, format, nil
}
