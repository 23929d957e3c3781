// Package render turns a resampled RGBA grid into lines of ANSI 24-bit
// colour escapes.
package render

import (
	"io"

	"github.com/AnyUserName/imcat/internal/raster"
)

const (
	// ResetAll clears every SGR attribute; each emitted line ends with it.
	ResetAll = "\x1b[0m"

	// UpperHalfBlock paints its top half in the foreground colour and the
	// bottom half in the background colour.
	UpperHalfBlock = "▀"
)

// Renderer writes an image to a text sink, one terminal row at a time.
type Renderer interface {
	// Mode returns the renderer name ("truecolor", "halfblock").
	Mode() string

	// Render streams img to w. The first write error is returned as is,
	// wrapped with the row that failed.
	Render(w io.Writer, img *raster.Image, cfg Config) error

	// Available reports whether the terminal can display this mode.
	Available() bool

	// Rows returns how many terminal rows img occupies in this mode.
	Rows(img *raster.Image) int
}

// Config is fixed for a whole run.
type Config struct {
	DoubleResolution bool
	Blend            bool
	Background       RGB
}
