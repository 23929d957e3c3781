//go:build !windows

package terminal

import "os"

// SupportsDoubleResolution reports whether the terminal can be trusted with
// the ▀ glyph and independent fg/bg colours.
func SupportsDoubleResolution() bool {
	return os.Getenv("TERM") != "dumb"
}
