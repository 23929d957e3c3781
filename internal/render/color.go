package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// ParseColor parses "#RRGGBB" (the leading '#' is optional).
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 {
		return RGB{}, fmt.Errorf("invalid colour %q: want #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend composites a premultiplied pixel over an opaque background using
// result = (c*255 + bg*(255-a)) / 255 per channel, clamped to 255.
// A fully transparent pixel carries no colour and yields bg.
func Blend(r, g, b, a uint8, bg RGB) RGB {
	if a == 0 {
		return bg
	}
	inv := 255 - uint32(a)
	return RGB{
		R: blendChannel(r, bg.R, inv),
		G: blendChannel(g, bg.G, inv),
		B: blendChannel(b, bg.B, inv),
	}
}

func blendChannel(c, bg uint8, inv uint32) uint8 {
	v := (uint32(c)*255 + uint32(bg)*inv) / 255
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// appendSGR appends "ESC[<sel>;2;R;G;Bm"; sel is 38 (fg) or 48 (bg).
func appendSGR(buf []byte, sel string, c RGB) []byte {
	buf = append(buf, "\x1b["...)
	buf = append(buf, sel...)
	buf = append(buf, ";2;"...)
	buf = strconv.AppendUint(buf, uint64(c.R), 10)
	buf = append(buf, ';')
	buf = strconv.AppendUint(buf, uint64(c.G), 10)
	buf = append(buf, ';')
	buf = strconv.AppendUint(buf, uint64(c.B), 10)
	return append(buf, 'm')
}
