package render

import (
	"fmt"
	"io"

	"github.com/AnyUserName/imcat/internal/raster"
)

// HalfBlock packs two image rows into each terminal row with ▀: the upper
// pixel is the foreground, the lower pixel the background. An odd final
// row is dropped.
type HalfBlock struct {
	// Supported reports terminal support; nil means supported.
	Supported func() bool
}

func (r *HalfBlock) Mode() string { return "halfblock" }

func (r *HalfBlock) Available() bool {
	return r.Supported == nil || r.Supported()
}

func (r *HalfBlock) Rows(img *raster.Image) int { return img.Height / 2 }

func (r *HalfBlock) Render(w io.Writer, img *raster.Image, cfg Config) error {
	// Two 19-byte SGRs plus a 3-byte glyph per cell.
	line := make([]byte, 0, img.Width*41+len(ResetAll)+1)
	for row := 0; row < img.Height/2; row++ {
		line = line[:0]
		upper := img.Row(row * 2)
		lower := img.Row(row*2 + 1)
		for i := 0; i < len(upper); i += 4 {
			fg := cellColor(upper[i:i+4], cfg)
			bg := cellColor(lower[i:i+4], cfg)
			line = appendSGR(line, "38", fg)
			line = appendSGR(line, "48", bg)
			line = append(line, UpperHalfBlock...)
		}
		line = append(line, ResetAll...)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	return nil
}

func cellColor(px []byte, cfg Config) RGB {
	if cfg.Blend {
		return Blend(px[0], px[1], px[2], px[3], cfg.Background)
	}
	return RGB{px[0], px[1], px[2]}
}
