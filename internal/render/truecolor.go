package render

import (
	"fmt"
	"io"

	"github.com/AnyUserName/imcat/internal/raster"
)

// TrueColor paints one space per pixel using the background colour.
// Alpha is ignored.
type TrueColor struct{}

func (r *TrueColor) Mode() string    { return "truecolor" }
func (r *TrueColor) Available() bool { return true }

func (r *TrueColor) Rows(img *raster.Image) int { return img.Height }

func (r *TrueColor) Render(w io.Writer, img *raster.Image, _ Config) error {
	// "\x1b[48;2;255;255;255m " is at most 20 bytes.
	line := make([]byte, 0, img.Width*20+len(ResetAll)+1)
	for y := 0; y < img.Height; y++ {
		line = line[:0]
		row := img.Row(y)
		for i := 0; i < len(row); i += 4 {
			line = appendSGR(line, "48", RGB{row[i], row[i+1], row[i+2]})
			line = append(line, ' ')
		}
		line = append(line, ResetAll...)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", y, err)
		}
	}
	return nil
}
