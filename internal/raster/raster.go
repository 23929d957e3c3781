// Package raster holds the flat RGBA buffer that travels between the decoder,
// the resampler and the renderers.
//
// Pixel layout is row-major, four bytes per pixel (R, G, B, A). Decoded source
// images carry straight (non-premultiplied) colour; the resampler may hand
// back premultiplied colour depending on its alpha policy.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrBufferSize reports a pixel buffer whose length disagrees with its
// declared dimensions.
var ErrBufferSize = errors.New("raster: buffer length does not match dimensions")

// Image is a decoded or resampled RGBA grid.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed w×h image.
func New(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

// Validate checks that dimensions are positive and Pix holds exactly
// Width*Height*4 bytes.
func (m *Image) Validate() error {
	if m == nil {
		return errors.New("raster: nil image")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("raster: invalid dimensions %dx%d", m.Width, m.Height)
	}
	if want := m.Width * m.Height * 4; len(m.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d",
			ErrBufferSize, m.Width, m.Height, want, len(m.Pix))
	}
	return nil
}

// Offset returns the index of pixel (x, y) in Pix.
func (m *Image) Offset(x, y int) int {
	return (y*m.Width + x) * 4
}

// At returns the four channels of pixel (x, y).
func (m *Image) At(x, y int) (r, g, b, a uint8) {
	i := m.Offset(x, y)
	p := m.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// Set stores the four channels of pixel (x, y).
func (m *Image) Set(x, y int, r, g, b, a uint8) {
	i := m.Offset(x, y)
	p := m.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = r, g, b, a
}

// Row returns the bytes of row y.
func (m *Image) Row(y int) []byte {
	stride := m.Width * 4
	return m.Pix[y*stride : (y+1)*stride]
}

// HasAlpha reports whether any pixel is less than fully opaque.
func (m *Image) HasAlpha() bool {
	for i := 3; i < len(m.Pix); i += 4 {
		if m.Pix[i] < 255 {
			return true
		}
	}
	return false
}

// AvgColor returns the unweighted mean RGB of the image.
func (m *Image) AvgColor() [3]uint8 {
	n := uint64(m.Width * m.Height)
	if n == 0 {
		return [3]uint8{}
	}
	var r, g, b uint64
	for i := 0; i+3 < len(m.Pix); i += 4 {
		r += uint64(m.Pix[i])
		g += uint64(m.Pix[i+1])
		b += uint64(m.Pix[i+2])
	}
	return [3]uint8{uint8(r / n), uint8(g / n), uint8(b / n)}
}

// NRGBA wraps the buffer as an *image.NRGBA without copying. Only meaningful
// for straight-alpha buffers.
func (m *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// FromImage converts any image.Image into a straight-alpha RGBA buffer.
// Common decoder outputs take a direct path; everything else goes through
// image.At.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := New(w, h)
	if w <= 0 || h <= 0 {
		return out
	}
	dst := out.Pix

	switch src := img.(type) {
	case *image.NRGBA:
		bY := bounds.Min.Y - src.Rect.Min.Y
		bX4 := (bounds.Min.X - src.Rect.Min.X) * 4
		for y := 0; y < h; y++ {
			off := (bY+y)*src.Stride + bX4
			copy(dst[y*w*4:(y+1)*w*4], src.Pix[off:off+w*4])
		}
	case *image.RGBA:
		// Premultiplied: divide colour back out by alpha.
		bY := bounds.Min.Y - src.Rect.Min.Y
		bX4 := (bounds.Min.X - src.Rect.Min.X) * 4
		di := 0
		for y := 0; y < h; y++ {
			off := (bY+y)*src.Stride + bX4
			for x := 0; x < w; x++ {
				a := uint32(src.Pix[off+3])
				switch a {
				case 0:
				case 255:
					dst[di] = src.Pix[off]
					dst[di+1] = src.Pix[off+1]
					dst[di+2] = src.Pix[off+2]
				default:
					dst[di] = uint8(uint32(src.Pix[off]) * 255 / a)
					dst[di+1] = uint8(uint32(src.Pix[off+1]) * 255 / a)
					dst[di+2] = uint8(uint32(src.Pix[off+2]) * 255 / a)
				}
				dst[di+3] = uint8(a)
				off += 4
				di += 4
			}
		}
	case *image.Gray:
		bY := bounds.Min.Y - src.Rect.Min.Y
		bX := bounds.Min.X - src.Rect.Min.X
		di := 0
		for y := 0; y < h; y++ {
			off := (bY+y)*src.Stride + bX
			for x := 0; x < w; x++ {
				v := src.Pix[off]
				dst[di], dst[di+1], dst[di+2], dst[di+3] = v, v, v, 255
				off++
				di += 4
			}
		}
	case *image.YCbCr:
		di := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				yi := src.YOffset(x, y)
				ci := src.COffset(x, y)
				r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				dst[di], dst[di+1], dst[di+2], dst[di+3] = r, g, b, 255
				di += 4
			}
		}
	default:
		di := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				dst[di], dst[di+1], dst[di+2], dst[di+3] = c.R, c.G, c.B, c.A
				di += 4
			}
		}
	}
	return out
}
