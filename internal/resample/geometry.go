package resample

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateGeometry is wrapped by every *GeometryError.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// GeometryError describes a source or target size that cannot be resampled.
type GeometryError struct {
	SrcWidth, SrcHeight int
	OutWidth, OutHeight int
	Reason              string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: %s (source %dx%d, output %dx%d)",
		ErrDegenerateGeometry, e.Reason, e.SrcWidth, e.SrcHeight, e.OutWidth, e.OutHeight)
}

func (e *GeometryError) Unwrap() error { return ErrDegenerateGeometry }

// OutputSpec is the caller's sizing request. Width and Height are explicit
// targets (0 = unset; Width wins when both are set). Columns bounds the
// derived width when neither is set. Rows is carried for completeness; no
// sizing decision depends on it.
type OutputSpec struct {
	Width   int
	Height  int
	Columns int
	Rows    int
}

// Geometry is the resampling plan for one source image.
type Geometry struct {
	SrcWidth       int     `json:"src_width"`
	SrcHeight      int     `json:"src_height"`
	OutWidth       int     `json:"out_width"`
	OutHeight      int     `json:"out_height"`
	AspectRatio    float64 `json:"aspect_ratio"`
	SamplesPerCell float64 `json:"samples_per_cell"`
	KernelSize     int     `json:"kernel_size"`
	KernelRadius   int     `json:"kernel_radius"`
}

// Plan derives output dimensions and the box kernel for a srcW×srcH image.
func Plan(srcW, srcH int, spec OutputSpec) (Geometry, error) {
	g := Geometry{SrcWidth: srcW, SrcHeight: srcH}
	fail := func(reason string) (Geometry, error) {
		return Geometry{}, &GeometryError{
			SrcWidth: srcW, SrcHeight: srcH,
			OutWidth: g.OutWidth, OutHeight: g.OutHeight,
			Reason: reason,
		}
	}

	if srcH <= 0 {
		return fail("source height is zero")
	}
	if srcW <= 0 {
		return fail("source width is zero")
	}
	if spec.Width < 0 || spec.Height < 0 {
		return fail("negative target size")
	}

	g.AspectRatio = float64(srcW) / float64(srcH)

	switch {
	case spec.Width > 0:
		g.OutWidth = spec.Width
		g.OutHeight = int(math.Round(float64(g.OutWidth) / g.AspectRatio))
	case spec.Height > 0:
		g.OutHeight = spec.Height
		g.OutWidth = int(math.Round(float64(g.OutHeight) * g.AspectRatio))
	default:
		if spec.Columns <= 0 {
			return fail("no terminal columns available")
		}
		g.OutWidth = min(srcW, spec.Columns)
		g.OutHeight = int(math.Round(float64(g.OutWidth) / g.AspectRatio))
	}

	if g.OutWidth <= 0 || g.OutHeight <= 0 {
		return fail("output rounds to zero")
	}

	g.SamplesPerCell = float64(srcW) / float64(g.OutWidth)
	if g.SamplesPerCell < 1 {
		g.SamplesPerCell = 1
	}
	g.KernelSize, g.KernelRadius = kernel(g.SamplesPerCell)
	return g, nil
}

// kernel returns the odd box size for a downscale factor and its radius.
func kernel(samplesPerCell float64) (size, radius int) {
	size = int(math.Floor(samplesPerCell))
	if size%2 == 0 {
		size--
	}
	if size < 1 {
		size = 1
	}
	return size, (size - 1) / 2
}

// Buffer returns the byte length of the resampled image.
func (g Geometry) Buffer() int {
	return g.OutWidth * g.OutHeight * 4
}

// String is used by verbose logging.
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d -> %dx%d (%.2f samples/cell, kernel %d)",
		g.SrcWidth, g.SrcHeight, g.OutWidth, g.OutHeight, g.SamplesPerCell, g.KernelSize)
}
