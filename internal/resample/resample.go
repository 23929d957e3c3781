// Package resample maps an arbitrary-resolution RGBA image onto a coarse
// character grid.
//
// The default filter is an odd-sized box kernel centred on the mapped source
// coordinate, sized from the downscale factor:
//   - kernel = floor(src/out), forced odd, minimum 1
//   - window clamped to the image; it shrinks at edges, never re-centres
//   - integer accumulation, truncating division per channel
//
// Alpha is either averaged like any channel (Unweighted) or used to
// premultiply R, G, B before summation (AlphaWeighted), which keeps fully
// transparent neighbours from bleeding colour into the average.
package resample

import (
	"fmt"
	"math"
	"strings"

	"github.com/AnyUserName/imcat/internal/raster"
	"golang.org/x/sync/errgroup"
)

// Policy selects how alpha participates in averaging.
type Policy int

const (
	// PolicyAuto resolves to AlphaWeighted when double resolution with
	// blending is in effect, Unweighted otherwise.
	PolicyAuto Policy = iota
	Unweighted
	AlphaWeighted
)

func (p Policy) String() string {
	switch p {
	case Unweighted:
		return "unweighted"
	case AlphaWeighted:
		return "weighted"
	default:
		return "auto"
	}
}

// ParsePolicy accepts "auto", "unweighted" and "weighted".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PolicyAuto, nil
	case "unweighted", "plain", "legacy":
		return Unweighted, nil
	case "weighted", "alpha", "alpha-weighted", "premultiplied":
		return AlphaWeighted, nil
	}
	return PolicyAuto, fmt.Errorf("unknown alpha policy %q (want auto, unweighted or weighted)", s)
}

// Resolve turns PolicyAuto into a concrete policy for the render settings.
func (p Policy) Resolve(double, blend bool) Policy {
	if p != PolicyAuto {
		return p
	}
	if double && blend {
		return AlphaWeighted
	}
	return Unweighted
}

// Options tune a single Resample call.
type Options struct {
	Policy  Policy
	Filter  Filter
	Workers int // <= 1 runs serially
}

// Fit plans and resamples in one step.
func Fit(src *raster.Image, spec OutputSpec, opts Options) (*raster.Image, Geometry, error) {
	if err := src.Validate(); err != nil {
		return nil, Geometry{}, err
	}
	g, err := Plan(src.Width, src.Height, spec)
	if err != nil {
		return nil, Geometry{}, err
	}
	out, err := Resample(src, g, opts)
	if err != nil {
		return nil, Geometry{}, err
	}
	return out, g, nil
}

// Resample produces a fresh g.OutWidth×g.OutHeight image from src.
func Resample(src *raster.Image, g Geometry, opts Options) (*raster.Image, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Width != g.SrcWidth || src.Height != g.SrcHeight {
		return nil, fmt.Errorf("resample: geometry planned for %dx%d, image is %dx%d",
			g.SrcWidth, g.SrcHeight, src.Width, src.Height)
	}
	if g.OutWidth <= 0 || g.OutHeight <= 0 {
		return nil, &GeometryError{
			SrcWidth: g.SrcWidth, SrcHeight: g.SrcHeight,
			OutWidth: g.OutWidth, OutHeight: g.OutHeight,
			Reason: "output rounds to zero",
		}
	}

	weighted := opts.Policy == AlphaWeighted

	if opts.Filter != "" && opts.Filter != FilterBox {
		return libraryResample(src, g, opts.Filter, weighted)
	}

	out := raster.New(g.OutWidth, g.OutHeight)
	s := boxSampler{src: src, g: g, weighted: weighted}

	workers := opts.Workers
	if workers > g.OutHeight {
		workers = g.OutHeight
	}
	if workers <= 1 {
		for y := 0; y < g.OutHeight; y++ {
			s.sampleRow(out.Row(y), y)
		}
		return out, nil
	}

	// Bands of whole rows; each goroutine writes only its own rows.
	band := (g.OutHeight + workers - 1) / workers
	var eg errgroup.Group
	eg.SetLimit(workers)
	for y0 := 0; y0 < g.OutHeight; y0 += band {
		y1 := min(y0+band, g.OutHeight)
		eg.Go(func() error {
			for y := y0; y < y1; y++ {
				s.sampleRow(out.Row(y), y)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type boxSampler struct {
	src      *raster.Image
	g        Geometry
	weighted bool
}

// sampleRow fills one output row. Accumulators are uint64: a large kernel
// over a wide image overflows 32 bits.
func (s boxSampler) sampleRow(dst []byte, y int) {
	src := s.src
	r := s.g.KernelRadius
	spc := s.g.SamplesPerCell

	cy := clamp(int(math.Round(spc*float64(y))), 0, src.Height-1)
	y0 := max(cy-r, 0)
	y1 := min(cy+r, src.Height-1)

	for x := 0; x < s.g.OutWidth; x++ {
		cx := clamp(int(math.Round(spc*float64(x))), 0, src.Width-1)
		x0 := max(cx-r, 0)
		x1 := min(cx+r, src.Width-1)

		var ar, ag, ab, aa, n uint64
		for yy := y0; yy <= y1; yy++ {
			row := src.Pix[(yy*src.Width+x0)*4 : (yy*src.Width+x1+1)*4]
			for i := 0; i < len(row); i += 4 {
				a := uint64(row[i+3])
				if s.weighted {
					ar += uint64(row[i]) * a / 255
					ag += uint64(row[i+1]) * a / 255
					ab += uint64(row[i+2]) * a / 255
				} else {
					ar += uint64(row[i])
					ag += uint64(row[i+1])
					ab += uint64(row[i+2])
				}
				aa += a
				n++
			}
		}

		d := dst[x*4 : x*4+4 : x*4+4]
		d[0] = uint8(ar / n)
		d[1] = uint8(ag / n)
		d[2] = uint8(ab / n)
		d[3] = uint8(aa / n)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
