package resample

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/AnyUserName/imcat/internal/raster"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Filter names a resampling kernel. FilterBox is the native box filter;
// the others delegate to image libraries at the same planned geometry.
type Filter string

const (
	FilterBox        Filter = "box"
	FilterNearest    Filter = "nearest"
	FilterLinear     Filter = "linear"
	FilterCatmullRom Filter = "catmullrom"
	FilterLanczos    Filter = "lanczos"
	FilterBiLinear   Filter = "bilinear"
)

// libraryFilters maps filter names to a scaler producing straight-alpha NRGBA.
var libraryFilters = map[Filter]func(src *image.NRGBA, w, h int) *image.NRGBA{
	FilterNearest:    imagingScaler(imaging.NearestNeighbor),
	FilterLinear:     imagingScaler(imaging.Linear),
	FilterCatmullRom: imagingScaler(imaging.CatmullRom),
	FilterLanczos:    imagingScaler(imaging.Lanczos),
	FilterBiLinear: func(src *image.NRGBA, w, h int) *image.NRGBA {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		return dst
	},
}

func imagingScaler(f imaging.ResampleFilter) func(*image.NRGBA, int, int) *image.NRGBA {
	return func(src *image.NRGBA, w, h int) *image.NRGBA {
		return imaging.Resize(src, w, h, f)
	}
}

// Filters lists every accepted filter name, box first.
func Filters() []string {
	names := make([]string, 0, len(libraryFilters)+1)
	for f := range libraryFilters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return append([]string{string(FilterBox)}, names...)
}

// ParseFilter validates a filter name. Empty means box.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || f == FilterBox {
		return FilterBox, nil
	}
	if _, ok := libraryFilters[f]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q (want one of %s)", s, strings.Join(Filters(), ", "))
}

func libraryResample(src *raster.Image, g Geometry, f Filter, weighted bool) (*raster.Image, error) {
	scale, ok := libraryFilters[f]
	if !ok {
		return nil, fmt.Errorf("resample: unknown filter %q", f)
	}
	out := raster.FromImage(scale(src.NRGBA(), g.OutWidth, g.OutHeight))
	if weighted {
		premultiply(out)
	}
	return out, nil
}

// premultiply scales R, G, B by alpha/255 in place.
func premultiply(m *raster.Image) {
	p := m.Pix
	for i := 0; i+3 < len(p); i += 4 {
		a := uint32(p[i+3])
		if a == 255 {
			continue
		}
		p[i] = uint8(uint32(p[i]) * a / 255)
		p[i+1] = uint8(uint32(p[i+1]) * a / 255)
		p[i+2] = uint8(uint32(p[i+2]) * a / 255)
	}
}
