package render

import (
	"fmt"
	"strings"
)

// Registry holds the renderers and picks one for a Config.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry registers truecolor and halfblock. supportsDouble may be nil.
func NewRegistry(supportsDouble func() bool) *Registry {
	r := &Registry{
		renderers: make(map[string]Renderer),
	}
	for _, rd := range []Renderer{
		&TrueColor{},
		&HalfBlock{Supported: supportsDouble},
	} {
		r.renderers[rd.Mode()] = rd
	}
	return r
}

// get returns the renderer for a mode name, or nil.
func (r *Registry) get(mode string) Renderer {
	return r.renderers[strings.ToLower(mode)]
}

// Available returns the usable mode names in preference order.
func (r *Registry) Available() []string {
	var result []string
	for _, m := range []string{"halfblock", "truecolor"} {
		if rd, ok := r.renderers[m]; ok && rd.Available() {
			result = append(result, m)
		}
	}
	return result
}

// Resolve picks halfblock for double resolution when the terminal supports
// it, truecolor otherwise. downgraded is true when double resolution was
// requested but could not be honoured.
func (r *Registry) Resolve(cfg Config) (rd Renderer, downgraded bool) {
	if cfg.DoubleResolution {
		if hb := r.get("halfblock"); hb != nil && hb.Available() {
			return hb, false
		}
		return r.get("truecolor"), true
	}
	return r.get("truecolor"), false
}

// String returns a summary of available renderers.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no renderers available"
	}
	return fmt.Sprintf("renderers: %s", strings.Join(avail, ", "))
}
