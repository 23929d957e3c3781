package profile

import "sort"

// Profile is a named set of render defaults.
type Profile struct {
	Name   string
	Double bool   // half-block output (two samples per cell)
	Filter string // resample filter name
	Alpha  string // alpha policy: auto, unweighted, weighted
}

// DefaultName is used when no profile is requested.
const DefaultName = "classic"

// Built-in profiles.
var profiles = map[string]Profile{
	"classic": {
		Name:   "classic",
		Double: false,
		Filter: "box",
		Alpha:  "auto",
	},
	"halfblock": {
		Name:   "halfblock",
		Double: true,
		Filter: "box",
		Alpha:  "auto",
	},
	"smooth": {
		Name:   "smooth",
		Double: true,
		Filter: "lanczos",
		Alpha:  "auto",
	},
}

// Get returns a profile by name. Falls back to classic if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	if name != "" {
		p.Name = name // preserve requested name
	}
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles alphabetically.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
