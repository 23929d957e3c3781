package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AnyUserName/imcat/internal/pipeline"
	"github.com/AnyUserName/imcat/internal/profile"
	"github.com/AnyUserName/imcat/internal/render"
	"github.com/AnyUserName/imcat/internal/resample"
	"github.com/AnyUserName/imcat/internal/terminal"
)

// envBackground names the environment variable that turns on blending.
const envBackground = "IMCAT_BG"

// options holds the render flags shared by the root and info commands.
type options struct {
	width, height int
	double        bool
	profile       string
	filter        string
	alpha         string
	background    string
	workers       int
	configPath    string
	reportPath    string
	noCache       bool
}

// settings is the outcome of layering flags over config over profile.
type settings struct {
	Profile profile.Profile
	Filter  resample.Filter
	Policy  resample.Policy
	Render  render.Config
	Workers int
}

// loadConfig reads --config, or the default config file when it exists.
func (o *options) loadConfig() (*profile.Config, error) {
	var (
		cfg *profile.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = profile.Load(o.configPath)
	} else {
		cfg, err = profile.LoadOptional(profile.DefaultPath())
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// resolve layers set flags over cfg over the built-in profile. changed
// reports whether a flag was given on the command line.
func (o *options) resolve(cfg *profile.Config, changed func(string) bool, getenv func(string) string) (settings, error) {
	var s settings

	name := profile.DefaultName
	if cfg.Profile != "" {
		name = cfg.Profile
	}
	if changed("profile") {
		name = o.profile
	}
	if !profile.Known(name) {
		return s, fmt.Errorf("unknown profile %q (known: %v)", name, profile.Names())
	}
	p := cfg.Apply(profile.Get(name))
	if changed("double") {
		p.Double = o.double
	}
	if changed("filter") {
		p.Filter = o.filter
	}
	if changed("alpha") {
		p.Alpha = o.alpha
	}
	s.Profile = p

	var err error
	if s.Filter, err = resample.ParseFilter(p.Filter); err != nil {
		return s, err
	}
	if s.Policy, err = resample.ParsePolicy(p.Alpha); err != nil {
		return s, err
	}

	bg := cfg.Background
	if env := getenv(envBackground); env != "" {
		bg = env
	}
	if changed("bg") {
		bg = o.background
	}
	s.Render.DoubleResolution = p.Double
	if bg != "" {
		c, err := render.ParseColor(bg)
		if err != nil {
			return s, fmt.Errorf("background: %w", err)
		}
		s.Render.Blend = true
		s.Render.Background = c
	}

	s.Workers = cfg.Workers
	if changed("workers") {
		s.Workers = o.workers
	}
	if s.Workers < 0 {
		return s, fmt.Errorf("workers must be >= 0, got %d", s.Workers)
	}
	return s, nil
}

// outputSpec sizes output from the flags and the terminal.
func (o *options) outputSpec() (resample.OutputSpec, error) {
	if o.width < 0 || o.height < 0 {
		return resample.OutputSpec{}, errors.New("--width and --height must not be negative")
	}
	if o.width > 0 && o.height > 0 {
		logVerbose("both --width and --height given; using --width %d", o.width)
	}

	geo, err := terminal.Size()
	if err != nil {
		logVerbose("%v; assuming %s", err, terminal.DefaultGeometry)
		geo = terminal.DefaultGeometry
	}
	return resample.OutputSpec{
		Width:   o.width,
		Height:  o.height,
		Columns: geo.Columns,
		Rows:    geo.Rows,
	}, nil
}

// pipelineConfig assembles everything a run needs.
func (o *options) pipelineConfig(changed func(string) bool, getenv func(string) string) (pipeline.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return pipeline.Config{}, err
	}
	s, err := o.resolve(cfg, changed, getenv)
	if err != nil {
		return pipeline.Config{}, err
	}
	spec, err := o.outputSpec()
	if err != nil {
		return pipeline.Config{}, err
	}

	logVerbose("profile: %s (double=%v, filter=%s, alpha=%s)",
		s.Profile.Name, s.Profile.Double, s.Filter, s.Policy)
	logVerbose("terminal: %dx%d, truecolor hint: %v", spec.Columns, spec.Rows, terminal.TrueColor())
	if s.Render.Blend {
		logVerbose("blending over %s", s.Render.Background.Hex())
	}
	if msg := blendWarning(s); msg != "" {
		logVerbose("%s", msg)
	}

	return pipeline.Config{
		Output:         spec,
		Render:         s.Render,
		Filter:         s.Filter,
		Policy:         s.Policy,
		Workers:        s.Workers,
		Profile:        s.Profile.Name,
		Verbose:        verbose,
		NoCache:        o.noCache,
		SupportsDouble: terminal.SupportsDoubleResolution,
	}, nil
}

// blendWarning flags blending of straight colour: Blend expects the
// premultiplied output of alpha-weighted averaging.
func blendWarning(s settings) string {
	if !s.Render.DoubleResolution || !s.Render.Blend {
		return ""
	}
	if s.Policy.Resolve(true, true) != resample.Unweighted {
		return ""
	}
	return fmt.Sprintf("alpha policy %s with blending: translucent pixels will look too bright (use --alpha weighted)",
		s.Policy)
}
