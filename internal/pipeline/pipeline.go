// Package pipeline drives decode → resample → render for each input image,
// one image at a time and in argument order.
package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/AnyUserName/imcat/internal/hasher"
	"github.com/AnyUserName/imcat/internal/render"
	"github.com/AnyUserName/imcat/internal/report"
	"github.com/AnyUserName/imcat/internal/resample"
	"github.com/AnyUserName/imcat/internal/source"
)

// Config holds all parameters for a run. It is not modified after New.
type Config struct {
	Output  resample.OutputSpec
	Render  render.Config
	Filter  resample.Filter
	Policy  resample.Policy
	Workers int // resample workers (0 = NumCPU)
	Profile string
	Verbose bool
	NoCache bool

	// SupportsDouble gates half-block output; nil means supported.
	SupportsDouble func() bool

	Out io.Writer // rendered text (default os.Stdout)
	Log io.Writer // diagnostics (default os.Stderr)
}

// Pipeline orchestrates image rendering.
type Pipeline struct {
	cfg        Config
	registry   *render.Registry
	renderer   render.Renderer
	downgraded bool
	opts       resample.Options
	params     string
	cache      map[string]cached
}

type cached struct {
	text  []byte
	entry report.Image
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}
	if cfg.Filter == "" {
		cfg.Filter = resample.FilterBox
	}

	registry := render.NewRegistry(cfg.SupportsDouble)
	rd, downgraded := registry.Resolve(cfg.Render)
	double := rd.Mode() == "halfblock"

	p := &Pipeline{
		cfg:        cfg,
		registry:   registry,
		renderer:   rd,
		downgraded: downgraded,
		opts: resample.Options{
			Policy:  cfg.Policy.Resolve(double, cfg.Render.Blend),
			Filter:  cfg.Filter,
			Workers: cfg.Workers,
		},
		cache: make(map[string]cached),
	}
	p.params = hasher.Params(
		fmt.Sprintf("%dx%d/%d", cfg.Output.Width, cfg.Output.Height, cfg.Output.Columns),
		rd.Mode(),
		string(p.opts.Filter),
		p.opts.Policy.String(),
		fmt.Sprintf("%t%s", cfg.Render.Blend && double, cfg.Render.Background.Hex()),
	)
	return p
}

// Run renders every source to cfg.Out. Per-image failures are logged and
// recorded in the report; only a failing output sink stops the run.
func (p *Pipeline) Run(sources []source.Source) (*report.Report, error) {
	p.logf("%s", p.registry.String())
	if p.downgraded {
		fmt.Fprintf(p.cfg.Log, "[imcat] warning: half-block output unsupported here, using %s\n",
			p.renderer.Mode())
	}
	p.logf("alpha policy: %s, filter: %s, workers: %d", p.opts.Policy, p.opts.Filter, p.opts.Workers)

	rep := p.newReport()
	out := bufio.NewWriterSize(p.cfg.Out, 64*1024)

	for _, src := range sources {
		entry, err := p.renderOne(out, src)
		rep.Add(entry)
		if err != nil {
			rep.ComputeStats()
			return rep, fmt.Errorf("output: %w", err)
		}
		if entry.Cached {
			rep.Stats.CacheHits++
		}
	}

	rep.ComputeStats()
	if rep.Stats.Failed > 0 {
		fmt.Fprintf(p.cfg.Log, "[imcat] warning: %d of %d images could not be shown\n",
			rep.Stats.Failed, rep.Stats.TotalImages)
	}
	return rep, nil
}

// Inspect plans every source without rendering.
func (p *Pipeline) Inspect(sources []source.Source) *report.Report {
	rep := p.newReport()
	for _, src := range sources {
		prep, err := p.prepare(src)
		if err != nil {
			prep.entry.Error = err.Error()
		}
		rep.Add(prep.entry)
	}
	rep.ComputeStats()
	return rep
}

func (p *Pipeline) newReport() *report.Report {
	rep := report.New(p.cfg.Profile)
	rep.Renderer = p.renderer.Mode()
	rep.Terminal = report.Terminal{Columns: p.cfg.Output.Columns, Rows: p.cfg.Output.Rows}
	return rep
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(p.cfg.Log, "[imcat] "+format+"\n", args...)
	}
}
