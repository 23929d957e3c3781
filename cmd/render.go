package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/AnyUserName/imcat/internal/pipeline"
	"github.com/AnyUserName/imcat/internal/report"
	"github.com/AnyUserName/imcat/internal/source"
	"github.com/spf13/cobra"
)

func runRender(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}
	cmd.SilenceUsage = true
	start := time.Now()

	sources, err := source.Expand(args)
	if err != nil {
		return fmt.Errorf("expand inputs: %w", err)
	}
	logVerbose("inputs: %d image(s)", len(sources))

	cfg, err := opts.pipelineConfig(cmd.Flags().Changed, os.Getenv)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	rep, err := p.Run(sources)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if opts.reportPath != "" {
		if err := report.WriteJSON(rep, opts.reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logVerbose("report: %s", opts.reportPath)
	}

	s := rep.Stats
	logVerbose("rendered %d/%d image(s), %d rows, %d cache hit(s), %s read in %s",
		s.Rendered, s.TotalImages, s.TotalRows, s.CacheHits,
		formatBytes(s.InputBytes), time.Since(start).Round(time.Millisecond))
	return nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
