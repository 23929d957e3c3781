package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/AnyUserName/imcat/internal/pipeline"
	"github.com/AnyUserName/imcat/internal/report"
	"github.com/AnyUserName/imcat/internal/source"
	"github.com/spf13/cobra"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info [--json] image...",
	Short: "Show how images would be sized without drawing them",
	Long: `Decodes each image and prints its source size, the output size it would
be rendered at, and the box filter parameters. Honours the same sizing and
profile flags as rendering.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	sources, err := source.Expand(args)
	if err != nil {
		return fmt.Errorf("expand inputs: %w", err)
	}
	cfg, err := opts.pipelineConfig(cmd.Flags().Changed, os.Getenv)
	if err != nil {
		return err
	}

	rep := pipeline.New(cfg).Inspect(sources)
	if infoJSON {
		return report.Encode(rep, cmd.OutOrStdout())
	}
	printInfo(cmd.OutOrStdout(), rep)
	return nil
}

func printInfo(w io.Writer, r *report.Report) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Profile:   %s\n", r.Profile)
	fmt.Fprintf(w, "  Renderer:  %s\n", r.Renderer)
	fmt.Fprintf(w, "  Terminal:  %dx%d\n", r.Terminal.Columns, r.Terminal.Rows)
	fmt.Fprintln(w)

	for _, img := range r.Images {
		if img.Error != "" {
			fmt.Fprintf(w, "  ✗ %-36s %s\n", truncKey(img.Key, 36), img.Error)
			continue
		}
		alpha := ""
		if img.Source.HasAlpha {
			alpha = " +alpha"
		}
		fmt.Fprintf(w, "  %-38s %5s %5dx%-5d %8s%s → %dx%d  (%.2f samples/cell, radius %d)\n",
			truncKey(img.Key, 38),
			img.Source.Format,
			img.Source.Width, img.Source.Height,
			formatBytes(img.Source.Size),
			alpha,
			img.Output.Width, img.Output.Height,
			img.SamplesPerCell, img.KernelRadius,
		)
	}
	fmt.Fprintln(w)

	s := r.Stats
	fmt.Fprintf(w, "  Images:    %d (%d ok, %d failed)\n", s.TotalImages, s.Rendered, s.Failed)
	fmt.Fprintf(w, "  Input:     %s\n", formatBytes(s.InputBytes))
	fmt.Fprintln(w)
}
