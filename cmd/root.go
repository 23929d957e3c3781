package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
	opts    options
)

var rootCmd = &cobra.Command{
	Use:   "imcat [flags] image [image2 ...]",
	Short: "Display images in a truecolor terminal",
	Long: `imcat prints images as 24-bit ANSI colour text.

Each image is box-filtered down to the terminal width and painted either one
pixel per cell, or two pixels per cell with the ▀ half-block glyph (--double).
Directories are expanded to the images they contain.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runRender,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.IntVar(&opts.width, "width", 0, "output width in pixels (0 = fit terminal)")
	pf.IntVar(&opts.height, "height", 0, "output height in pixels (ignored when --width is set)")
	pf.BoolVarP(&opts.double, "double", "d", false, "double vertical resolution with half blocks")
	pf.StringVarP(&opts.profile, "profile", "p", "", "render profile (classic, halfblock, smooth)")
	pf.StringVar(&opts.filter, "filter", "", "resample filter (box, nearest, linear, catmullrom, lanczos, bilinear)")
	pf.StringVar(&opts.alpha, "alpha", "", "alpha policy: auto, unweighted or weighted")
	pf.StringVar(&opts.background, "bg", "", "blend transparent pixels over #RRGGBB (double mode)")
	pf.IntVarP(&opts.workers, "workers", "j", 0, "resample workers (0 = NumCPU)")
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/imcat/config.yaml)")
	rootCmd.Flags().StringVar(&opts.reportPath, "report", "", "write a JSON render report to this file")
	rootCmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render duplicate images again instead of replaying")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imcat %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[imcat] "+format+"\n", args...)
	}
}
