package cmd

import (
	"fmt"

	"github.com/AnyUserName/imcat/internal/profile"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config.yaml]",
	Short: "Check an imcat config file for errors",
	Long: `Parses the config file (default $XDG_CONFIG_HOME/imcat/config.yaml) and
reports unknown profiles, filters and alpha policies, malformed colours and
negative worker counts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := profile.DefaultPath()
	if opts.configPath != "" {
		path = opts.configPath
	}
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no config path given and no user config directory")
	}

	cfg, err := profile.Load(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	out := cmd.OutOrStdout()
	errs := cfg.Validate()
	if len(errs) == 0 {
		fmt.Fprintf(out, "  ✓ %s is valid\n", path)
		p := cfg.Apply(profile.Get(orDefault(cfg.Profile)))
		fmt.Fprintf(out, "  ✓ profile %s: double=%v, filter=%s, alpha=%s\n", p.Name, p.Double, p.Filter, p.Alpha)
		return nil
	}

	fmt.Fprintf(out, "  ✗ %s has %d error(s):\n", path, len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func orDefault(name string) string {
	if name == "" {
		return profile.DefaultName
	}
	return name
}
