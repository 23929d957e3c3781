package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AnyUserName/imcat/internal/render"
	"github.com/AnyUserName/imcat/internal/resample"
)

// Config is the optional YAML config file. Zero values mean "not set".
type Config struct {
	Profile    string `yaml:"profile"`
	Double     *bool  `yaml:"double"`
	Filter     string `yaml:"filter"`
	Alpha      string `yaml:"alpha"`
	Background string `yaml:"background"`
	Workers    int    `yaml:"workers"`
}

// DefaultPath returns $XDG_CONFIG_HOME/imcat/config.yaml (or the platform
// equivalent), or "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "imcat", "config.yaml")
}

// Load reads a config file. A missing file yields an empty config and an
// error satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

// LoadOptional is Load, treating a missing file as an empty config.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	c, err := Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return c, nil
}

// Validate lists every problem in the config. An empty result means valid.
func (c *Config) Validate() []string {
	var errs []string
	if c.Profile != "" && !Known(c.Profile) {
		errs = append(errs, fmt.Sprintf("unknown profile %q (known: %v)", c.Profile, Names()))
	}
	if _, err := resample.ParseFilter(c.Filter); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := resample.ParsePolicy(c.Alpha); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Background != "" {
		if _, err := render.ParseColor(c.Background); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Sprintf("workers must be >= 0, got %d", c.Workers))
	}
	return errs
}

// Apply overlays the config's set fields onto p.
func (c *Config) Apply(p Profile) Profile {
	if c.Double != nil {
		p.Double = *c.Double
	}
	if c.Filter != "" {
		p.Filter = c.Filter
	}
	if c.Alpha != "" {
		p.Alpha = c.Alpha
	}
	return p
}
