// Package config loads the YAML configuration for a design-value run:
// the observation-store DSN, the analysis window, the estimator knobs
// and the output destinations.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/pacificclimate/designvalues/internal/queries"
	"github.com/pacificclimate/designvalues/pkg/gumbel"
)

// ErrInvalidConfig indicates a missing or malformed configuration value.
var ErrInvalidConfig = errors.New("invalid configuration")

const dateLayout = "2006-01-02"

// Config is the full configuration for one run.
type Config struct {
	Database      DatabaseConfig        `yaml:"database"`
	Analysis      AnalysisConfig        `yaml:"analysis"`
	VariableCodes queries.VariableCodes `yaml:"variable_codes"`
	Output        OutputConfig          `yaml:"output"`
}

// DatabaseConfig locates the observation store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AnalysisConfig sets the analysis window and the estimator knobs.
type AnalysisConfig struct {
	Start        string `yaml:"start"` // YYYY-MM-DD, inclusive
	End          string `yaml:"end"`   // YYYY-MM-DD, exclusive
	Month        int    `yaml:"month"` // month for percentile queries
	ReturnPeriod int    `yaml:"return_period"`
	MinFit       int    `yaml:"min_fit"`
}

// OutputConfig sets the output destinations; empty paths disable the
// corresponding writer.
type OutputConfig struct {
	CSV    string `yaml:"csv"`
	SQLite string `yaml:"sqlite"`
}

// Load reads and validates a configuration file, filling defaults for
// the month (January), the minimum-fit threshold and the variable-code
// table.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Analysis.Month == 0 {
		cfg.Analysis.Month = int(time.January)
	}
	if cfg.Analysis.MinFit == 0 {
		cfg.Analysis.MinFit = gumbel.DefaultMinFit
	}
	if len(cfg.VariableCodes.Rain) == 0 && cfg.VariableCodes.TempMin == "" {
		cfg.VariableCodes = queries.DefaultVariableCodes()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("%w: database.dsn is required", ErrInvalidConfig)
	}
	if c.Analysis.ReturnPeriod < 1 {
		return fmt.Errorf("%w: analysis.return_period must be at least 1, got %d", ErrInvalidConfig, c.Analysis.ReturnPeriod)
	}
	if c.Analysis.MinFit < 2 {
		return fmt.Errorf("%w: analysis.min_fit must be at least 2, got %d", ErrInvalidConfig, c.Analysis.MinFit)
	}
	if _, _, err := c.Window(); err != nil {
		return err
	}
	return nil
}

// Window parses the analysis window bounds.
func (c *Config) Window() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.Analysis.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: analysis.start: %v", ErrInvalidConfig, err)
	}
	end, err = time.Parse(dateLayout, c.Analysis.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: analysis.end: %v", ErrInvalidConfig, err)
	}
	return start, end, nil
}
