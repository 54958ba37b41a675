// Package config loads the run configuration.
//
// A configuration file is optional: Default returns a usable
// configuration and a file only overrides the keys it names. Unknown keys
// are rejected so typos fail loudly.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kitty/internal/catalog"
	"github.com/roach88/kitty/internal/report"
	"github.com/roach88/kitty/internal/submission"
)

// Config is the run configuration. It is read-only once loaded.
type Config struct {
	// Submissions names the submissions to run. Empty means every
	// submission the providers know about.
	Submissions []string `yaml:"submissions"`

	// SubmissionsDir holds scripted submissions, one Go file each.
	SubmissionsDir string `yaml:"submissions_dir"`

	// CatalogDir holds extra CUE catalogs. Empty means built-ins only.
	CatalogDir string `yaml:"catalog_dir"`

	// Categories selects categories by name or alias. Empty runs all.
	Categories []string `yaml:"categories"`

	// StrictCategories turns a category fallback into an error.
	StrictCategories bool `yaml:"strict_categories"`

	Output Output `yaml:"output"`
	Cost   Cost   `yaml:"cost"`

	// InvocationTimeout bounds each scripted operation call.
	InvocationTimeout time.Duration `yaml:"invocation_timeout"`

	// Concurrency is how many submissions run at once.
	Concurrency int `yaml:"concurrency"`

	// Database is the SQLite file results are stored in. Empty disables
	// storage.
	Database string `yaml:"database"`
}

// Output configures result delivery.
type Output struct {
	Console bool   `yaml:"console"`
	File    bool   `yaml:"file"`
	Path    string `yaml:"path"`
	Format  string `yaml:"format"`
}

// Cost configures resource cost reporting.
type Cost struct {
	Report   bool   `yaml:"report"`
	Compare  bool   `yaml:"compare"`
	MaxUnits uint64 `yaml:"max_units"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		SubmissionsDir: "./submissions",
		Categories:     []string{catalog.StringTestsID, catalog.MathTestsID, catalog.ArrayTestsID},
		Output: Output{
			Console: true,
			File:    true,
			Path:    "./test-results/",
			Format:  report.OutputText,
		},
		Cost: Cost{
			Report:   true,
			Compare:  true,
			MaxUnits: submission.DefaultMaxUnits,
		},
		InvocationTimeout: submission.DefaultScriptTimeout,
		Concurrency:       1,
	}
}

// Load reads a YAML configuration file over the defaults.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or fails validation.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values. Every problem is reported.
func (c Config) Validate() error {
	var errs []error
	switch c.Output.Format {
	case report.OutputJSON, report.OutputText:
	default:
		errs = append(errs, fmt.Errorf("output.format must be %q or %q, got %q",
			report.OutputJSON, report.OutputText, c.Output.Format))
	}
	if c.Output.File && c.Output.Path == "" {
		errs = append(errs, errors.New("output.path is required when output.file is true"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.InvocationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invocation_timeout must be positive, got %s", c.InvocationTimeout))
	}
	seen := make(map[string]bool)
	for _, name := range c.Submissions {
		if name == "" {
			errs = append(errs, errors.New("submissions must not contain empty names"))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("submission %q is listed twice", name))
		}
		seen[name] = true
	}
	return errors.Join(errs...)
}
