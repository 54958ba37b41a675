package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"StringTests", "MathTests", "ArrayTests"}, cfg.Categories)
	assert.True(t, cfg.Output.Console)
	assert.True(t, cfg.Output.File)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.InvocationTimeout)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
submissions: [ReferenceSubmission, NaiveSubmission]
categories: [MathTests]
strict_categories: true
output:
  console: false
  format: json
cost:
  max_units: 500
invocation_timeout: 250ms
concurrency: 4
database: results.db
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"ReferenceSubmission", "NaiveSubmission"}, cfg.Submissions)
	assert.Equal(t, []string{"MathTests"}, cfg.Categories)
	assert.True(t, cfg.StrictCategories)
	assert.False(t, cfg.Output.Console)
	assert.True(t, cfg.Output.File, "unset keys keep their defaults")
	assert.Equal(t, "./test-results/", cfg.Output.Path)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, uint64(500), cfg.Cost.MaxUnits)
	assert.True(t, cfg.Cost.Report)
	assert.Equal(t, 250*time.Millisecond, cfg.InvocationTimeout)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "results.db", cfg.Database)
}

func TestParseEmptyCategoriesRunsAll(t *testing.T) {
	cfg, err := Parse([]byte("categories: []\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Categories)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"unknown field", "categorys: [MathTests]\n", "field categorys not found"},
		{"unknown nested field", "output:\n  colour: true\n", "field colour not found"},
		{"bad format", "output:\n  format: xml\n", "output.format"},
		{"no path", "output:\n  path: \"\"\n", "output.path"},
		{"zero concurrency", "concurrency: 0\n", "concurrency"},
		{"bad timeout", "invocation_timeout: 0s\n", "invocation_timeout"},
		{"duplicate submission", "submissions: [A, A]\n", "listed twice"},
		{"malformed", "submissions: [A\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Concurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
	assert.Contains(t, err.Error(), "concurrency")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: 2\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
