package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/kitty/internal/harness"
)

// Output formats for FileSink.
const (
	OutputJSON = "json"
	OutputText = "text"
)

// timestampLayout matches an ISO 8601 UTC timestamp with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FileSink writes each result to <dir>/<name>-<timestamp>.json and, for
// the text format, a .txt twin with the same stem. Colons in the
// timestamp are replaced by dashes so the names are valid everywhere.
type FileSink struct {
	dir    string
	format string
	opts   TextOptions
	now    func() time.Time
}

// FileOption configures a FileSink.
type FileOption func(*FileSink)

// WithClock sets the time source used to name files.
func WithClock(now func() time.Time) FileOption {
	return func(s *FileSink) {
		s.now = now
	}
}

// WithTextOptions sets the options of the text twin.
func WithTextOptions(opts TextOptions) FileOption {
	return func(s *FileSink) {
		s.opts = opts
	}
}

// NewFileSink creates a sink writing into dir. format is OutputJSON or
// OutputText.
func NewFileSink(dir, format string, opts ...FileOption) (*FileSink, error) {
	switch format {
	case OutputJSON, OutputText:
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, OutputJSON, OutputText)
	}
	s := &FileSink{dir: dir, format: format, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Report implements harness.Sink. The output directory is created on
// first use.
func (s *FileSink) Report(_ context.Context, result *harness.SubmissionResult) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	stem := filepath.Join(s.dir, FileStem(result.SubmissionName, s.now()))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", result.SubmissionName, err)
	}
	if err := os.WriteFile(stem+".json", data, 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}

	if s.format == OutputText {
		text := FormatText(result, s.opts)
		if err := os.WriteFile(stem+".txt", []byte(text), 0o644); err != nil {
			return fmt.Errorf("write text report: %w", err)
		}
	}
	return nil
}

// FileStem returns the file name, without extension, of a result written
// at t.
func FileStem(name string, t time.Time) string {
	ts := strings.ReplaceAll(t.UTC().Format(timestampLayout), ":", "-")
	return name + "-" + ts
}
