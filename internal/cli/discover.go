package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kitty/internal/submission"
)

// DiscoveredSubmission is one scripted submission and what it supports.
type DiscoveredSubmission struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Address    string   `json:"address,omitempty"`
	Operations []string `json:"operations,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [submissions-dir]",
		Short: "Load scripted submissions and report their operations",
		Long: `Find every scripted submission in a directory, load it, and report the
operations it implements. The directory defaults to ./submissions.

Exit codes:
  0 - Every submission loaded
  1 - A submission failed to load
  2 - The directory could not be read`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "./submissions"
			if len(args) == 1 {
				dir = args[0]
			}
			return runDiscover(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runDiscover(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts, cmd.ErrOrStderr())

	sources, err := submission.Discover(dir, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to scan submissions", err)
	}

	provider := submission.NewScriptProvider(dir, logger)
	found := make([]DiscoveredSubmission, 0, len(sources))
	failed := 0
	for _, src := range sources {
		d := DiscoveredSubmission{Name: src.Name, Path: src.Path}
		sub, err := provider.Open(src.Name)
		if err != nil {
			d.Error = err.Error()
			failed++
		} else {
			d.Address = sub.Address()
			if inst, ok := sub.(*submission.Instance); ok {
				d.Operations = inst.Operations()
			}
		}
		found = append(found, d)
	}

	if formatter.IsJSON() {
		if err := formatter.Success(found); err != nil {
			return err
		}
	} else {
		if len(found) == 0 {
			formatter.Printf("No submissions found in %s\n", dir)
		}
		for _, d := range found {
			if d.Error != "" {
				formatter.Printf("✗ %s (%s): %s\n", d.Name, d.Path, d.Error)
				continue
			}
			formatter.Printf("✓ %s (%s) %s\n", d.Name, d.Path, d.Address)
			for _, op := range d.Operations {
				formatter.Printf("    %s\n", op)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d submission(s) failed to load", failed))
	}
	return nil
}
