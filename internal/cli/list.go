package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/kitty/internal/submission"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	SubmissionsDir string
	CatalogDir     string
}

// ListResult is the data of the list command.
type ListResult struct {
	Categories  []ListedCategory `json:"categories"`
	Submissions []string         `json:"submissions"`
}

// ListedCategory is one registered category with the aliases reaching it.
type ListedCategory struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Cases   int      `json:"cases"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known categories and submissions",
		Long: `List every registered category, its aliases and case count, and every
submission a run would pick up by default.

Examples:
  kitty list
  kitty list --catalog-dir ./catalogs --submissions-dir ./submissions`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SubmissionsDir, "submissions-dir", "./submissions", "directory of scripted submissions")
	cmd.Flags().StringVar(&opts.CatalogDir, "catalog-dir", "", "directory of CUE catalogs")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	reg, err := buildRegistry(opts.CatalogDir, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalogs", err)
	}

	provider := submission.Chain{
		submission.NewBuiltin(),
		submission.NewScriptProvider(opts.SubmissionsDir, logger),
	}
	names, err := provider.Names()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list submissions", err)
	}

	aliases := make(map[string][]string)
	for id, name := range reg.Aliases() {
		aliases[name] = append(aliases[name], id)
	}

	result := ListResult{Submissions: names}
	for _, cat := range reg.All() {
		ids := aliases[cat.Name]
		slices.Sort(ids)
		result.Categories = append(result.Categories, ListedCategory{
			Name:    cat.Name,
			Aliases: ids,
			Cases:   cat.Len(),
		})
	}
	if result.Submissions == nil {
		result.Submissions = []string{}
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	formatter.Printf("Categories:\n")
	for _, c := range result.Categories {
		formatter.Printf("  %s (%d cases)", c.Name, c.Cases)
		if len(c.Aliases) > 0 {
			formatter.Printf(" aliases: %v", c.Aliases)
		}
		formatter.Printf("\n")
	}
	formatter.Printf("Submissions:\n")
	for _, name := range result.Submissions {
		formatter.Printf("  %s\n", name)
	}
	return nil
}
