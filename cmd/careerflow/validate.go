package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/careerflow/internal/validator"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <tree>...",
	Short: "Check decision trees for consistency",
	Long:  `Crawls each tree from its root and reports missing nodes, dead ends, unknown endpoints and unreachable nodes.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runValidate(cmd, afero.NewOsFs(), args); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All trees are valid! ✅")
		return nil
	},
}

func runValidate(cmd *cobra.Command, fs afero.Fs, paths []string) error {
	var errs []error
	for _, path := range paths {
		tree, err := loadTree(fs, path)
		if err == nil {
			err = validator.ValidateTree(tree)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			errs = append(errs, fmt.Errorf("%s: invalid", path))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d nodes)\n", path, tree.Len())
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
