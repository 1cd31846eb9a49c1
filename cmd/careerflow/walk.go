package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/careerflow/internal/cli"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/schema"
	"github.com/aretw0/careerflow/pkg/walker"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var walkCmd = &cobra.Command{
	Use:   "walk <tree>",
	Short: "Walk a single decision tree",
	Long:  `Loads a tree document (JSON or YAML) and asks its questions until an endpoint is reached.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		if !cli.IsInteractive() {
			plain = true
		}
		name, _ := cmd.Flags().GetString("domain")
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		tree, err := loadTree(afero.NewOsFs(), args[0])
		if err != nil {
			return err
		}
		w, err := walker.New(name, tree,
			walker.WithLogger(logger),
			walker.WithHooks(cli.DebugHooks(logger)),
		)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		p := cli.NewPrompter(os.Stdin, cmd.OutOrStdout(), plain)
		_, err = cli.RunWalk(ctx, p, w)
		return cli.HandleExecutionError(err)
	},
}

func loadTree(fs afero.Fs, path string) (*domain.DecisionTree, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	tree, err := schema.ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func init() {
	rootCmd.AddCommand(walkCmd)
	walkCmd.Flags().String("domain", "", "Domain name shown in prompts (default: file name)")
	walkCmd.Flags().Bool("plain", false, "Disable colors")
}
