package main

import (
	"fmt"

	"github.com/aretw0/careerflow/internal/presentation/graph"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <tree>",
	Short: "Export a decision tree visualization",
	Long:  `Reads a tree document and outputs a Mermaid diagram (graph TD) of its questions and endpoints.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(afero.NewOsFs(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tree, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
