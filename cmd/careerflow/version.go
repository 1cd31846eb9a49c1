package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/careerflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of careerflow",
	// Skips config loading so the version prints even with a broken config.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "careerflow version %s\n", strings.TrimSpace(careerflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
