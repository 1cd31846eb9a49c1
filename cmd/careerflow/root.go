package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/careerflow/internal/cli"
	"github.com/aretw0/careerflow/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "careerflow",
	Short: "Careerflow runs career-guidance assessments",
	Long: `Careerflow walks a candidate through resume upload, job description,
a paginated soft-skills questionnaire and technical decision trees, then
reports the recommended roles per domain.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.NewViper()
		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("config")

		loaded, err := config.Load(v, file)
		if err != nil {
			return err
		}
		l, err := cli.NewLogger(loaded.Log.Level, loaded.Log.Format)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./careerflow.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("catalog", "catalog", "Directory of the local assessment catalog")
	rootCmd.PersistentFlags().String("catalog-format", "yaml", "Catalog layout (yaml, loam)")
	rootCmd.PersistentFlags().String("backend", "", "Base URL of a remote assessment backend (overrides --catalog)")
	rootCmd.PersistentFlags().String("store", "memory", "Session store (memory, redis, file, postgres)")
	rootCmd.PersistentFlags().String("redis", "localhost:6379", "Redis address for the redis session store")
}
