package main

import (
	"os"

	"github.com/aretw0/careerflow"
	"github.com/aretw0/careerflow/internal/cli"
	"github.com/aretw0/careerflow/internal/presentation/tui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run an assessment interactively",
	Long:  `Walks one session through resume, job description, soft skills and technical stages on the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		resume, _ := cmd.Flags().GetString("resume")
		skipJD, _ := cmd.Flags().GetBool("skip-jd")
		plain, _ := cmd.Flags().GetBool("plain")
		if !cli.IsInteractive() {
			plain = true
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		fs := afero.NewOsFs()
		eng, storage, err := cli.NewEngine(ctx, cfg, fs, logger, cli.DebugHooks(logger))
		if err != nil {
			return err
		}
		defer storage.Close()

		if !plain {
			tui.PrintBanner(cmd.OutOrStdout(), careerflow.Version)
		}
		p := cli.NewPrompter(os.Stdin, cmd.OutOrStdout(), plain)
		_, err = cli.RunAssessment(ctx, eng, p, cli.AssessOptions{
			Email:      email,
			ResumePath: resume,
			SkipJD:     skipJD,
			Fs:         fs,
		})
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
	assessCmd.Flags().String("email", "", "Email of the candidate (asked when empty)")
	assessCmd.Flags().String("resume", "", "Path of the resume to upload (asked when empty)")
	assessCmd.Flags().Bool("skip-jd", false, "Skip the job description stage")
	assessCmd.Flags().Bool("plain", false, "Disable colors and markdown styling")
}
