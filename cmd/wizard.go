package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"template_builder/internal/cli"
)

func newWizardCmd(a *app) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Build a template interactively in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := cli.NewRunner(cli.NewSurveyDriver(), a.generator, a.newController(), outputDir, a.cfg.MaxLogoBytes, a.logger)
			outcome, err := runner.Run(ctx)
			if errors.Is(err, cli.ErrAborted) {
				a.logger.Info().Msg("wizard aborted")
				return nil
			}
			if err != nil {
				return err
			}
			a.logger.Info().Int("files", len(outcome.Written)).Str("dir", outputDir).Msg("template written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "my_template", "directory to write the generated files to")
	return cmd
}
