package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"template_builder/config"
	"template_builder/internal/ai"
	"template_builder/internal/wizard"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg       config.Config
	logger    zerolog.Logger
	generator *ai.Orchestrator
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	a := &app{}

	root := &cobra.Command{
		Use:           "template-builder",
		Short:         "Generate website templates from a short design brief",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yaml and .env")

	root.AddCommand(newServeCmd(a), newWizardCmd(a))
	return root
}

func (a *app) init(ctx context.Context, configPath string) error {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(cfg)
	if cfg.ConfigFile != "" {
		a.logger.Info().Str("file", cfg.ConfigFile).Msg("config file loaded")
	}

	// --- Dependency Initialization ---
	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := ai.NewBackend(ctx, cfg, a.logger)
	if err != nil {
		return fmt.Errorf("cannot create AI backend: %w", err)
	}
	a.logger.Info().Str("provider", backend.Name()).Str("model", backend.Model()).Msg("AI backend ready")
	a.generator = ai.NewOrchestrator(backend, a.logger)
	return nil
}

// newController builds a wizard controller with the configured flow.
func (a *app) newController() *wizard.Controller {
	opts := []wizard.ControllerOption{wizard.WithStepNavigation(a.cfg.StepIndicator)}
	if !a.cfg.ResultsStep {
		opts = append(opts, wizard.WithSteps(wizard.CompactFlow))
	}
	return wizard.NewController(opts...)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.IsProduction() {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
