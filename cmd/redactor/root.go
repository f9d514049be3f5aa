package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ahwr/internal/platform/config"
	"ahwr/internal/platform/logger"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// RootOptions holds state shared by every subcommand.
type RootOptions struct {
	LogLevel string
	Config   *config.Config
	Logger   *slog.Logger
}

// NewRootCommand creates the redactor root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "redactor",
		Short:         "Agreement PII redaction",
		Long:          "Selects agreements past their retention period and redacts personal data across every store that holds it.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.LogLevel != "" {
				cfg.Log.Level = opts.LogLevel
			}
			opts.Config = cfg
			opts.Logger = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewRequestCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
