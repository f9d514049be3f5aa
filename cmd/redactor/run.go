package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Date string
}

// NewRunCommand runs one batch in-process.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Redact agreements due on a date, resuming any unfinished batch",
		Example: `  redactor run --date 2025-08-05`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.Config, opts.Logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.service.Run(ctx, opts.Date, opts.Logger); err != nil {
				return fmt.Errorf("redaction for %s: %w", opts.Date, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "redaction for %s complete\n", opts.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "requested date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
