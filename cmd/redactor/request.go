package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ahwr/internal/platform/kafka/producer"
	redactionconsumer "ahwr/internal/redaction/consumer"
	"ahwr/internal/redaction/models"
)

// RequestOptions holds flags for the request command.
type RequestOptions struct {
	*RootOptions
	Date string
}

// NewRequestCommand publishes a trigger message for the consumer.
func NewRequestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RequestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "request",
		Short:   "Publish a redaction request for a date",
		Example: `  redactor request --date 2025-08-05`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := models.ParseRequestedDate(opts.Date)
			if err != nil {
				return err
			}
			body, err := redactionconsumer.EncodeRequest(date.String())
			if err != nil {
				return err
			}

			p, err := producer.New(opts.Config.Kafka.Brokers)
			if err != nil {
				return err
			}
			defer p.Close()

			topic := opts.Config.Kafka.RequestTopic
			if err := p.Publish(cmd.Context(), topic, []byte(date.String()), body, nil); err != nil {
				return fmt.Errorf("publish redaction request: %w", err)
			}
			opts.Logger.InfoContext(cmd.Context(), "redaction requested", "requested_date", date.String(), "topic", topic)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "requested date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
