// Package consumer polls Kafka topics with franz-go and hands each record to
// a Handler, committing offsets only after the handler returns.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message. Returning an error leaves the offset
// uncommitted; the consumer stops so the message is redelivered on restart.
// Handlers that want to skip a message return nil.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error { return f(ctx, msg) }

// Config addresses the cluster and the subscription.
type Config struct {
	Brokers []string
	Group   string
	Topics  []string
}

// Consumer is a group consumer with manual commits.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// New creates a consumer. Auto-commit is disabled; offsets are committed
// after each record is handled.
func New(cfg Config, handler Handler, opts ...Option) (*Consumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Group == "" || len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("kafka consumer requires brokers, group and topics")
	}
	c := &Consumer{handler: handler, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	c.client = client
	return c, nil
}

// Run polls until ctx is cancelled or a handler fails.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		var fetchErr error
		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.ErrorContext(ctx, "kafka fetch error", "topic", topic, "partition", partition, "error", err)
			fetchErr = errors.Join(fetchErr, err)
		})
		if fetchErr != nil {
			return fmt.Errorf("poll kafka: %w", fetchErr)
		}

		for _, rec := range fetches.Records() {
			msg := toMessage(rec)
			if err := c.handler.Handle(ctx, msg); err != nil {
				return fmt.Errorf("handle %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
			}
			if err := c.client.CommitRecords(ctx, rec); err != nil {
				return fmt.Errorf("commit %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
			}
		}
	}
}

// Close leaves the group and closes the client.
func (c *Consumer) Close() {
	c.client.Close()
}

func toMessage(rec *kgo.Record) *Message {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Headers:   headers,
		Timestamp: rec.Timestamp,
	}
}
