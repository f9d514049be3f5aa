package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ahwr/internal/platform/httpserver"
	"ahwr/internal/platform/kafka/admin"
	kafkaconsumer "ahwr/internal/platform/kafka/consumer"
	platformmetrics "ahwr/internal/platform/metrics"
	"ahwr/internal/platform/middleware"
	redactionconsumer "ahwr/internal/redaction/consumer"
	"ahwr/internal/redaction/handler"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Partitions  int32
	NoConsumer  bool
	CreateTopic bool
}

// NewServeCommand runs the request consumer and the admin HTTP server.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Consume redaction requests and serve the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoConsumer, "no-consumer", false, "serve the admin API only")
	cmd.Flags().BoolVar(&opts.CreateTopic, "create-topics", true, "create the request and event topics when missing")
	cmd.Flags().Int32Var(&opts.Partitions, "partitions", 1, "partitions for topics created at startup")
	return cmd
}

func serve(ctx context.Context, opts *ServeOptions) error {
	cfg, logger := opts.Config, opts.Logger

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	httpMetrics := platformmetrics.New()
	httpMetrics.SetBuildInfo(version)

	auth := middleware.AdminAuth{
		AdminToken: cfg.Server.AdminToken,
		Audience:   cfg.Services.Issuer,
		Scope:      redactScope,
	}
	if a.tokens != nil {
		auth.Validator = a.tokens
	}

	r := chi.NewRouter()
	handler.New(a.service, auth, logger, httpMetrics).Register(r)
	handler.RegisterOps(r, map[string]handler.HealthCheck{
		"postgres": a.db.PingContext,
		"redis":    a.redis.Health,
	}, nil)

	var c *kafkaconsumer.Consumer
	if !opts.NoConsumer {
		if opts.CreateTopic {
			if err := admin.EnsureTopics(ctx, cfg.Kafka.Brokers, opts.Partitions, cfg.Kafka.RequestTopic, cfg.Kafka.EventTopic); err != nil {
				return err
			}
		}
		router := kafkaconsumer.NewRouter(logger)
		router.Register(cfg.Kafka.RequestTopic, redactionconsumer.New(a.service,
			redactionconsumer.WithLogger(logger),
			redactionconsumer.WithMetrics(a.metrics),
			redactionconsumer.WithAttempts(cfg.Kafka.HandlerAttempts),
			redactionconsumer.WithBackoff(cfg.Kafka.HandlerBackoff),
		))
		if c, err = kafkaconsumer.New(kafkaconsumer.Config{
			Brokers: cfg.Kafka.Brokers,
			Group:   cfg.Kafka.ConsumerGroup,
			Topics:  router.Topics(),
		}, router, kafkaconsumer.WithLogger(logger)); err != nil {
			return err
		}
		defer c.Close()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, httpserver.New(cfg.Server.Addr, r), logger)
	})
	if c != nil {
		g.Go(func() error {
			logger.InfoContext(gctx, "consuming redaction requests", "topic", cfg.Kafka.RequestTopic, "group", cfg.Kafka.ConsumerGroup)
			return c.Run(gctx)
		})
	}
	return g.Wait()
}
