package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	jwttoken "ahwr/internal/jwt_token"
	"ahwr/internal/platform/config"
	"ahwr/internal/platform/kafka/producer"
	"ahwr/internal/platform/postgres"
	"ahwr/internal/platform/redis"
	"ahwr/internal/redaction/adapters/piiclient"
	"ahwr/internal/redaction/events"
	"ahwr/internal/redaction/identifier"
	"ahwr/internal/redaction/metrics"
	"ahwr/internal/redaction/selector"
	"ahwr/internal/redaction/service"
	"ahwr/internal/redaction/stages"
	"ahwr/internal/redaction/store/agreement"
	"ahwr/internal/redaction/store/flag"
	"ahwr/internal/redaction/store/ledger"
	"ahwr/internal/redaction/store/relational"
	"ahwr/internal/tabular"
	"ahwr/pkg/platform/circuit"
)

// Audiences of the outbound service tokens.
const (
	documentServiceAudience  = "ahwr-document-generator"
	messagingServiceAudience = "ahwr-messaging"
	redactScope              = "redact:admin"
)

// app holds the wired orchestrator and the connections it owns.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	redis    *redis.Client
	producer *producer.Producer
	tokens   *jwttoken.JWTService
	metrics  *metrics.Metrics
	service  *service.Service
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, metrics: metrics.New()}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.db, err = postgres.Open(ctx, cfg.Database); err != nil {
		return nil, err
	}
	if a.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if a.producer, err = producer.New(cfg.Kafka.Brokers); err != nil {
		return nil, err
	}
	if cfg.Services.SigningKey != "" {
		a.tokens = jwttoken.NewJWTService(cfg.Services.SigningKey, cfg.Services.Issuer)
	}

	ledgerStore := ledger.NewPostgres(a.db)
	agreements := agreement.NewPostgres(a.db)
	sel := selector.New(ledgerStore, agreements,
		identifier.New(agreements, identifier.WithMaxAttempts(cfg.Redaction.IdentifierAttempts)),
		selector.WithMetrics(a.metrics),
		selector.WithWorkerLimit(cfg.Redaction.WorkerLimit),
	)

	publisher := events.New(a.producer, cfg.Kafka.EventTopic, events.WithLogger(logger))
	steps := service.Pipeline(
		stages.NewDocuments(a.piiClient("documents", cfg.Services.DocumentGenerationURL, documentServiceAudience), ledgerStore),
		stages.NewMessages(a.piiClient("messages", cfg.Services.MessagingURL, messagingServiceAudience), ledgerStore),
		stages.NewStorage(tabular.NewRedis(a.redis.Client), ledgerStore),
		stages.NewDatabase(relational.NewPostgres(a.db), ledgerStore),
		stages.NewFlags(flag.NewPostgres(a.db), publisher, ledgerStore, stages.WithFlagWorkers(cfg.Redaction.WorkerLimit)),
	)
	if a.service, err = service.New(sel, ledgerStore, steps, service.WithMetrics(a.metrics)); err != nil {
		return nil, fmt.Errorf("build redaction pipeline: %w", err)
	}
	return a, nil
}

func (a *app) piiClient(name, baseURL, audience string) *piiclient.Client {
	breaker := circuit.New(name,
		circuit.WithFailureThreshold(a.cfg.Services.BreakerFailures),
		circuit.WithCooldown(a.cfg.Services.BreakerCooldown),
	)
	opts := []piiclient.Option{
		piiclient.WithTimeout(a.cfg.Services.HTTPTimeout),
		piiclient.WithBreaker(breaker),
	}
	if a.tokens != nil {
		opts = append(opts, piiclient.WithServiceToken(a.tokens, audience, a.cfg.Services.TokenTTL))
	}
	return piiclient.New(baseURL, opts...)
}

// Close releases every connection the app opened.
func (a *app) Close() error {
	var errs []error
	if a.producer != nil {
		a.producer.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
