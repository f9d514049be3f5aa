// Package piiclient calls the redact endpoint exposed by the document
// generation and messaging services.
package piiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"ahwr/pkg/platform/circuit"
	"ahwr/pkg/platform/sentinel"
)

const (
	redactPath       = "/api/redact/pii"
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 4 << 10
	redactScope      = "redact:pii"
)

// AgreementToRedact is one entry of the request body. SBI is only sent to
// services that still key data by the real identifier.
type AgreementToRedact struct {
	Reference string `json:"reference"`
	SBI       string `json:"sbi,omitempty"`
}

type redactRequest struct {
	AgreementsToRedact []AgreementToRedact `json:"agreementsToRedact"`
}

// TokenSource issues bearer tokens for outbound calls.
type TokenSource interface {
	GenerateServiceToken(audience string, scope []string, expiresIn time.Duration) (string, error)
}

// Client posts redaction requests to one service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	audience   string
	tokenTTL   time.Duration
	breaker    *circuit.Breaker
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		if d > 0 {
			client.httpClient.Timeout = d
		}
	}
}

// WithServiceToken authenticates requests with a token for audience.
func WithServiceToken(tokens TokenSource, audience string, ttl time.Duration) Option {
	return func(client *Client) {
		client.tokens = tokens
		client.audience = audience
		client.tokenTTL = ttl
	}
}

// WithBreaker fails calls fast while b is open.
func WithBreaker(b *circuit.Breaker) Option {
	return func(client *Client) {
		client.breaker = b
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokenTTL:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RedactPII asks the service to redact the listed agreements. Any transport
// error or non-2xx status is a failure.
func (c *Client) RedactPII(ctx context.Context, agreements []AgreementToRedact) error {
	if c.breaker == nil {
		return c.post(ctx, agreements)
	}
	if !c.breaker.Allow() {
		return fmt.Errorf("%w: %s circuit open", sentinel.ErrUnavailable, c.breaker.Name())
	}
	if err := c.post(ctx, agreements); err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			c.breaker.RecordFailure()
		}
		return err
	}
	c.breaker.RecordSuccess()
	return nil
}

func (c *Client) post(ctx context.Context, agreements []AgreementToRedact) error {
	body, err := json.Marshal(redactRequest{AgreementsToRedact: agreements})
	if err != nil {
		return fmt.Errorf("encode redact request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+redactPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build redact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if c.tokens != nil {
		token, err := c.tokens.GenerateServiceToken(c.audience, []string{redactScope}, c.tokenTTL)
		if err != nil {
			return fmt.Errorf("sign service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post %s: %v", sentinel.ErrUnavailable, redactPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%w: post %s returned %d: %s", sentinel.ErrUnavailable, redactPath, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
