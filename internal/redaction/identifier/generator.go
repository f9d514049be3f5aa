// Package identifier issues replacement business identifiers that take the
// place of a real SBI once personal linkage has to be severed.
package identifier

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"sync"
)

const (
	minIdentifier = 100_000_000
	maxIdentifier = 999_999_999

	DefaultMaxAttempts = 10
)

// ErrExhausted is returned when every attempt collided with an identifier
// already in use.
var ErrExhausted = errors.New("replacement identifier attempts exhausted")

//go:generate mockgen -source=generator.go -destination=mocks/mocks.go -package=mocks SBIChecker

// SBIChecker reports whether an identifier is already used by an agreement.
type SBIChecker interface {
	SBIExists(ctx context.Context, sbi string) (bool, error)
}

// Generator issues 9-digit identifiers that collide with neither an existing
// agreement nor anything it has issued before.
type Generator struct {
	checker     SBIChecker
	maxAttempts int
	random      io.Reader

	mu     sync.Mutex
	issued map[string]struct{}
}

type Option func(*Generator)

// WithMaxAttempts bounds the collision retries per identifier.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithRandom replaces crypto/rand as the entropy source.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.random = r
	}
}

func New(checker SBIChecker, opts ...Option) *Generator {
	g := &Generator{
		checker:     checker,
		maxAttempts: DefaultMaxAttempts,
		random:      rand.Reader,
		issued:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a fresh replacement identifier.
func (g *Generator) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate, err := g.draw()
		if err != nil {
			return "", err
		}
		if !g.reserve(candidate) {
			continue
		}
		exists, err := g.checker.SBIExists(ctx, candidate)
		if err != nil {
			g.release(candidate)
			return "", fmt.Errorf("check replacement identifier: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, g.maxAttempts)
}

func (g *Generator) draw() (string, error) {
	n, err := rand.Int(g.random, big.NewInt(maxIdentifier-minIdentifier+1))
	if err != nil {
		return "", fmt.Errorf("draw replacement identifier: %w", err)
	}
	return strconv.FormatInt(n.Int64()+minIdentifier, 10), nil
}

// reserve claims candidate for this process. A candidate that exists in the
// agreement store stays reserved so it is never drawn again.
func (g *Generator) reserve(candidate string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, taken := g.issued[candidate]; taken {
		return false
	}
	g.issued[candidate] = struct{}{}
	return true
}

func (g *Generator) release(candidate string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.issued, candidate)
}
