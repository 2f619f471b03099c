// Package resilient wraps a kv.Store so repeated transient Store failures
// trip a circuit breaker instead of letting every caller pile retries onto
// an already-struggling backend, the same role gobreaker plays around the
// teacher's outbound DynamoDB calls.
package resilient

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"graphreason/kv"
)

// Store decorates an inner kv.Store with a gobreaker.CircuitBreaker around
// WithTransaction. While the breaker is open, WithTransaction fails fast
// with the breaker's own error instead of calling through to the inner
// Store, protecting the Maintainer/Scanner/Traverser from piling work onto
// a Store that is already failing.
type Store struct {
	inner   kv.Store
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// Settings configures the wrapped breaker; a zero value uses gobreaker's
// own defaults (more than 5 consecutive failures trip the breaker, 60s
// open timeout).
type Settings struct {
	Name        string
	MaxRequests uint32
	OnStateChange func(name string, from, to gobreaker.State)
}

// New wraps inner with a circuit breaker named by settings.Name.
func New(inner kv.Store, settings Settings, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := settings.Name
	if name == "" {
		name = "kv-store"
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		OnStateChange: func(n string, from, to gobreaker.State) {
			logger.Warn("store circuit breaker state change",
				zap.String("breaker", n),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if settings.OnStateChange != nil {
				settings.OnStateChange(n, from, to)
			}
		},
	})

	return &Store{inner: inner, breaker: cb, logger: logger}
}

func (s *Store) KeySizeLimit() int { return s.inner.KeySizeLimit() }

// WithTransaction routes the call through the circuit breaker. The breaker
// counts any error the inner WithTransaction returns as a failure,
// including an error returned by body for application-level reasons
// (e.g. a validation rejection); it does not distinguish those from
// errors of the Store itself.
func (s *Store) WithTransaction(ctx context.Context, cfg kv.TxConfig, body func(ctx context.Context, tx kv.Transaction) error) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.WithTransaction(ctx, cfg, body)
	})
	if err != nil {
		return fmt.Errorf("resilient store: %w", err)
	}
	return nil
}
