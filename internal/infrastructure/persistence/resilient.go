package persistence

import (
	"context"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/pkg/circuitbreaker"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
	"github.com/studyhelper/student-helper-bot/pkg/retry"
)

// ResilientBackend guards a remote backend with retries and a circuit
// breaker. A missing snapshot is an answer, not a failure: it is neither
// retried nor counted against the breaker.
type ResilientBackend struct {
	inner   Backend
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
}

// NewResilientBackend wraps inner. log receives breaker state changes.
func NewResilientBackend(inner Backend, log *logger.Logger) *ResilientBackend {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("snapshot_breaker"), logger.Backend(inner.Name()))

	return &ResilientBackend{
		inner:   inner,
		retrier: retry.SnapshotRetrier(retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Debug("retrying snapshot operation",
				logger.Operation("snapshot_io"),
				logger.Int("attempt", attempt),
				logger.Int64("delay_ms", delay.Milliseconds()),
				logger.Err(err),
			)
		})),
		breaker: circuitbreaker.SnapshotBreaker("snapshot-"+inner.Name(), func(name string, from, to circuitbreaker.State) {
			log.Warn("snapshot circuit state changed",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	}
}

// Name returns the wrapped backend's name.
func (b *ResilientBackend) Name() string {
	return b.inner.Name()
}

// Load reads through the breaker, retrying transient failures.
func (b *ResilientBackend) Load(ctx context.Context) ([]byte, error) {
	var (
		data     []byte
		notFound error
	)

	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		return b.retrier.Do(ctx, func(ctx context.Context) error {
			d, err := b.inner.Load(ctx)
			if shared.IsNotFound(err) {
				notFound = err
				return nil
			}
			if err != nil {
				return err
			}
			data = d
			return nil
		})
	})
	if err != nil {
		return nil, b.wrap("Load", err)
	}
	if notFound != nil {
		return nil, notFound
	}
	return data, nil
}

// Save writes through the breaker, retrying transient failures.
func (b *ResilientBackend) Save(ctx context.Context, data []byte) error {
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		return b.retrier.Do(ctx, func(ctx context.Context) error {
			return b.inner.Save(ctx, data)
		})
	})
	if err != nil {
		return b.wrap("Save", err)
	}
	return nil
}

// BreakerState exposes the breaker state for status reporting.
func (b *ResilientBackend) BreakerState() circuitbreaker.State {
	return b.breaker.State()
}

func (b *ResilientBackend) wrap(op string, err error) error {
	if shared.IsCorrupt(err) || shared.IsNotFound(err) {
		return err
	}
	return shared.WrapError("store", op, shared.ErrIO, b.inner.Name()+" snapshot unavailable", err)
}
