package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/studyhelper/student-helper-bot/pkg/circuitbreaker"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
	"github.com/studyhelper/student-helper-bot/pkg/retry"
)

// Observer receives one call per Generate on a Resilient generator.
type Observer interface {
	ObserveGeneration(provider string, d time.Duration, err error)
}

// Resilient guards a provider with a rate limit, a per-call timeout,
// retries and a circuit breaker. Every failure it returns wraps
// ErrUnavailable.
type Resilient struct {
	inner    Generator
	name     string
	timeout  time.Duration
	limiter  *rate.Limiter
	retrier  *retry.Retrier
	breaker  *circuitbreaker.CircuitBreaker
	log      *logger.Logger
	observer Observer
}

// ResilientOption configures a Resilient generator.
type ResilientOption func(*Resilient)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) ResilientOption {
	return func(r *Resilient) { r.log = l }
}

// WithObserver reports every call to o.
func WithObserver(o Observer) ResilientOption {
	return func(r *Resilient) { r.observer = o }
}

// WithBreaker replaces the default breaker.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) ResilientOption {
	return func(r *Resilient) { r.breaker = cb }
}

// NewResilient wraps inner using the limits in cfg.
func NewResilient(inner Generator, cfg Config, opts ...ResilientOption) *Resilient {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}

	r := &Resilient{
		inner:   inner,
		name:    providerName(inner, cfg),
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		retrier: retry.GeneratorRetrier(cfg.MaxAttempts),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("generator"), logger.String("provider", r.name))
	if r.breaker == nil {
		r.breaker = circuitbreaker.GeneratorBreaker(func(name string, from, to circuitbreaker.State) {
			r.log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		})
	}
	return r
}

// Name returns the wrapped provider's name.
func (r *Resilient) Name() string { return r.name }

// BreakerState reports the breaker state for status output.
func (r *Resilient) BreakerState() string { return r.breaker.State().String() }

// Generate calls the provider. A call over the rate limit fails at once
// rather than holding up the chat.
func (r *Resilient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := r.generate(ctx, prompt)
	if r.observer != nil {
		r.observer.ObserveGeneration(r.name, time.Since(start), err)
	}
	if err != nil {
		r.log.Debug("generation failed", logger.Err(err), logger.Latency(time.Since(start)))
		if errors.Is(err, ErrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

func (r *Resilient) generate(ctx context.Context, prompt string) (string, error) {
	if !r.limiter.Allow() {
		return "", fmt.Errorf("%w: rate limited", ErrUnavailable)
	}

	var out string
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.retrier.Do(ctx, func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			s, err := r.inner.Generate(callCtx, prompt)
			if err != nil {
				if retry.IsPermanent(err) || ctx.Err() != nil {
					return err
				}
				return retry.Retryable(err)
			}
			out = s
			return nil
		})
	})
	return out, err
}

func permanent(err error) error { return retry.Permanent(err) }

func providerName(g Generator, cfg Config) string {
	if n, ok := g.(interface{ Name() string }); ok {
		return n.Name()
	}
	if cfg.Provider != "" {
		return cfg.Provider
	}
	return "custom"
}
