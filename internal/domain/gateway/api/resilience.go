package api

import (
	"context"
	"errors"
	"time"

	"go-weather/internal/domain/apierror"
	"go-weather/pkg/log"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// guard wraps every upstream call with a client-side rate limit and a circuit
// breaker. Only Unavailable failures count against the breaker: a bad key or
// an unknown location says nothing about the provider's health.
type guard struct {
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	recorder CallRecorder
}

func newGuard(name string, cfg Config, recorder CallRecorder) *guard {
	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &guard{
		limiter:  rate.NewLimiter(limit, burst),
		breaker:  breaker,
		recorder: recorder,
	}
}

// do runs call under the limiter and breaker. call must return nil or an *apierror.Error.
func (g *guard) do(ctx context.Context, endpoint string, call func() error) error {
	start := time.Now()
	err := g.run(ctx, call)
	g.recorder.ObserveProviderCall(endpoint, outcome(err), time.Since(start))
	return err
}

func (g *guard) run(ctx context.Context, call func() error) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return apierror.NewUnavailableError("Weather API request aborted while rate limited", 0, err)
	}

	// Non-transient failures travel through the result so the breaker records a success.
	result, err := g.breaker.Execute(func() (interface{}, error) {
		callErr := call()
		if errors.Is(callErr, apierror.ErrUnavailable) {
			return nil, callErr
		}
		return callErr, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apierror.NewUnavailableError("Weather API is currently unavailable", 0, err)
	}
	if err != nil {
		return err
	}
	if callErr, ok := result.(error); ok && callErr != nil {
		return callErr
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := apierror.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}
