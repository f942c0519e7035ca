package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
	"github.com/autofin/credit-engine/internal/infrastructure/resilience"
	"github.com/autofin/credit-engine/internal/observability"
)

// ---------------------------------------------------------------------------
// ResilientScoreGateway – timeout + retry + circuit breaker + fallback
// ---------------------------------------------------------------------------

// ScoreGatewayConfig tunes the resilience layers around the score oracle.
type ScoreGatewayConfig struct {
	// CallTimeout bounds each individual oracle attempt.
	CallTimeout time.Duration
	// MaxAttempts is the total number of attempts (first call + retries).
	MaxAttempts int
	// RetryInitialBackoff seeds the exponential backoff between attempts.
	RetryInitialBackoff time.Duration
	// RetryMaxBackoff caps the backoff interval.
	RetryMaxBackoff time.Duration
	// FallbackScore is the conservative default substituted when the oracle
	// cannot be reached.
	FallbackScore int
}

// DefaultScoreGatewayConfig returns production defaults.
func DefaultScoreGatewayConfig() ScoreGatewayConfig {
	return ScoreGatewayConfig{
		CallTimeout:         3 * time.Second,
		MaxAttempts:         3,
		RetryInitialBackoff: 200 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Second,
		FallbackScore:       620,
	}
}

func (c ScoreGatewayConfig) withDefaults() ScoreGatewayConfig {
	d := DefaultScoreGatewayConfig()
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.RetryInitialBackoff <= 0 {
		c.RetryInitialBackoff = d.RetryInitialBackoff
	}
	if c.RetryMaxBackoff <= 0 {
		c.RetryMaxBackoff = d.RetryMaxBackoff
	}
	if c.FallbackScore < valueobject.MinCreditScore || c.FallbackScore > valueobject.MaxCreditScore {
		c.FallbackScore = d.FallbackScore
	}
	return c
}

// ResilientScoreGateway implements port.ScoreProvider by wrapping an
// unreliable port.ScoreOracle in four layers: a per-attempt timeout,
// exponential-backoff retry of transient failures, a shared circuit breaker,
// and a fixed fallback score. Availability failures never propagate to the
// caller; every call resolves to a ScoreResult.
//
// The breaker is the only shared mutable state; its bookkeeping is
// synchronized internally while the oracle calls proceed concurrently.
type ResilientScoreGateway struct {
	oracle  port.ScoreOracle
	breaker *resilience.CircuitBreaker
	cfg     ScoreGatewayConfig
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewResilientScoreGateway creates a gateway around the given oracle. metrics
// may be nil.
func NewResilientScoreGateway(
	oracle port.ScoreOracle,
	breaker *resilience.CircuitBreaker,
	cfg ScoreGatewayConfig,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *ResilientScoreGateway {
	return &ResilientScoreGateway{
		oracle:  oracle,
		breaker: breaker,
		cfg:     cfg.withDefaults(),
		logger:  logger,
		metrics: metrics,
	}
}

// FetchScore obtains a CreditScore for the document. On any availability
// failure (breaker open, retries exhausted, timeouts) it resolves to the
// configured fallback score marked Fallback=true. It errors only for truly
// invalid input or when the caller's own context is cancelled.
func (g *ResilientScoreGateway) FetchScore(
	ctx context.Context,
	document valueobject.DocumentNumber,
) (port.ScoreResult, error) {
	if document.IsZero() {
		return port.ScoreResult{}, fmt.Errorf("%w: document number is required", valueobject.ErrInvalidInput)
	}

	var result port.ScoreResult
	op := func() error {
		if err := g.breaker.Allow(); err != nil {
			// Short-circuit: no network attempt while the breaker is open.
			return backoff.Permanent(err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
		defer cancel()

		start := time.Now()
		raw, err := g.oracle.GetScore(attemptCtx, document)
		elapsed := time.Since(start)
		g.metrics.ObserveOracleCall(elapsed.Seconds())

		if err != nil {
			if isTransient(err) {
				g.breaker.RecordFailure(elapsed)
				return err
			}
			// Validation-type failure or cancelled caller: says nothing about
			// the oracle's health, so hand any half-open trial slot back
			// instead of leaving it consumed and unresolved.
			g.breaker.ReleaseTrial()
			return backoff.Permanent(err)
		}

		score, err := valueobject.NewCreditScore(raw)
		if err != nil {
			// A malformed payload is a failed call, not a usable score.
			g.breaker.RecordFailure(elapsed)
			return fmt.Errorf("%w: oracle returned out-of-range score %d", port.ErrOracleUnavailable, raw)
		}

		g.breaker.RecordSuccess(elapsed)
		result = port.ScoreResult{Score: score}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.cfg.RetryInitialBackoff
	bo.MaxInterval = g.cfg.RetryMaxBackoff
	bo.MaxElapsedTime = 0

	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(g.cfg.MaxAttempts-1)), ctx))
	g.metrics.ObserveBreakerState(float64(g.breaker.State()))

	if err == nil {
		return result, nil
	}
	if !isAvailability(err) {
		return port.ScoreResult{}, err
	}

	g.logger.Warn("score oracle unavailable, serving fallback score",
		"document", maskDocument(document.Value()),
		"fallback_score", g.cfg.FallbackScore,
		"breaker_state", g.breaker.State().String(),
		"error", err,
	)
	g.metrics.ObserveFallbackScore()

	fallback, ferr := valueobject.NewCreditScore(g.cfg.FallbackScore)
	if ferr != nil {
		return port.ScoreResult{}, fmt.Errorf("fallback score misconfigured: %w", ferr)
	}
	return port.ScoreResult{Score: fallback, Fallback: true}, nil
}

// isTransient reports whether the failure is worth retrying: oracle
// unavailability or a timed-out attempt.
func isTransient(err error) bool {
	return errors.Is(err, port.ErrOracleUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// isAvailability reports whether the terminal error is an availability
// failure the gateway must absorb into the fallback score. A cancelled caller
// is not one: the fallback contract covers the oracle being unreachable, not
// the caller abandoning the request.
func isAvailability(err error) bool {
	return isTransient(err) || errors.Is(err, resilience.ErrCircuitOpen)
}

// maskDocument hides all but the last three characters for log output.
func maskDocument(doc string) string {
	if len(doc) <= 3 {
		return doc
	}
	return strings.Repeat("*", len(doc)-3) + doc[len(doc)-3:]
}
