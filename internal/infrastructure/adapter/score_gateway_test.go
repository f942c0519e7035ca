package adapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
	"github.com/autofin/credit-engine/internal/infrastructure/resilience"
)

// scriptedOracle returns canned outcomes in order, then repeats the last one.
type scriptedOracle struct {
	mu       sync.Mutex
	scores   []int
	errs     []error
	calls    int
	perCall  time.Duration
	lastDocs []valueobject.DocumentNumber
}

func (o *scriptedOracle) GetScore(ctx context.Context, document valueobject.DocumentNumber) (int, error) {
	o.mu.Lock()
	i := o.calls
	o.calls++
	o.lastDocs = append(o.lastDocs, document)
	if i >= len(o.errs) {
		i = len(o.errs) - 1
	}
	score, err := o.scores[i], o.errs[i]
	delay := o.perCall
	o.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return score, err
}

func (o *scriptedOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func fastGatewayConfig() ScoreGatewayConfig {
	return ScoreGatewayConfig{
		CallTimeout:         50 * time.Millisecond,
		MaxAttempts:         3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     5 * time.Millisecond,
		FallbackScore:       620,
	}
}

func testDoc() valueobject.DocumentNumber {
	return valueobject.MustDocumentNumber("12345678")
}

func newTestGateway(oracle port.ScoreOracle, breaker *resilience.CircuitBreaker) *ResilientScoreGateway {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultConfig())
	}
	return NewResilientScoreGateway(oracle, breaker, fastGatewayConfig(),
		slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestResilientScoreGateway_Success(t *testing.T) {
	oracle := &scriptedOracle{scores: []int{742}, errs: []error{nil}}
	gateway := newTestGateway(oracle, nil)

	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err)
	assert.Equal(t, 742, result.Score.Value())
	assert.False(t, result.Fallback)
	assert.Equal(t, 1, oracle.callCount())
}

func TestResilientScoreGateway_RetriesTransientThenSucceeds(t *testing.T) {
	oracle := &scriptedOracle{
		scores: []int{0, 0, 688},
		errs:   []error{port.ErrOracleUnavailable, port.ErrOracleUnavailable, nil},
	}
	gateway := newTestGateway(oracle, nil)

	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err)
	assert.Equal(t, 688, result.Score.Value())
	assert.False(t, result.Fallback)
	assert.Equal(t, 3, oracle.callCount())
}

func TestResilientScoreGateway_ExhaustedRetriesServeFallback(t *testing.T) {
	oracle := &scriptedOracle{
		scores: []int{0},
		errs:   []error{port.ErrOracleUnavailable},
	}
	gateway := newTestGateway(oracle, nil)

	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err, "availability failures must never surface")
	assert.Equal(t, 620, result.Score.Value())
	assert.True(t, result.Fallback)
	assert.Equal(t, 3, oracle.callCount(), "MaxAttempts attempts, then fallback")
}

func TestResilientScoreGateway_TimeoutsServeFallback(t *testing.T) {
	oracle := &scriptedOracle{
		scores:  []int{700},
		errs:    []error{nil},
		perCall: 200 * time.Millisecond, // each attempt outlives the 50ms budget
	}
	gateway := newTestGateway(oracle, nil)

	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err)
	assert.Equal(t, 620, result.Score.Value())
	assert.True(t, result.Fallback)
}

func TestResilientScoreGateway_OpenBreakerShortCircuits(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.Config{
		WindowSize: 4, MinCalls: 2, FailureRateThreshold: 0.5,
		Cooldown: time.Hour, HalfOpenMaxCalls: 1,
	})
	breaker.RecordFailure(time.Millisecond)
	breaker.RecordFailure(time.Millisecond)
	require.Equal(t, resilience.StateOpen, breaker.State())

	oracle := &scriptedOracle{scores: []int{700}, errs: []error{nil}}
	gateway := newTestGateway(oracle, breaker)

	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err)
	assert.Equal(t, 620, result.Score.Value())
	assert.True(t, result.Fallback)
	assert.Zero(t, oracle.callCount(), "open breaker must not touch the oracle")
}

func TestResilientScoreGateway_PermanentErrorNotRetried(t *testing.T) {
	permanent := errors.New("document not registered with bureau")
	oracle := &scriptedOracle{scores: []int{0}, errs: []error{permanent}}
	gateway := newTestGateway(oracle, nil)

	_, err := gateway.FetchScore(context.Background(), testDoc())
	require.Error(t, err)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, oracle.callCount(), "non-transient errors are not retried")
}

func TestResilientScoreGateway_OutOfRangeScoreIsUnavailability(t *testing.T) {
	oracle := &scriptedOracle{scores: []int{9999}, errs: []error{nil}}
	gateway := newTestGateway(oracle, nil)

	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, 620, result.Score.Value())
}

func TestResilientScoreGateway_RepeatedFailuresTripBreaker(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.Config{
		WindowSize: 10, MinCalls: 4, FailureRateThreshold: 0.5,
		Cooldown: time.Hour, HalfOpenMaxCalls: 1,
	})
	oracle := &scriptedOracle{scores: []int{0}, errs: []error{port.ErrOracleUnavailable}}
	gateway := newTestGateway(oracle, breaker)

	// Two calls of three attempts each: enough recorded failures to trip.
	for i := 0; i < 2; i++ {
		result, err := gateway.FetchScore(context.Background(), testDoc())
		require.NoError(t, err)
		assert.True(t, result.Fallback)
	}
	assert.Equal(t, resilience.StateOpen, breaker.State())

	// Subsequent calls short-circuit without reaching the oracle.
	before := oracle.callCount()
	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, before, oracle.callCount())
}

func TestResilientScoreGateway_PermanentErrorDuringHalfOpenTrialDoesNotWedgeBreaker(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.Config{
		WindowSize: 2, MinCalls: 2, FailureRateThreshold: 0.5,
		Cooldown: 20 * time.Millisecond, HalfOpenMaxCalls: 1,
	})
	breaker.RecordFailure(time.Millisecond)
	breaker.RecordFailure(time.Millisecond)
	require.Equal(t, resilience.StateOpen, breaker.State())

	// The authority recovers after one permanent rejection.
	permanent := errors.New("document not registered with bureau")
	oracle := &scriptedOracle{scores: []int{0, 742}, errs: []error{permanent, nil}}
	gateway := newTestGateway(oracle, breaker)

	time.Sleep(30 * time.Millisecond)

	// The sole half-open trial ends in a permanent error, which must hand the
	// slot back rather than leave it consumed and unresolved.
	_, err := gateway.FetchScore(context.Background(), testDoc())
	require.ErrorIs(t, err, permanent)

	// The next call must reach the recovered oracle and close the breaker,
	// not short-circuit to the fallback forever.
	result, err := gateway.FetchScore(context.Background(), testDoc())
	require.NoError(t, err)
	assert.Equal(t, 742, result.Score.Value())
	assert.False(t, result.Fallback)
	assert.Equal(t, 2, oracle.callCount())
	assert.Equal(t, resilience.StateClosed, breaker.State())
}

func TestResilientScoreGateway_CancelledCallerGetsErrorNotFallback(t *testing.T) {
	oracle := &scriptedOracle{
		scores:  []int{742},
		errs:    []error{nil},
		perCall: 10 * time.Millisecond,
	}
	gateway := newTestGateway(oracle, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.FetchScore(ctx, testDoc())
	require.Error(t, err, "a cancelled caller must not receive a fabricated score")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResilientScoreGateway_ZeroDocumentRejected(t *testing.T) {
	gateway := newTestGateway(&scriptedOracle{scores: []int{700}, errs: []error{nil}}, nil)

	_, err := gateway.FetchScore(context.Background(), valueobject.DocumentNumber{})
	assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
}

func TestStubScoreOracle_DeterministicInRange(t *testing.T) {
	oracle := NewStubScoreOracle()
	doc := testDoc()

	first, err := oracle.GetScore(context.Background(), doc)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first, valueobject.MinCreditScore)
	assert.LessOrEqual(t, first, valueobject.MaxCreditScore)

	again, err := oracle.GetScore(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestMaskDocument(t *testing.T) {
	assert.Equal(t, "*****678", maskDocument("12345678"))
	assert.Equal(t, "123", maskDocument("123"))
}
