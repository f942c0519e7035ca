package resilience

import (
	"errors"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// CircuitBreaker – CLOSED / OPEN / HALF_OPEN over a rolling outcome window
// ---------------------------------------------------------------------------

// ErrCircuitOpen is returned by Allow while the breaker is short-circuiting.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker's position.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the conventional state name.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// Config tunes the breaker. Zero fields fall back to the defaults below.
type Config struct {
	// WindowSize is the number of recent call outcomes considered.
	WindowSize int
	// MinCalls is how many outcomes the window needs before rates are evaluated.
	MinCalls int
	// FailureRateThreshold opens the breaker when the window's failure rate
	// reaches it (0..1].
	FailureRateThreshold float64
	// SlowCallRateThreshold opens the breaker when the window's slow-call
	// rate reaches it (0..1].
	SlowCallRateThreshold float64
	// SlowCallDuration is the latency above which a call counts as slow.
	SlowCallDuration time.Duration
	// Cooldown is how long the breaker stays open before permitting trials.
	Cooldown time.Duration
	// HalfOpenMaxCalls is the number of trial calls permitted while half-open.
	HalfOpenMaxCalls int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize:            20,
		MinCalls:              5,
		FailureRateThreshold:  0.5,
		SlowCallRateThreshold: 0.8,
		SlowCallDuration:      2 * time.Second,
		Cooldown:              30 * time.Second,
		HalfOpenMaxCalls:      3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.MinCalls <= 0 {
		c.MinCalls = d.MinCalls
	}
	if c.FailureRateThreshold <= 0 {
		c.FailureRateThreshold = d.FailureRateThreshold
	}
	if c.SlowCallRateThreshold <= 0 {
		c.SlowCallRateThreshold = d.SlowCallRateThreshold
	}
	if c.SlowCallDuration <= 0 {
		c.SlowCallDuration = d.SlowCallDuration
	}
	if c.Cooldown <= 0 {
		c.Cooldown = d.Cooldown
	}
	if c.HalfOpenMaxCalls <= 0 {
		c.HalfOpenMaxCalls = d.HalfOpenMaxCalls
	}
	return c
}

type outcome struct {
	failure bool
	slow    bool
}

// CircuitBreaker tracks a rolling count-based window of call outcomes and
// short-circuits once the failure or slow-call rate crosses its threshold.
//
// Only the bookkeeping is synchronized: callers consult Allow, run the
// outbound call unsynchronized, then record the outcome exactly once via
// RecordSuccess or RecordFailure.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	state    State
	openedAt time.Time

	// rolling window ring buffer with running counts
	window   []outcome
	head     int
	filled   int
	failures int
	slows    int

	// half-open trial accounting
	trialsIssued    int
	trialsSucceeded int
}

// NewCircuitBreaker creates a breaker in CLOSED state.
func NewCircuitBreaker(cfg Config) *CircuitBreaker {
	return newCircuitBreaker(cfg, func() time.Time { return time.Now() })
}

// newCircuitBreaker allows tests to pin the clock.
func newCircuitBreaker(cfg Config, now func() time.Time) *CircuitBreaker {
	cfg = cfg.withDefaults()
	return &CircuitBreaker{
		cfg:    cfg,
		now:    now,
		state:  StateClosed,
		window: make([]outcome, cfg.WindowSize),
	}
}

// Allow reports whether a call may proceed. While open it returns
// ErrCircuitOpen without any network attempt; once the cooldown elapses it
// moves to half-open and admits exactly HalfOpenMaxCalls trial calls.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return ErrCircuitOpen
		}
		b.toHalfOpen()
		fallthrough
	case StateHalfOpen:
		if b.trialsIssued >= b.cfg.HalfOpenMaxCalls {
			return ErrCircuitOpen
		}
		b.trialsIssued++
		return nil
	}
	return nil
}

// RecordSuccess records a successful call outcome with its latency.
func (b *CircuitBreaker) RecordSuccess(elapsed time.Duration) {
	b.record(outcome{failure: false, slow: elapsed >= b.cfg.SlowCallDuration})
}

// RecordFailure records a failed call outcome with its latency.
func (b *CircuitBreaker) RecordFailure(elapsed time.Duration) {
	b.record(outcome{failure: true, slow: elapsed >= b.cfg.SlowCallDuration})
}

// ReleaseTrial hands back a half-open trial slot consumed by Allow when the
// call ended without saying anything about the oracle's health (a validation
// failure, a cancelled caller). Without this, leaked slots would pin the
// breaker in HALF_OPEN with no path back to CLOSED or OPEN. No-op in other
// states.
func (b *CircuitBreaker) ReleaseTrial() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen && b.trialsIssued > 0 {
		b.trialsIssued--
	}
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *CircuitBreaker) record(o outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.push(o)
		if b.filled >= b.cfg.MinCalls {
			total := float64(b.filled)
			if float64(b.failures)/total >= b.cfg.FailureRateThreshold ||
				float64(b.slows)/total >= b.cfg.SlowCallRateThreshold {
				b.trip()
			}
		}
	case StateHalfOpen:
		if o.failure {
			b.trip()
			return
		}
		b.trialsSucceeded++
		if b.trialsSucceeded >= b.cfg.HalfOpenMaxCalls {
			b.reset()
		}
	case StateOpen:
		// A straggler from before the trip; the window was already reset.
	}
}

// push evicts the oldest outcome once the ring is full, keeping the running
// counts consistent.
func (b *CircuitBreaker) push(o outcome) {
	if b.filled == len(b.window) {
		old := b.window[b.head]
		if old.failure {
			b.failures--
		}
		if old.slow {
			b.slows--
		}
	} else {
		b.filled++
	}
	b.window[b.head] = o
	b.head = (b.head + 1) % len(b.window)
	if o.failure {
		b.failures++
	}
	if o.slow {
		b.slows++
	}
}

func (b *CircuitBreaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.clearWindow()
}

func (b *CircuitBreaker) toHalfOpen() {
	b.state = StateHalfOpen
	b.trialsIssued = 0
	b.trialsSucceeded = 0
}

func (b *CircuitBreaker) reset() {
	b.state = StateClosed
	b.clearWindow()
}

func (b *CircuitBreaker) clearWindow() {
	b.head = 0
	b.filled = 0
	b.failures = 0
	b.slows = 0
}
