package resilience

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pinnedClock is a manually advanced clock for breaker tests.
type pinnedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newPinnedClock() *pinnedClock {
	return &pinnedClock{now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}
}

func (c *pinnedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *pinnedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() Config {
	return Config{
		WindowSize:            10,
		MinCalls:              4,
		FailureRateThreshold:  0.5,
		SlowCallRateThreshold: 0.8,
		SlowCallDuration:      2 * time.Second,
		Cooldown:              30 * time.Second,
		HalfOpenMaxCalls:      3,
	}
}

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	b := NewCircuitBreaker(testConfig())
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestCircuitBreaker_StaysClosedBelowMinCalls(t *testing.T) {
	clock := newPinnedClock()
	b := newCircuitBreaker(testConfig(), clock.Now)

	// Three failures in a row, but MinCalls is 4: no rate evaluation yet.
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Allow())
		b.RecordFailure(10 * time.Millisecond)
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestCircuitBreaker_OpensOnFailureRate(t *testing.T) {
	clock := newPinnedClock()
	b := newCircuitBreaker(testConfig(), clock.Now)

	b.RecordSuccess(10 * time.Millisecond)
	b.RecordSuccess(10 * time.Millisecond)
	b.RecordFailure(10 * time.Millisecond)
	assert.Equal(t, StateClosed, b.State())

	// Fourth outcome reaches MinCalls with failure rate 2/4 = 0.5.
	b.RecordFailure(10 * time.Millisecond)
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestCircuitBreaker_OpensOnSlowCallRate(t *testing.T) {
	clock := newPinnedClock()
	cfg := testConfig()
	cfg.SlowCallRateThreshold = 0.75
	b := newCircuitBreaker(cfg, clock.Now)

	// All successful but slow: 4/4 slow >= 0.75 once MinCalls is reached.
	for i := 0; i < 4; i++ {
		b.RecordSuccess(3 * time.Second)
	}
	assert.Equal(t, StateOpen, b.State())
}

func TestCircuitBreaker_ShortCircuitsDuringCooldown(t *testing.T) {
	clock := newPinnedClock()
	b := newCircuitBreaker(testConfig(), clock.Now)
	tripBreaker(t, b)

	clock.Advance(29 * time.Second)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	assert.Equal(t, StateOpen, b.State())
}

func TestCircuitBreaker_HalfOpenAdmitsExactlyMaxTrials(t *testing.T) {
	clock := newPinnedClock()
	b := newCircuitBreaker(testConfig(), clock.Now)
	tripBreaker(t, b)

	clock.Advance(31 * time.Second)

	for i := 0; i < 3; i++ {
		assert.NoError(t, b.Allow(), "trial %d", i)
	}
	assert.Equal(t, StateHalfOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen, "fourth trial must be refused")
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := newPinnedClock()
	b := newCircuitBreaker(testConfig(), clock.Now)
	tripBreaker(t, b)

	clock.Advance(31 * time.Second)
	require.NoError(t, b.Allow())
	b.RecordSuccess(10 * time.Millisecond)
	require.NoError(t, b.Allow())
	b.RecordFailure(10 * time.Millisecond)

	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	// The fresh open period restarts the cooldown.
	clock.Advance(29 * time.Second)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	clock.Advance(2 * time.Second)
	assert.NoError(t, b.Allow())
}

func TestCircuitBreaker_HalfOpenAllTrialsSucceedCloses(t *testing.T) {
	clock := newPinnedClock()
	b := newCircuitBreaker(testConfig(), clock.Now)
	tripBreaker(t, b)

	clock.Advance(31 * time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Allow())
		b.RecordSuccess(10 * time.Millisecond)
	}
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestCircuitBreaker_ReleaseTrialReturnsHalfOpenSlot(t *testing.T) {
	clock := newPinnedClock()
	cfg := testConfig()
	cfg.HalfOpenMaxCalls = 1
	b := newCircuitBreaker(cfg, clock.Now)
	tripBreaker(t, b)

	clock.Advance(31 * time.Second)
	require.NoError(t, b.Allow())
	require.ErrorIs(t, b.Allow(), ErrCircuitOpen, "single trial slot consumed")

	// The trial ended without a usable outcome; the returned slot must keep
	// the breaker probing instead of wedging it half-open forever.
	b.ReleaseTrial()
	require.NoError(t, b.Allow())
	b.RecordSuccess(10 * time.Millisecond)
	assert.Equal(t, StateClosed, b.State())
}

func TestCircuitBreaker_ReleaseTrialNoopOutsideHalfOpen(t *testing.T) {
	clock := newPinnedClock()
	b := newCircuitBreaker(testConfig(), clock.Now)

	b.ReleaseTrial()
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())

	tripBreaker(t, b)
	b.ReleaseTrial()
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestCircuitBreaker_WindowEvictsOldOutcomes(t *testing.T) {
	clock := newPinnedClock()
	cfg := testConfig()
	cfg.WindowSize = 4
	cfg.MinCalls = 4
	b := newCircuitBreaker(cfg, clock.Now)

	// Two early failures rotate out of the 4-slot window before the rate is
	// ever above threshold again.
	b.RecordFailure(10 * time.Millisecond)
	b.RecordSuccess(10 * time.Millisecond)
	b.RecordSuccess(10 * time.Millisecond)
	// Window [F S S S]: rate 0.25, stays closed.
	b.RecordSuccess(10 * time.Millisecond)
	require.Equal(t, StateClosed, b.State())

	// Four more successes fully evict the failure.
	for i := 0; i < 4; i++ {
		b.RecordSuccess(10 * time.Millisecond)
	}
	b.RecordFailure(10 * time.Millisecond)
	// Window [S S S F]: 0.25 < 0.5.
	assert.Equal(t, StateClosed, b.State())
}

func TestCircuitBreaker_ConcurrentUse(t *testing.T) {
	b := NewCircuitBreaker(testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := b.Allow(); err != nil {
					continue
				}
				if (n+j)%2 == 0 {
					b.RecordSuccess(time.Millisecond)
				} else {
					b.RecordFailure(time.Millisecond)
				}
			}
		}(i)
	}
	wg.Wait()

	// No assertion on the final state; the test exists to run under -race.
	_ = b.State()
}

// tripBreaker drives a closed breaker to OPEN with a failure burst.
func tripBreaker(t *testing.T, b *CircuitBreaker) {
	t.Helper()
	for i := 0; i < 4; i++ {
		b.RecordFailure(10 * time.Millisecond)
	}
	require.Equal(t, StateOpen, b.State())
}
