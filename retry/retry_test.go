package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ---- fake sleeper ----

type fakeSleeper struct {
	delays []time.Duration
	err    error
}

func (f *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return f.err
}

// ---- tests ----

func TestDo_FirstTrySucceeds(t *testing.T) {
	calls := 0
	s := &fakeSleeper{}

	err := doWithSleeper(context.Background(), DefaultConfig(), func() error {
		calls++
		return nil
	}, s)

	assert.Nil(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, s.delays)
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	s := &fakeSleeper{}

	err := doWithSleeper(context.Background(), DefaultConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, s)

	assert.Nil(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, s.delays, 2)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	final := errors.New("still down")
	s := &fakeSleeper{}

	err := doWithSleeper(context.Background(), DefaultConfig(), func() error {
		calls++
		return final
	}, s)

	// One initial attempt plus three retries, and the last error comes back
	// unchanged.
	assert.Equal(t, 4, calls)
	assert.Equal(t, final, err)
	assert.Len(t, s.delays, 3)
}

func TestDo_DelaysDoubleWithoutJitter(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
	s := &fakeSleeper{}

	_ = doWithSleeper(context.Background(), cfg, func() error {
		return errors.New("nope")
	}, s)

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, s.delays)
}

func TestDo_JitterStaysWithinTenPercent(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second, Jitter: true}
	s := &fakeSleeper{}

	_ = doWithSleeper(context.Background(), cfg, func() error {
		return errors.New("nope")
	}, s)

	expected := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, d := range s.delays {
		assert.GreaterOrEqual(t, d, expected[i]*9/10)
		assert.LessOrEqual(t, d, expected[i]*11/10)
	}
}

func TestDo_StopErrorEndsImmediately(t *testing.T) {
	calls := 0
	terminal := errors.New("bad request")
	s := &fakeSleeper{}

	err := doWithSleeper(context.Background(), DefaultConfig(), func() error {
		calls++
		return Stop(terminal)
	}, s)

	assert.Equal(t, 1, calls)
	assert.Equal(t, terminal, err)
	assert.Empty(t, s.delays)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := doWithSleeper(ctx, DefaultConfig(), func() error {
		calls++
		return errors.New("nope")
	}, &fakeSleeper{})

	assert.Equal(t, 0, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelayFor_CapsAtMaxDelay(t *testing.T) {
	cfg := Config{MaxRetries: 10, BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	assert.Equal(t, 5*time.Second, delayFor(cfg, 6))
}

func TestDelayFor_TinyDelaySkipsJitter(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: 5 * time.Nanosecond, Jitter: true}

	assert.NotPanics(t, func() {
		assert.Equal(t, 5*time.Nanosecond, delayFor(cfg, 0))
	})
}
