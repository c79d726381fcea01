package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroBackoff struct{}

func (zeroBackoff) Next(int) time.Duration { return 0 }

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	}, Policy{Name: "test_ok", Attempts: 5, Backoff: zeroBackoff{}})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	exhausted := false
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return fatal
	}, Policy{
		Name:      "test_fatal",
		Attempts:  5,
		Backoff:   zeroBackoff{},
		Retryable: func(err error) bool { return !errors.Is(err, fatal) },
		OnExhaust: func(error) { exhausted = true },
	})
	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
	assert.True(t, exhausted)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	var attempts []int
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("still failing")
	}, Policy{
		Name:      "test_exhaust",
		Attempts:  3,
		Backoff:   zeroBackoff{},
		OnAttempt: func(i int, _ error) { attempts = append(attempts, i) },
	})
	require.EqualError(t, err, "still failing")
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{0, 1, 2}, attempts)
}

func TestDo_HonoursContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	}, Policy{Name: "test_cancel", Attempts: 5, Backoff: ExpoJitter{Base: time.Hour}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExpoJitter_CapsAtMax(t *testing.T) {
	b := ExpoJitter{Base: 100 * time.Millisecond, Max: time.Second}
	assert.Equal(t, 100*time.Millisecond, b.Next(0))
	assert.Equal(t, 400*time.Millisecond, b.Next(2))
	assert.Equal(t, time.Second, b.Next(10))

	j := ExpoJitter{Base: time.Second, Jitter: 0.2}
	for i := 0; i < 20; i++ {
		d := j.Next(0)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	bad := errors.New("undecodable")
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(bad)
	}, Policy{Name: "test_permanent", Attempts: 4, Backoff: zeroBackoff{}})
	require.ErrorIs(t, err, bad)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, 1, calls)
	assert.NoError(t, Permanent(nil))
}

func TestExpoJitter_LargeAttemptDoesNotOverflow(t *testing.T) {
	b := ExpoJitter{Base: time.Second}
	assert.Positive(t, b.Next(200))
}
