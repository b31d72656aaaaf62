package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentaudit/auditgate/pkg/infra/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	attempts []int
	errs     []error
}

func (o *recordingObserver) ObserveAttempt(attempt int, err error) {
	o.attempts = append(o.attempts, attempt)
	o.errs = append(o.errs, err)
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	obs := &recordingObserver{}
	policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	result, err := retry.Do(context.Background(), policy, obs, func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, []int{1}, obs.attempts)
}

func TestDo_FailsTwiceThenSucceeds(t *testing.T) {
	obs := &recordingObserver{}
	policy := retry.Policy{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond}

	calls := 0
	start := time.Now()
	result, err := retry.Do(context.Background(), policy, obs, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, []int{1, 2, 3}, obs.attempts)
	assert.Error(t, obs.errs[0])
	assert.Error(t, obs.errs[1])
	assert.NoError(t, obs.errs[2])
	// waited ~base + 2*base between attempts
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestDo_Exhausted(t *testing.T) {
	obs := &recordingObserver{}
	policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	boom := errors.New("boom")
	_, err := retry.Do(context.Background(), policy, obs, func(ctx context.Context) (int, error) {
		return 0, boom
	})

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, obs.attempts, 3)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := retry.Do(ctx, policy, nil, func(ctx context.Context) (int, error) {
		return 0, errors.New("transient")
	})

	var cancelled *retry.CancelledError
	require.ErrorAs(t, err, &cancelled)
	assert.Equal(t, 1, cancelled.Attempts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "cancellation must interrupt the backoff wait")
}

func TestDo_SingleAttemptFloor(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{MaxAttempts: 0}, nil, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	})

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, calls)
}
