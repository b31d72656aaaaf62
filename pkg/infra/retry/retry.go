package retry

import (
	"context"
	"fmt"
	"time"
)

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// Observer is notified once per attempt, success or failure. err is nil on
// the successful attempt.
type Observer interface {
	ObserveAttempt(attempt int, err error)
}

type ObserverFunc func(attempt int, err error)

func (f ObserverFunc) ObserveAttempt(attempt int, err error) {
	f(attempt, err)
}

// ExhaustedError carries the last underlying error after all attempts failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// CancelledError is returned when the context fires while waiting between
// attempts.
type CancelledError struct {
	Attempts int
	Cause    error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("operation cancelled after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// Do invokes op up to policy.MaxAttempts times, waiting
// BaseDelay * 2^(attempt-1) between failures. The first success returns
// immediately. The wait is interrupted by ctx cancellation, which yields a
// CancelledError instead of sleeping out the backoff.
func Do[T any](ctx context.Context, policy Policy, observer Observer, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if observer != nil {
			observer.ObserveAttempt(attempt, err)
		}
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.BaseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &CancelledError{Attempts: attempt, Cause: ctx.Err()}
		case <-timer.C:
		}
	}

	return zero, &ExhaustedError{Attempts: policy.MaxAttempts, Last: lastErr}
}
