package httpx_test

import (
	"errors"
	"testing"
	"time"

	"github.com/agentaudit/auditgate/pkg/infra/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	cb := httpx.NewCircuitBreaker("test", time.Second, 3)
	require.NoError(t, cb.Execute(func() error { return nil }))
}

func TestCircuitBreaker_WrapsFailure(t *testing.T) {
	cb := httpx.NewCircuitBreaker("worker", time.Second, 3)
	boom := errors.New("boom")

	err := cb.Execute(func() error { return boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "worker")
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := httpx.NewCircuitBreaker("test", time.Minute, 2)
	boom := errors.New("boom")

	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return boom })

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})
	assert.Error(t, err, "breaker should be open")
	assert.Zero(t, calls, "open breaker must not invoke the operation")
}
