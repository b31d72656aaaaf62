package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentaudit/auditgate/pkg/app/worker"
	"github.com/agentaudit/auditgate/pkg/infra/httpx"
	"github.com/agentaudit/auditgate/pkg/infra/providers"
	"github.com/agentaudit/auditgate/pkg/infra/retry"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Ask(ctx context.Context, config *providers.Config, prompt string) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, config, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	resp, ok := args.Get(0).(*providers.CompletionResponse)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func testBreaker() httpx.CircuitBreaker {
	return httpx.NewCircuitBreaker("worker-test", time.Minute, 100)
}

func TestProcess_RejectsBlankQuery(t *testing.T) {
	provider := new(mockProvider)
	client := worker.NewClient(newTestLogger(), provider, providers.Config{}, fastPolicy(), testBreaker())

	for _, query := range []string{"", "   ", "\t\n"} {
		result, err := client.Process(context.Background(), query)
		assert.ErrorIs(t, err, worker.ErrEmptyQuery, "query %q", query)
		assert.Nil(t, result)
	}
	provider.AssertNotCalled(t, "Ask")
}

func TestProcess_Success(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Ask", mock.Anything, mock.Anything, "What is the capital of France?").
		Return(&providers.CompletionResponse{
			Model:    "llama-3.3-70b-versatile",
			Response: "Paris.",
			Usage:    providers.Usage{TotalTokens: 12},
		}, nil)

	client := worker.NewClient(newTestLogger(), provider, providers.Config{}, fastPolicy(), testBreaker())

	result, err := client.Process(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris.", result.Response)
	assert.Equal(t, "llama-3.3-70b-versatile", result.Model)
	assert.Equal(t, 12, result.TokensUsed)
	provider.AssertNumberOfCalls(t, "Ask", 1)
}

func TestProcess_RetriesThenSucceeds(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Ask", mock.Anything, mock.Anything, "hello").
		Return(nil, errors.New("transient")).Twice()
	provider.On("Ask", mock.Anything, mock.Anything, "hello").
		Return(&providers.CompletionResponse{Response: "hi"}, nil).Once()

	client := worker.NewClient(newTestLogger(), provider, providers.Config{}, fastPolicy(), testBreaker())

	result, err := client.Process(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", result.Response)
	provider.AssertNumberOfCalls(t, "Ask", 3)
}

func TestProcess_UnavailableAfterExhaustedRetries(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Ask", mock.Anything, mock.Anything, "hello").
		Return(nil, errors.New("connection refused"))

	client := worker.NewClient(newTestLogger(), provider, providers.Config{}, fastPolicy(), testBreaker())

	result, err := client.Process(context.Background(), "hello")
	assert.ErrorIs(t, err, worker.ErrUnavailable)
	assert.Nil(t, result)
	provider.AssertNumberOfCalls(t, "Ask", 3)
}

func TestProcess_CancelledMidRetry(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Ask", mock.Anything, mock.Anything, "hello").
		Return(nil, errors.New("transient"))

	policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Minute}
	client := worker.NewClient(newTestLogger(), provider, providers.Config{}, policy, testBreaker())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Process(ctx, "hello")
	var cancelled *retry.CancelledError
	require.ErrorAs(t, err, &cancelled)
	assert.NotErrorIs(t, err, worker.ErrUnavailable)
}
