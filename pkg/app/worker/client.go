package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agentaudit/auditgate/pkg/infra/httpx"
	"github.com/agentaudit/auditgate/pkg/infra/providers"
	"github.com/agentaudit/auditgate/pkg/infra/retry"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyQuery is returned before any external call is made.
	ErrEmptyQuery = errors.New("query must contain at least one non-whitespace character")
	// ErrUnavailable is returned when the worker model exhausted all retry
	// attempts. Fatal for the request: no record is created.
	ErrUnavailable = errors.New("worker model unavailable")
)

// Result is the worker model's answer to one query. Only persisted as part
// of an audit record.
type Result struct {
	Response   string
	Model      string
	TokensUsed int
}

type Client interface {
	Process(ctx context.Context, query string) (*Result, error)
}

type client struct {
	logger   *logrus.Logger
	provider providers.Client
	config   providers.Config
	policy   retry.Policy
	breaker  httpx.CircuitBreaker
}

func NewClient(
	logger *logrus.Logger,
	provider providers.Client,
	config providers.Config,
	policy retry.Policy,
	breaker httpx.CircuitBreaker,
) Client {
	return &client{
		logger:   logger,
		provider: provider,
		config:   config,
		policy:   policy,
		breaker:  breaker,
	}
}

func (c *client) Process(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	observer := retry.ObserverFunc(func(attempt int, err error) {
		entry := c.logger.WithFields(logrus.Fields{
			"role":         "worker",
			"attempt":      attempt,
			"max_attempts": c.policy.MaxAttempts,
		})
		if err != nil {
			entry.WithError(err).Warn("worker model call failed")
			return
		}
		entry.Debug("worker model call succeeded")
	})

	resp, err := retry.Do(ctx, c.policy, observer, func(ctx context.Context) (*providers.CompletionResponse, error) {
		var completion *providers.CompletionResponse
		execErr := c.breaker.Execute(func() error {
			r, askErr := c.provider.Ask(ctx, &c.config, query)
			if askErr != nil {
				return askErr
			}
			completion = r
			return nil
		})
		if execErr != nil {
			return nil, execErr
		}
		return completion, nil
	})
	if err != nil {
		var cancelled *retry.CancelledError
		if errors.As(err, &cancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Result{
		Response:   resp.Response,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
