package auditor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/infra/httpx"
	"github.com/agentaudit/auditgate/pkg/infra/metrics"
	"github.com/agentaudit/auditgate/pkg/infra/providers"
	"github.com/agentaudit/auditgate/pkg/infra/retry"
	"github.com/sirupsen/logrus"
)

// FallbackRiskScore is the reserved mid-range score used when the auditor
// is unreachable or returns garbage. It always classifies as Warning: an
// unavailable auditor must never block the worker response from being
// logged, and must never let it pass as Safe.
const FallbackRiskScore = 5

const maxDetailsLength = 150

// Client never fails outward: Audit always yields a usable assessment.
type Client interface {
	Audit(ctx context.Context, query, response string) auditlog.RiskAssessment
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
	config.SystemPrompt = systemPrompt
	return &client{
		logger:   logger,
		provider: provider,
		config:   config,
		policy:   policy,
		breaker:  breaker,
	}
}

func (c *client) Audit(ctx context.Context, query, response string) auditlog.RiskAssessment {
	observer := retry.ObserverFunc(func(attempt int, err error) {
		entry := c.logger.WithFields(logrus.Fields{
			"role":         "auditor",
			"attempt":      attempt,
			"max_attempts": c.policy.MaxAttempts,
		})
		if err != nil {
			entry.WithError(err).Warn("auditor model call failed")
			return
		}
		entry.Debug("auditor model call succeeded")
	})

	prompt := buildAuditPrompt(query, response)
	resp, err := retry.Do(ctx, c.policy, observer, func(ctx context.Context) (*providers.CompletionResponse, error) {
		var completion *providers.CompletionResponse
		execErr := c.breaker.Execute(func() error {
			r, askErr := c.provider.Ask(ctx, &c.config, prompt)
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
		c.logger.WithError(err).Warn("auditor unavailable, falling back to Warning assessment")
		return c.fallback(fmt.Sprintf("Audit failed: %v", err))
	}

	assessment, err := parseVerdict(resp.Response)
	if err != nil {
		c.logger.WithError(err).WithField("raw", truncate(resp.Response, 200)).
			Error("failed to parse auditor verdict")
		return c.fallback("Audit parsing failed - defaulting to Warning status")
	}

	c.logger.WithFields(logrus.Fields{
		"risk_score": assessment.RiskScore,
		"toxic":      assessment.ToxicContentDetected,
		"pii":        assessment.PIIDetected,
	}).Info("audit complete")

	return assessment
}

func (c *client) fallback(details string) auditlog.RiskAssessment {
	metrics.AuditFallbacksTotal.Inc()
	return auditlog.RiskAssessment{
		RiskScore: FallbackRiskScore,
		Details:   truncate(details, maxDetailsLength),
	}
}

type verdict struct {
	RiskScore             int      `json:"risk_score"`
	ToxicContentDetected  bool     `json:"toxic_content_detected"`
	PIIDetected           bool     `json:"pii_detected"`
	HallucinationDetected bool     `json:"hallucination_detected"`
	Confidence            *float64 `json:"confidence"`
	Details               string   `json:"details"`
}

func parseVerdict(raw string) (auditlog.RiskAssessment, error) {
	cleaned := stripCodeFences(raw)

	var v verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return auditlog.RiskAssessment{}, fmt.Errorf("invalid verdict JSON: %w", err)
	}

	score := v.RiskScore
	if score < auditlog.MinRiskScore {
		score = auditlog.MinRiskScore
	}
	if score > auditlog.MaxRiskScore {
		score = auditlog.MaxRiskScore
	}

	details := strings.TrimSpace(v.Details)
	if details == "" {
		details = "AI audit completed"
	}

	confidence := v.Confidence
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		confidence = nil
	}

	return auditlog.RiskAssessment{
		RiskScore:             score,
		HallucinationDetected: v.HallucinationDetected,
		PIIDetected:           v.PIIDetected,
		ToxicContentDetected:  v.ToxicContentDetected,
		Details:               truncate(details, maxDetailsLength),
		Confidence:            confidence,
	}, nil
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if idx := strings.Index(cleaned, "```json"); idx >= 0 {
		cleaned = cleaned[idx+len("```json"):]
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	}
	return strings.TrimSpace(cleaned)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
