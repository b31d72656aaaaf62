package auditlog

import (
	"context"
	"fmt"

	domain "github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/sirupsen/logrus"
)

// Summary aggregates the most recent audit window for the dashboard.
type Summary struct {
	TotalAudits  int     `json:"total_audits"`
	AverageRisk  float64 `json:"average_risk_score"`
	SafeCount    int     `json:"safe_count"`
	WarningCount int     `json:"warning_count"`
	FlaggedCount int     `json:"flagged_count"`
	WindowSize   int     `json:"window_size"`
}

type Summarizer interface {
	Summarize(ctx context.Context, window int) (*Summary, error)
}

type summarizer struct {
	logger *logrus.Logger
	repo   domain.Repository
}

func NewSummarizer(logger *logrus.Logger, repo domain.Repository) Summarizer {
	return &summarizer{
		logger: logger,
		repo:   repo,
	}
}

func (s *summarizer) Summarize(ctx context.Context, window int) (*Summary, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}

	logs, err := s.repo.List(ctx, window, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent audit logs: %w", err)
	}

	summary := &Summary{
		TotalAudits: len(logs),
		WindowSize:  window,
	}

	total := 0
	for _, log := range logs {
		total += log.Audit.RiskScore
		switch log.Status {
		case domain.StatusSafe:
			summary.SafeCount++
		case domain.StatusWarning:
			summary.WarningCount++
		case domain.StatusFlagged:
			summary.FlaggedCount++
		}
	}

	if len(logs) > 0 {
		summary.AverageRisk = float64(total) / float64(len(logs))
	}

	return summary, nil
}
