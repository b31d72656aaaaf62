package auditlog_test

import (
	"context"
	"errors"
	"testing"

	appAuditlog "github.com/agentaudit/auditgate/pkg/app/auditlog"
	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, log *auditlog.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockRepository) List(ctx context.Context, limit int, descending bool) ([]auditlog.AuditLog, error) {
	args := m.Called(ctx, limit, descending)
	logs, _ := args.Get(0).([]auditlog.AuditLog)
	return logs, args.Error(1)
}

func logWithScore(score int) auditlog.AuditLog {
	return auditlog.AuditLog{
		Query:    "q",
		Response: "r",
		Audit:    auditlog.RiskAssessment{RiskScore: score, Details: "d"},
		Status:   auditlog.ClassifyRiskScore(score),
	}
}

func newSummarizer(repo *mockRepository) appAuditlog.Summarizer {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return appAuditlog.NewSummarizer(logger, repo)
}

func TestSummarize(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, 50, true).Return([]auditlog.AuditLog{
		logWithScore(0),
		logWithScore(2),
		logWithScore(5),
		logWithScore(9),
	}, nil)

	summary, err := newSummarizer(repo).Summarize(context.Background(), 50)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalAudits)
	assert.InDelta(t, 4.0, summary.AverageRisk, 0.001)
	assert.Equal(t, 2, summary.SafeCount)
	assert.Equal(t, 1, summary.WarningCount)
	assert.Equal(t, 1, summary.FlaggedCount)
}

func TestSummarize_EmptyStore(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, 50, true).Return([]auditlog.AuditLog{}, nil)

	summary, err := newSummarizer(repo).Summarize(context.Background(), 50)

	require.NoError(t, err)
	assert.Zero(t, summary.TotalAudits)
	assert.Zero(t, summary.AverageRisk)
}

func TestSummarize_RepositoryError(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, 50, true).Return(nil, errors.New("connection reset"))

	summary, err := newSummarizer(repo).Summarize(context.Background(), 50)
	assert.Error(t, err)
	assert.Nil(t, summary)
}

func TestSummarize_InvalidWindow(t *testing.T) {
	repo := new(mockRepository)

	_, err := newSummarizer(repo).Summarize(context.Background(), 0)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "List")
}
