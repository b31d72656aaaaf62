package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agentaudit/auditgate/pkg/app/auditor"
	"github.com/agentaudit/auditgate/pkg/app/worker"
	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/infra/metrics"
	"github.com/agentaudit/auditgate/pkg/infra/retry"
	"github.com/sirupsen/logrus"
)

type stage string

const (
	stageValidating  stage = "validating"
	stageWorkerCall  stage = "worker_call"
	stageAuditorCall stage = "auditor_call"
	stageClassifying stage = "classifying"
	stagePersisting  stage = "persisting"
	stagePublishing  stage = "publishing"
)

// Publisher fans a freshly created record out to live observers. Best
// effort: the record is already durable when Publish is called.
type Publisher interface {
	Publish(ctx context.Context, record auditlog.AuditLog) error
}

// Processor runs one user query through the full pipeline.
type Processor interface {
	Process(ctx context.Context, userQuery string) (*auditlog.AuditLog, error)
}

// AuditPipeline sequences one request: validate, ask the worker, ask the
// auditor, classify, persist, publish. Stages run strictly in order per
// request; concurrent requests share nothing but the repository and the
// publisher, which are both safe for concurrent use.
type AuditPipeline struct {
	logger    *logrus.Logger
	worker    worker.Client
	auditor   auditor.Client
	repo      auditlog.Repository
	publisher Publisher
}

func NewAuditPipeline(
	logger *logrus.Logger,
	workerClient worker.Client,
	auditorClient auditor.Client,
	repo auditlog.Repository,
	publisher Publisher,
) *AuditPipeline {
	return &AuditPipeline{
		logger:    logger,
		worker:    workerClient,
		auditor:   auditorClient,
		repo:      repo,
		publisher: publisher,
	}
}

func (p *AuditPipeline) Process(ctx context.Context, userQuery string) (*auditlog.AuditLog, error) {
	started := time.Now()

	if strings.TrimSpace(userQuery) == "" {
		p.stageLog(stageValidating).Warn("rejected blank query")
		metrics.PipelineFailuresTotal.WithLabelValues("validation").Inc()
		return nil, &ValidationError{Detail: "query cannot be empty"}
	}

	p.stageLog(stageWorkerCall).Debug("invoking worker model")
	result, err := p.worker.Process(ctx, userQuery)
	if err != nil {
		return nil, p.workerFailure(err)
	}

	// Cannot abort the pipeline: yields a real or fallback assessment.
	p.stageLog(stageAuditorCall).Debug("invoking auditor model")
	assessment := p.auditor.Audit(ctx, userQuery, result.Response)

	status := auditlog.ClassifyRiskScore(assessment.RiskScore)
	p.stageLog(stageClassifying).WithFields(logrus.Fields{
		"risk_score": assessment.RiskScore,
		"status":     status,
	}).Info("risk classified")

	record := auditlog.NewAuditLog(userQuery, result.Response, assessment, status)

	// A create that has started runs to completion or fails with a
	// storage error; caller cancellation is no longer honored here.
	persistCtx := context.WithoutCancel(ctx)
	if err := p.repo.Create(persistCtx, record); err != nil {
		p.stageLog(stagePersisting).WithError(err).Error("failed to persist audit record")
		metrics.PipelineFailuresTotal.WithLabelValues("storage").Inc()
		return nil, &StorageError{Err: err}
	}

	if err := p.publisher.Publish(persistCtx, *record); err != nil {
		// The record is durable; observers catch up via the list endpoint.
		p.stageLog(stagePublishing).WithError(err).Warn("failed to publish audit record")
	}

	metrics.AuditsTotal.WithLabelValues(string(status)).Inc()
	metrics.PipelineDuration.Observe(float64(time.Since(started).Milliseconds()))

	p.logger.WithFields(logrus.Fields{
		"id":     record.ID,
		"status": record.Status,
	}).Info("audit record created")

	return record, nil
}

func (p *AuditPipeline) workerFailure(err error) error {
	switch {
	case errors.Is(err, worker.ErrEmptyQuery):
		metrics.PipelineFailuresTotal.WithLabelValues("validation").Inc()
		return &ValidationError{Detail: "query cannot be empty"}
	case isCancelled(err):
		p.stageLog(stageWorkerCall).WithError(err).Info("request cancelled during worker call")
		metrics.PipelineFailuresTotal.WithLabelValues("cancelled").Inc()
		return &CancelledError{Err: err}
	default:
		p.stageLog(stageWorkerCall).WithError(err).Error("worker unavailable, aborting request")
		metrics.PipelineFailuresTotal.WithLabelValues("worker").Inc()
		return &WorkerUnavailableError{Err: err}
	}
}

func isCancelled(err error) bool {
	var cancelled *retry.CancelledError
	return errors.As(err, &cancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (p *AuditPipeline) stageLog(s stage) *logrus.Entry {
	return p.logger.WithField("stage", string(s))
}
