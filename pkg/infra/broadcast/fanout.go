package broadcast

import (
	"context"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/infra/cache"
	"github.com/agentaudit/auditgate/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

// FanoutPublisher delivers a freshly persisted audit record to local
// stream subscribers through the hub and to peer instances through redis
// pubsub. The hub delivery cannot fail; a redis failure is returned so the
// caller can decide how loudly to complain, but local delivery has already
// happened by then.
type FanoutPublisher struct {
	logger         *logrus.Logger
	hub            *Hub
	eventPublisher cache.EventPublisher
	instanceID     string
}

func NewFanoutPublisher(
	logger *logrus.Logger,
	hub *Hub,
	eventPublisher cache.EventPublisher,
	instanceID string,
) *FanoutPublisher {
	return &FanoutPublisher{
		logger:         logger,
		hub:            hub,
		eventPublisher: eventPublisher,
		instanceID:     instanceID,
	}
}

func (p *FanoutPublisher) Publish(ctx context.Context, record auditlog.AuditLog) error {
	p.hub.Publish(record)

	if p.eventPublisher == nil {
		return nil
	}

	ev := event.AuditLogCreatedEvent{
		InstanceID: p.instanceID,
		Record:     record,
	}
	if err := p.eventPublisher.Publish(ctx, ev); err != nil {
		p.logger.WithError(err).WithField("audit_log_id", record.ID).
			Warn("failed to relay audit log to peer instances")
		return err
	}
	return nil
}
