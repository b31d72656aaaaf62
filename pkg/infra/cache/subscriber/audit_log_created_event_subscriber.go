package subscriber

import (
	"context"

	"github.com/agentaudit/auditgate/pkg/infra/broadcast"
	"github.com/agentaudit/auditgate/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

// AuditLogCreatedEventSubscriber forwards audit records created by other
// instances into the local broadcast hub. Records created by this instance
// are already published to the hub directly, so own events are skipped.
type AuditLogCreatedEventSubscriber struct {
	logger     *logrus.Logger
	hub        *broadcast.Hub
	instanceID string
}

func NewAuditLogCreatedEventSubscriber(
	logger *logrus.Logger,
	hub *broadcast.Hub,
	instanceID string,
) *AuditLogCreatedEventSubscriber {
	return &AuditLogCreatedEventSubscriber{
		logger:     logger,
		hub:        hub,
		instanceID: instanceID,
	}
}

func (s *AuditLogCreatedEventSubscriber) OnEvent(ctx context.Context, ev event.AuditLogCreatedEvent) error {
	if ev.InstanceID == s.instanceID {
		return nil
	}
	s.logger.WithField("audit_log_id", ev.Record.ID).Debug("relaying audit log from peer instance")
	s.hub.Publish(ev.Record)
	return nil
}
