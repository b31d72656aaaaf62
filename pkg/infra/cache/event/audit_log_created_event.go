package event

import (
	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
)

// AuditLogCreatedEvent is broadcast after a record has been durably stored.
// InstanceID identifies the publishing instance so each instance can skip
// events it already delivered locally.
type AuditLogCreatedEvent struct {
	InstanceID string            `json:"instance_id"`
	Record     auditlog.AuditLog `json:"record"`
}

func (e AuditLogCreatedEvent) Type() string {
	return AuditLogCreatedEventType
}
