package telemetry

import (
	"context"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
)

// Exporter ships finished audit records to an external sink. Exporters are
// fed off the broadcast hub, so a slow sink never blocks the request path.
type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Handle(ctx context.Context, record *auditlog.AuditLog) error
	Close()
}
