package channel

type Channel string

const (
	// AuditEventsChannel carries audit-record-created events between
	// running instances.
	AuditEventsChannel Channel = "auditgate:events"
)
