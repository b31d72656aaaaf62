package event

import "reflect"

type Event interface {
	Type() string
}

var (
	AuditLogCreatedEventType = "AuditLogCreatedEvent"
)

var Registry = map[string]reflect.Type{
	AuditLogCreatedEventType: reflect.TypeOf(AuditLogCreatedEvent{}),
}
