package auditlog

import (
	"context"
)

type Repository interface {
	// Create atomically persists a new record. The record's CreatedAt is
	// populated from the database on return.
	Create(ctx context.Context, log *AuditLog) error
	// List returns at most limit records ordered by creation time,
	// newest first when descending is true. An empty store yields an
	// empty slice.
	List(ctx context.Context, limit int, descending bool) ([]AuditLog, error)
}
