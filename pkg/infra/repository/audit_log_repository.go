package repository

import (
	"context"
	"fmt"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) auditlog.Repository {
	return &auditLogRepository{
		db: db,
	}
}

// Create inserts the record and reads back the DB-assigned created_at.
// Records are append-only; there is no update path.
func (r *auditLogRepository) Create(ctx context.Context, record *auditlog.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to persist audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepository) List(ctx context.Context, limit int, descending bool) ([]auditlog.AuditLog, error) {
	// id breaks ties between records committed in the same clock tick.
	order := "created_at ASC, id ASC"
	if descending {
		order = "created_at DESC, id DESC"
	}

	var records []auditlog.AuditLog
	query := r.db.WithContext(ctx).Order(order)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return records, nil
}
