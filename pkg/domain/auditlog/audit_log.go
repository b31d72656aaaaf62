package auditlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is the immutable record of one completed pipeline run. The ID is
// assigned exactly once before insert; CreatedAt is assigned by the database
// at commit time so list ordering follows the storage clock, not arrival
// order. There is no update path.
type AuditLog struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Query     string         `json:"query"`
	Response  string         `json:"response"`
	Audit     RiskAssessment `json:"audit" gorm:"type:jsonb"`
	Status    Status         `json:"status" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at" gorm:"default:now()"`
}

func NewAuditLog(query, response string, assessment RiskAssessment, status Status) *AuditLog {
	return &AuditLog{
		ID:       uuid.New(),
		Query:    query,
		Response: response,
		Audit:    assessment,
		Status:   status,
	}
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return l.Validate()
}

func (l *AuditLog) Validate() error {
	if strings.TrimSpace(l.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if strings.TrimSpace(l.Response) == "" {
		return fmt.Errorf("response is required")
	}
	if !l.Status.Valid() {
		return fmt.Errorf("invalid status: %q", l.Status)
	}
	if err := l.Audit.Validate(); err != nil {
		return fmt.Errorf("invalid risk assessment: %w", err)
	}
	return nil
}

func (l *AuditLog) TableName() string {
	return "public.audit_logs"
}
