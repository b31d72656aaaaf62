package migrations

import (
	"github.com/agentaudit/auditgate/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250801_create_audit_logs",
		Name: "Create audit_logs table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS public.audit_logs (
					id         UUID PRIMARY KEY,
					query      TEXT NOT NULL,
					response   TEXT NOT NULL,
					audit      JSONB NOT NULL,
					status     TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at
				ON public.audit_logs (created_at DESC);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS public.audit_logs;`).Error
		},
	})
}
