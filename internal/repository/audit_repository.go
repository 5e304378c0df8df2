package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/outreach-engine/internal/model"
)

type AuditRepository struct {
	DB *sql.DB
}

// Record appends one audit event. Events are never updated.
func (r *AuditRepository) Record(e *model.AuditEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO audit_events
            (id, tenant_id, event_type, entity_type, entity_id, ip_address, user_agent, metadata, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err = r.DB.Exec(query,
		e.ID, e.TenantID, e.EventType, e.EntityType, e.EntityID,
		e.IPAddress, e.UserAgent, metadata, e.CreatedAt,
	)
	return err
}
