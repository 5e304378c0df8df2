package model

import "time"

// Audit event types emitted by the engine.
const (
	EventCampaignSent       = "campaign.sent"
	EventEmailOpened        = "email.opened"
	EventEmailClicked       = "email.clicked"
	EventUnsubscribed       = "email.unsubscribed"
	EventSequenceCompleted  = "sequence.completed"
	EventSequenceStepFailed = "sequence.step_failed"
)

// AuditEvent is an append-only record; Metadata is stored as JSONB.
type AuditEvent struct {
	ID         string         `db:"id" json:"id"`
	TenantID   int            `db:"tenant_id" json:"tenant_id"`
	EventType  string         `db:"event_type" json:"event_type"`
	EntityType string         `db:"entity_type" json:"entity_type"`
	EntityID   int            `db:"entity_id" json:"entity_id"`
	IPAddress  string         `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string         `db:"user_agent" json:"user_agent,omitempty"`
	Metadata   map[string]any `db:"metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
