package model

import "time"

// Campaign statuses
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignPaused    = "paused"
	CampaignSent      = "sent"
	CampaignFailed    = "failed"
)

// Recipient modes
const (
	RecipientModeTable = "table"
	RecipientModeCSV   = "csv"
)

// CampaignSettings is stored as JSONB alongside the campaign row.
type CampaignSettings struct {
	RecipientMode string `json:"recipient_mode"`
	CSVFilePath   string `json:"csv_file_path,omitempty"`
	Paused        bool   `json:"paused"`
}

type Campaign struct {
	ID             int              `db:"id" json:"id"`
	TenantID       int              `db:"tenant_id" json:"tenant_id"`
	Name           string           `db:"name" json:"name"`
	Status         string           `db:"status" json:"status"`
	Subject        string           `db:"subject" json:"subject"`
	Content        string           `db:"content" json:"content"`
	Settings       CampaignSettings `db:"settings" json:"settings"`
	SentCount      int              `db:"sent_count" json:"sent_count"`
	DeliveredCount int              `db:"delivered_count" json:"delivered_count"`
	BouncedCount   int              `db:"bounced_count" json:"bounced_count"`
	SentAt         *time.Time       `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      *time.Time       `db:"updated_at" json:"updated_at,omitempty"`
}

// IsPaused reports whether dispatch should back off instead of consuming
// recipients. Either the status or the settings flag pauses a campaign.
func (c *Campaign) IsPaused() bool {
	return c.Status == CampaignPaused || c.Settings.Paused
}
