package model

import "time"

// Recipient statuses. pending -> sent|bounced is the terminal transition
// owned by the dispatcher; opened/clicked/unsubscribed are set later by
// the beacon endpoints, independent of the terminal status.
const (
	RecipientPending      = "pending"
	RecipientSent         = "sent"
	RecipientBounced      = "bounced"
	RecipientOpened       = "opened"
	RecipientClicked      = "clicked"
	RecipientUnsubscribed = "unsubscribed"
)

type CampaignRecipient struct {
	ID             int        `db:"id" json:"id"`
	CampaignID     int        `db:"campaign_id" json:"campaign_id"`
	ContactID      *int       `db:"contact_id" json:"contact_id,omitempty"`
	Email          string     `db:"email" json:"email"`
	Name           string     `db:"name" json:"name"`
	Status         string     `db:"status" json:"status"`
	SentAt         *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt    *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	BouncedAt      *time.Time `db:"bounced_at" json:"bounced_at,omitempty"`
	OpenedAt       *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	ClickedAt      *time.Time `db:"clicked_at" json:"clicked_at,omitempty"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at" json:"unsubscribed_at,omitempty"`
}
