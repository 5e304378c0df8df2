package service

import (
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-engine/internal/config"
	"github.com/unclebandit/outreach-engine/internal/model"
)

// Beacon records engagement events from inbound open/click requests.
// Every method swallows its own failures: the HTTP layer always answers
// with the benign default (pixel or redirect), because tracking must never
// degrade the recipient's reading or browsing experience.
type Beacon struct {
	Cfg        config.Config
	Recipients BeaconRecipientStore
	Audit      AuditSink
	Log        *zap.SugaredLogger
}

// RecordOpen sets opened_at once. First event wins; duplicates and
// unknown recipients are no-ops.
func (b *Beacon) RecordOpen(recipientID int, ip, userAgent string) {
	rec, err := b.Recipients.GetByID(recipientID)
	if err != nil {
		b.Log.Warnw("open beacon lookup failed", "recipient_id", recipientID, "error", err)
		return
	}
	if rec == nil {
		return
	}

	won, err := b.Recipients.MarkOpened(recipientID, time.Now())
	if err != nil {
		b.Log.Warnw("failed to record open", "recipient_id", recipientID, "error", err)
		return
	}
	if !won {
		return
	}

	b.recordEvent(model.EventEmailOpened, rec, ip, userAgent, nil)
}

// ResolveClick returns the redirect target for a click beacon. Only a
// valid URL with a known, successfully recorded recipient redirects to
// its target; everything else gets the configured fallback.
func (b *Beacon) ResolveClick(recipientID int, rawURL, ip, userAgent string) string {
	target, ok := validTarget(rawURL)
	if !ok {
		return b.Cfg.FallbackRedirectURL
	}

	rec, err := b.Recipients.GetByID(recipientID)
	if err != nil {
		b.Log.Warnw("click beacon lookup failed", "recipient_id", recipientID, "error", err)
		return b.Cfg.FallbackRedirectURL
	}
	if rec == nil {
		return b.Cfg.FallbackRedirectURL
	}

	won, err := b.Recipients.MarkClicked(recipientID, time.Now())
	if err != nil {
		b.Log.Warnw("failed to record click", "recipient_id", recipientID, "error", err)
		return b.Cfg.FallbackRedirectURL
	}
	if won {
		b.recordEvent(model.EventEmailClicked, rec, ip, userAgent, map[string]any{"url": target})
	}
	return target
}

// Unsubscribe marks the recipient unsubscribed. Idempotent; unknown
// recipients are a no-op.
func (b *Beacon) Unsubscribe(recipientID int, ip, userAgent string) {
	rec, err := b.Recipients.GetByID(recipientID)
	if err != nil {
		b.Log.Warnw("unsubscribe lookup failed", "recipient_id", recipientID, "error", err)
		return
	}
	if rec == nil {
		return
	}
	if err := b.Recipients.MarkUnsubscribed(recipientID, time.Now()); err != nil {
		b.Log.Warnw("failed to record unsubscribe", "recipient_id", recipientID, "error", err)
		return
	}
	b.recordEvent(model.EventUnsubscribed, rec, ip, userAgent, nil)
}

func (b *Beacon) recordEvent(eventType string, rec *model.CampaignRecipient, ip, userAgent string, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["campaign_id"] = rec.CampaignID

	err := b.Audit.Record(&model.AuditEvent{
		EventType:  eventType,
		EntityType: "campaign_recipient",
		EntityID:   rec.ID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Metadata:   metadata,
	})
	if err != nil {
		b.Log.Warnw("failed to record audit event", "event", eventType, "recipient_id", rec.ID, "error", err)
	}
}

// validTarget accepts only well-formed absolute http/https URLs, keeping
// javascript: and friends out of the redirect.
func validTarget(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return u.String(), true
}
