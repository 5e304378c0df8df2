package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/unclebandit/outreach-engine/internal/apperrors"
	"github.com/unclebandit/outreach-engine/internal/model"
)

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, tenant_id, name, status, subject, content, settings,
               sent_count, delivered_count, bounced_count, sent_at, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	var settings []byte
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Status, &c.Subject, &c.Content, &settings,
		&c.SentCount, &c.DeliveredCount, &c.BouncedCount, &c.SentAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &c.Settings); err != nil {
			return nil, fmt.Errorf("decode campaign %d settings: %w", id, err)
		}
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignDraft
	}
	settings, err := json.Marshal(c.Settings)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO campaigns (tenant_id, name, status, subject, content, settings, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.TenantID, c.Name, c.Status, c.Subject, c.Content, settings, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, status, campaignID)
	return err
}

// MarkSent transitions the campaign to sent and stamps sent_at.
func (r *CampaignRepository) MarkSent(campaignID int, at time.Time) error {
	query := `UPDATE campaigns SET status=$1, sent_at=$2, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, model.CampaignSent, at, campaignID)
	return err
}

// IncrementCounters adds this run's totals. Relative increments rather than
// absolute writes, so a retried dispatch that re-processes nothing adds nothing.
func (r *CampaignRepository) IncrementCounters(campaignID, sent, delivered, bounced int) error {
	query := `
        UPDATE campaigns
        SET sent_count = sent_count + $1,
            delivered_count = delivered_count + $2,
            bounced_count = bounced_count + $3,
            updated_at = NOW()
        WHERE id = $4
    `
	_, err := r.DB.Exec(query, sent, delivered, bounced, campaignID)
	return err
}

func (r *CampaignRepository) SetPaused(campaignID int, paused bool) error {
	query := `
        UPDATE campaigns
        SET settings = jsonb_set(COALESCE(settings, '{}'::jsonb), '{paused}', to_jsonb($1::bool)),
            updated_at = NOW()
        WHERE id = $2
    `
	_, err := r.DB.Exec(query, paused, campaignID)
	return err
}

// ClearCSVPath empties settings.csv_file_path once the artifact is consumed.
func (r *CampaignRepository) ClearCSVPath(campaignID int) error {
	query := `
        UPDATE campaigns
        SET settings = settings - 'csv_file_path', updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.DB.Exec(query, campaignID)
	return err
}

// GetStats returns recipient counts by status for one campaign.
func (r *CampaignRepository) GetStats(campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM campaign_recipients WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{
		"pending": 0, "sent": 0, "bounced": 0,
		"opened": 0, "clicked": 0, "unsubscribed": 0,
	}
	total := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
		total += count
	}
	stats["total"] = total
	return stats, rows.Err()
}
