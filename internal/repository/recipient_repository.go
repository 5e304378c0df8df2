package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/outreach-engine/internal/model"
)

type RecipientRepository struct {
	DB *sql.DB
}

const recipientColumns = `id, campaign_id, contact_id, email, name, status,
       sent_at, delivered_at, bounced_at, opened_at, clicked_at, unsubscribed_at`

func scanRecipient(row interface{ Scan(...any) error }) (*model.CampaignRecipient, error) {
	var rec model.CampaignRecipient
	err := row.Scan(
		&rec.ID, &rec.CampaignID, &rec.ContactID, &rec.Email, &rec.Name, &rec.Status,
		&rec.SentAt, &rec.DeliveredAt, &rec.BouncedAt, &rec.OpenedAt, &rec.ClickedAt, &rec.UnsubscribedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecipientRepository) GetByID(id int) (*model.CampaignRecipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM campaign_recipients WHERE id=$1`
	rec, err := scanRecipient(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// ListPending returns up to limit pending recipients in id order. The
// dispatcher re-queries from the start each pass; processed rows leave the
// pending set, so stable ordering plus a fixed page bounds memory.
func (r *RecipientRepository) ListPending(campaignID, limit int) ([]*model.CampaignRecipient, error) {
	query := `
        SELECT ` + recipientColumns + `
        FROM campaign_recipients
        WHERE campaign_id=$1 AND status=$2
        ORDER BY id
        LIMIT $3
    `
	rows, err := r.DB.Query(query, campaignID, model.RecipientPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []*model.CampaignRecipient{}
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func (r *RecipientRepository) MarkSent(id int, at time.Time) error {
	query := `
        UPDATE campaign_recipients
        SET status=$1, sent_at=$2, delivered_at=$2
        WHERE id=$3
    `
	_, err := r.DB.Exec(query, model.RecipientSent, at, id)
	return err
}

func (r *RecipientRepository) MarkBounced(id int, at time.Time) error {
	query := `
        UPDATE campaign_recipients
        SET status=$1, bounced_at=$2
        WHERE id=$3
    `
	_, err := r.DB.Exec(query, model.RecipientBounced, at, id)
	return err
}

// MarkOpened sets opened_at only if it is still null and reports whether
// this call won. First event wins; a duplicate beacon changes nothing.
func (r *RecipientRepository) MarkOpened(id int, at time.Time) (bool, error) {
	query := `
        UPDATE campaign_recipients
        SET opened_at=$1, status=$2
        WHERE id=$3 AND opened_at IS NULL
    `
	res, err := r.DB.Exec(query, at, model.RecipientOpened, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkClicked mirrors MarkOpened for clicked_at.
func (r *RecipientRepository) MarkClicked(id int, at time.Time) (bool, error) {
	query := `
        UPDATE campaign_recipients
        SET clicked_at=$1, status=$2
        WHERE id=$3 AND clicked_at IS NULL
    `
	res, err := r.DB.Exec(query, at, model.RecipientClicked, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *RecipientRepository) MarkUnsubscribed(id int, at time.Time) error {
	query := `
        UPDATE campaign_recipients
        SET status=$1, unsubscribed_at=COALESCE(unsubscribed_at, $2)
        WHERE id=$3
    `
	_, err := r.DB.Exec(query, model.RecipientUnsubscribed, at, id)
	return err
}
