package repository

import "database/sql"

// CsvSendLogRepository makes CSV-mode sends retry-safe. Each address gets a
// row before its send; a retried dispatch skips addresses already claimed.
type CsvSendLogRepository struct {
	DB *sql.DB
}

// TryClaim records (campaign, email) and reports whether this call claimed
// it. A false return means a previous run already sent (or attempted) it.
func (r *CsvSendLogRepository) TryClaim(campaignID int, email string) (bool, error) {
	query := `
        INSERT INTO csv_send_log (campaign_id, email, claimed_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (campaign_id, email) DO NOTHING
    `
	res, err := r.DB.Exec(query, campaignID, email)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
