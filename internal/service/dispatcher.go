package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-engine/internal/apperrors"
	"github.com/unclebandit/outreach-engine/internal/config"
	"github.com/unclebandit/outreach-engine/internal/mail"
	"github.com/unclebandit/outreach-engine/internal/model"
	"github.com/unclebandit/outreach-engine/internal/queue"
	"github.com/unclebandit/outreach-engine/internal/tracking"
)

// Dispatcher sends one campaign's pending recipients. It runs as a queue
// task; one recipient's failure never aborts the batch.
type Dispatcher struct {
	Cfg        config.Config
	Campaigns  CampaignStore
	Recipients RecipientStore
	CsvLog     CsvSendLogStore
	Injector   *tracking.Injector
	Mailer     mail.Mailer
	Queue      queue.Queue
	Audit      AuditSink
	Log        *zap.SugaredLogger
}

// Dispatch processes one campaign. A deleted campaign drops the task; a
// paused campaign re-enqueues it after a backoff instead of consuming
// recipients.
func (d *Dispatcher) Dispatch(campaignID int) error {
	campaign, err := d.Campaigns.GetByID(campaignID)
	if err != nil {
		var notFound *apperrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			d.Log.Infow("campaign no longer exists, dropping dispatch", "campaign_id", campaignID)
			return nil
		}
		return err
	}

	if campaign.IsPaused() {
		d.Log.Infow("campaign paused, rescheduling dispatch",
			"campaign_id", campaignID, "backoff", d.Cfg.PauseBackoff)
		return d.Queue.Enqueue(queue.TaskCampaignDispatch,
			queue.DispatchPayload{CampaignID: campaignID}, d.Cfg.PauseBackoff)
	}

	var sent, bounced int
	switch campaign.Settings.RecipientMode {
	case model.RecipientModeCSV:
		sent, bounced, err = d.dispatchCSV(campaign)
	default:
		sent, bounced, err = d.dispatchTable(campaign)
	}
	if err != nil {
		return err
	}

	// Relative increments: a retried dispatch only adds what this run did.
	// Transport acceptance is the only delivery signal, so delivered == sent.
	if err := d.Campaigns.IncrementCounters(campaignID, sent, sent, bounced); err != nil {
		return err
	}
	if err := d.Campaigns.MarkSent(campaignID, time.Now()); err != nil {
		return err
	}

	if err := d.Audit.Record(&model.AuditEvent{
		TenantID:   campaign.TenantID,
		EventType:  model.EventCampaignSent,
		EntityType: "campaign",
		EntityID:   campaign.ID,
		Metadata:   map[string]any{"sent": sent, "bounced": bounced, "mode": campaign.Settings.RecipientMode},
	}); err != nil {
		d.Log.Warnw("failed to record campaign audit event", "campaign_id", campaignID, "error", err)
	}

	d.Log.Infow("campaign dispatched", "campaign_id", campaignID, "sent", sent, "bounced", bounced)
	return nil
}

// dispatchTable streams pending recipients in fixed pages. Processed rows
// leave the pending set, so each pass re-queries from the start.
func (d *Dispatcher) dispatchTable(campaign *model.Campaign) (int, int, error) {
	var sent, bounced int
	for {
		page, err := d.Recipients.ListPending(campaign.ID, d.Cfg.RecipientPageSize)
		if err != nil {
			return sent, bounced, err
		}
		if len(page) == 0 {
			break
		}

		for _, rec := range page {
			subject := Personalize(campaign.Subject, rec.Name)
			body := d.Injector.Inject(Personalize(campaign.Content, rec.Name), rec.ID)

			now := time.Now()
			if sendErr := d.Mailer.Send(rec.Email, subject, body, d.Cfg.MailFrom); sendErr != nil {
				d.Log.Warnw("recipient bounced", "recipient_id", rec.ID, "email", rec.Email, "error", sendErr)
				if err := d.Recipients.MarkBounced(rec.ID, now); err != nil {
					return sent, bounced, err
				}
				bounced++
				continue
			}
			if err := d.Recipients.MarkSent(rec.ID, now); err != nil {
				return sent, bounced, err
			}
			sent++
		}

		if len(page) < d.Cfg.RecipientPageSize {
			break
		}
	}
	return sent, bounced, nil
}

// dispatchCSV sends to an externally supplied address file. These sends
// are untracked and unpersonalized; per-address rows in csv_send_log make
// a retried run skip everything already claimed.
func (d *Dispatcher) dispatchCSV(campaign *model.Campaign) (int, int, error) {
	path := campaign.Settings.CSVFilePath
	if path == "" {
		return 0, 0, fmt.Errorf("campaign %d is in csv mode but has no csv_file_path", campaign.ID)
	}

	addresses, err := readAddressFile(path)
	if err != nil {
		return 0, 0, err
	}

	var sent, bounced int
	for start := 0; start < len(addresses); start += d.Cfg.CSVBatchSize {
		end := start + d.Cfg.CSVBatchSize
		if end > len(addresses) {
			end = len(addresses)
		}
		for _, addr := range addresses[start:end] {
			claimed, err := d.CsvLog.TryClaim(campaign.ID, addr)
			if err != nil {
				return sent, bounced, err
			}
			if !claimed {
				continue
			}
			if sendErr := d.Mailer.Send(addr, campaign.Subject, campaign.Content, d.Cfg.MailFrom); sendErr != nil {
				d.Log.Warnw("csv address bounced", "campaign_id", campaign.ID, "email", addr, "error", sendErr)
				bounced++
				continue
			}
			sent++
		}
	}

	if err := os.Remove(path); err != nil {
		d.Log.Warnw("failed to delete csv artifact", "path", path, "error", err)
	}
	if err := d.Campaigns.ClearCSVPath(campaign.ID); err != nil {
		d.Log.Warnw("failed to clear csv path", "campaign_id", campaign.ID, "error", err)
	}
	return sent, bounced, nil
}

// readAddressFile returns the first column of every row, skipping an
// "email" header and blank cells.
func readAddressFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	addresses := []string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		if len(record) == 0 {
			continue
		}
		addr := strings.TrimSpace(record[0])
		if addr == "" || strings.EqualFold(addr, "email") {
			continue
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}
