package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/outreach-engine/internal/model"
)

func newBeacon(recipients *fakeRecipientStore, audit *fakeAudit) *Beacon {
	return &Beacon{
		Cfg:        testConfig(),
		Recipients: recipients,
		Audit:      audit,
		Log:        zap.NewNop().Sugar(),
	}
}

func TestOpenBeaconFirstEventWins(t *testing.T) {
	recipients := &fakeRecipientStore{recipients: map[int]*model.CampaignRecipient{
		5: {ID: 5, CampaignID: 1, Email: "a@x.com", Status: model.RecipientSent},
	}}
	audit := &fakeAudit{}
	b := newBeacon(recipients, audit)

	b.RecordOpen(5, "1.2.3.4", "mail-client/1.0")
	first := recipients.recipients[5].OpenedAt
	require.NotNil(t, first)
	assert.Equal(t, model.RecipientOpened, recipients.recipients[5].Status)

	// Second beacon (prefetch, re-open) is a no-op on the field and audits nothing.
	b.RecordOpen(5, "5.6.7.8", "other-client/2.0")
	assert.Equal(t, first, recipients.recipients[5].OpenedAt)

	require.Len(t, audit.events, 1)
	assert.Equal(t, model.EventEmailOpened, audit.events[0].EventType)
	assert.Equal(t, "1.2.3.4", audit.events[0].IPAddress)
	assert.Equal(t, "mail-client/1.0", audit.events[0].UserAgent)
}

func TestOpenBeaconUnknownRecipient(t *testing.T) {
	audit := &fakeAudit{}
	b := newBeacon(&fakeRecipientStore{recipients: map[int]*model.CampaignRecipient{}}, audit)

	b.RecordOpen(99, "1.2.3.4", "ua")
	assert.Empty(t, audit.events)
}

func TestClickBeaconInvalidURLFallsBack(t *testing.T) {
	recipients := &fakeRecipientStore{recipients: map[int]*model.CampaignRecipient{
		5: {ID: 5, CampaignID: 1, Email: "a@x.com", Status: model.RecipientSent},
	}}
	audit := &fakeAudit{}
	b := newBeacon(recipients, audit)

	for _, raw := range []string{"javascript:alert(1)", "not a url at all", "ftp://example.com/x", "/relative/path", ""} {
		target := b.ResolveClick(5, raw, "1.2.3.4", "ua")
		assert.Equal(t, b.Cfg.FallbackRedirectURL, target, "raw=%q", raw)
	}

	// Invalid URLs never touch the engagement state.
	assert.Nil(t, recipients.recipients[5].ClickedAt)
	assert.Empty(t, audit.events)
}

func TestClickBeaconRecordsOnce(t *testing.T) {
	recipients := &fakeRecipientStore{recipients: map[int]*model.CampaignRecipient{
		5: {ID: 5, CampaignID: 1, Email: "a@x.com", Status: model.RecipientSent},
	}}
	audit := &fakeAudit{}
	b := newBeacon(recipients, audit)

	target := b.ResolveClick(5, "https://example.com/promo?x=1", "1.2.3.4", "ua")
	assert.Equal(t, "https://example.com/promo?x=1", target)
	require.NotNil(t, recipients.recipients[5].ClickedAt)
	assert.Equal(t, model.RecipientClicked, recipients.recipients[5].Status)

	// Duplicate click still redirects but audits nothing new.
	target = b.ResolveClick(5, "https://example.com/promo?x=1", "1.2.3.4", "ua")
	assert.Equal(t, "https://example.com/promo?x=1", target)

	require.Len(t, audit.events, 1)
	assert.Equal(t, model.EventEmailClicked, audit.events[0].EventType)
	assert.Equal(t, "https://example.com/promo?x=1", audit.events[0].Metadata["url"])
}

func TestClickBeaconUnknownRecipientFallsBack(t *testing.T) {
	b := newBeacon(&fakeRecipientStore{recipients: map[int]*model.CampaignRecipient{}}, &fakeAudit{})

	target := b.ResolveClick(99, "https://example.com/page", "1.2.3.4", "ua")
	assert.Equal(t, b.Cfg.FallbackRedirectURL, target)
}

// erroringRecipientStore fails every lookup and update.
type erroringRecipientStore struct{}

func (erroringRecipientStore) GetByID(int) (*model.CampaignRecipient, error) {
	return nil, errors.New("db down")
}

func (erroringRecipientStore) MarkOpened(int, time.Time) (bool, error) {
	return false, errors.New("db down")
}

func (erroringRecipientStore) MarkClicked(int, time.Time) (bool, error) {
	return false, errors.New("db down")
}

func (erroringRecipientStore) MarkUnsubscribed(int, time.Time) error {
	return errors.New("db down")
}

func TestClickBeaconLookupErrorFallsBack(t *testing.T) {
	b := &Beacon{
		Cfg:        testConfig(),
		Recipients: erroringRecipientStore{},
		Audit:      &fakeAudit{},
		Log:        zap.NewNop().Sugar(),
	}

	target := b.ResolveClick(5, "https://example.com/page", "1.2.3.4", "ua")
	assert.Equal(t, b.Cfg.FallbackRedirectURL, target)
}

func TestUnsubscribe(t *testing.T) {
	recipients := &fakeRecipientStore{recipients: map[int]*model.CampaignRecipient{
		5: {ID: 5, CampaignID: 1, Email: "a@x.com", Status: model.RecipientSent},
	}}
	audit := &fakeAudit{}
	b := newBeacon(recipients, audit)

	b.Unsubscribe(5, "1.2.3.4", "ua")
	assert.Equal(t, model.RecipientUnsubscribed, recipients.recipients[5].Status)
	require.Len(t, audit.events, 1)
	assert.Equal(t, model.EventUnsubscribed, audit.events[0].EventType)
}
