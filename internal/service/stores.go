package service

import (
	"time"

	"github.com/unclebandit/outreach-engine/internal/model"
)

// Store interfaces the services consume. The concrete implementations
// live in internal/repository; tests plug in in-memory fakes.

type CampaignStore interface {
	GetByID(id int) (*model.Campaign, error)
	IncrementCounters(campaignID, sent, delivered, bounced int) error
	MarkSent(campaignID int, at time.Time) error
	ClearCSVPath(campaignID int) error
}

type RecipientStore interface {
	ListPending(campaignID, limit int) ([]*model.CampaignRecipient, error)
	MarkSent(id int, at time.Time) error
	MarkBounced(id int, at time.Time) error
}

type BeaconRecipientStore interface {
	GetByID(id int) (*model.CampaignRecipient, error)
	MarkOpened(id int, at time.Time) (bool, error)
	MarkClicked(id int, at time.Time) (bool, error)
	MarkUnsubscribed(id int, at time.Time) error
}

type CsvSendLogStore interface {
	TryClaim(campaignID int, email string) (bool, error)
}

type SequenceStore interface {
	GetEnrollment(id int) (*model.SequenceEnrollment, error)
	UpdateEnrollmentStep(id, step int) error
	UpdateEnrollmentStatus(id int, status string) error
	GetStep(id int) (*model.SequenceStep, error)
	GetStepByOrder(sequenceID, order int) (*model.SequenceStep, error)
	CountSteps(sequenceID int) (int, error)
	AppendLog(l *model.SequenceLog) error
}

type CrmStore interface {
	GetContact(id int) (*model.Contact, error)
	GetCompany(id int) (*model.Company, error)
	GetDeal(id int) (*model.Deal, error)
	GetTemplate(id int) (*model.MailTemplate, error)
}

type TaskStore interface {
	CreateTask(t *model.CrmTask) error
	CreateActivity(a *model.Activity) error
}

type AuditSink interface {
	Record(e *model.AuditEvent) error
}
