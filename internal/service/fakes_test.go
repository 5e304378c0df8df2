package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/unclebandit/outreach-engine/internal/apperrors"
	"github.com/unclebandit/outreach-engine/internal/model"
)

// In-memory fakes for the store interfaces.

type fakeCampaignStore struct {
	campaigns map[int]*model.Campaign
	sent      int
	delivered int
	bounced   int
}

func (f *fakeCampaignStore) GetByID(id int) (*model.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, apperrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (f *fakeCampaignStore) IncrementCounters(id, sent, delivered, bounced int) error {
	f.sent += sent
	f.delivered += delivered
	f.bounced += bounced
	c := f.campaigns[id]
	c.SentCount += sent
	c.DeliveredCount += delivered
	c.BouncedCount += bounced
	return nil
}

func (f *fakeCampaignStore) MarkSent(id int, at time.Time) error {
	c := f.campaigns[id]
	c.Status = model.CampaignSent
	c.SentAt = &at
	return nil
}

func (f *fakeCampaignStore) ClearCSVPath(id int) error {
	f.campaigns[id].Settings.CSVFilePath = ""
	return nil
}

type fakeRecipientStore struct {
	mu         sync.Mutex
	recipients map[int]*model.CampaignRecipient
}

func (f *fakeRecipientStore) ListPending(campaignID, limit int) ([]*model.CampaignRecipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.CampaignRecipient{}
	for _, rec := range f.recipients {
		if rec.CampaignID == campaignID && rec.Status == model.RecipientPending {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRecipientStore) GetByID(id int) (*model.CampaignRecipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recipients[id], nil
}

func (f *fakeRecipientStore) MarkSent(id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.recipients[id]
	rec.Status = model.RecipientSent
	rec.SentAt = &at
	rec.DeliveredAt = &at
	return nil
}

func (f *fakeRecipientStore) MarkBounced(id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.recipients[id]
	rec.Status = model.RecipientBounced
	rec.BouncedAt = &at
	return nil
}

func (f *fakeRecipientStore) MarkOpened(id int, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recipients[id]
	if !ok || rec.OpenedAt != nil {
		return false, nil
	}
	rec.OpenedAt = &at
	rec.Status = model.RecipientOpened
	return true, nil
}

func (f *fakeRecipientStore) MarkClicked(id int, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recipients[id]
	if !ok || rec.ClickedAt != nil {
		return false, nil
	}
	rec.ClickedAt = &at
	rec.Status = model.RecipientClicked
	return true, nil
}

func (f *fakeRecipientStore) MarkUnsubscribed(id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.recipients[id]
	rec.Status = model.RecipientUnsubscribed
	if rec.UnsubscribedAt == nil {
		rec.UnsubscribedAt = &at
	}
	return nil
}

type fakeCsvLog struct {
	claimed map[string]bool
}

func (f *fakeCsvLog) TryClaim(campaignID int, email string) (bool, error) {
	key := fmt.Sprintf("%d:%s", campaignID, email)
	if f.claimed[key] {
		return false, nil
	}
	if f.claimed == nil {
		f.claimed = map[string]bool{}
	}
	f.claimed[key] = true
	return true, nil
}

type queuedTask struct {
	taskType string
	payload  any
	delay    time.Duration
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []queuedTask
}

func (f *fakeQueue) Enqueue(taskType string, payload any, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, queuedTask{taskType: taskType, payload: payload, delay: delay})
	return nil
}

type fakeAudit struct {
	events []*model.AuditEvent
}

func (f *fakeAudit) Record(e *model.AuditEvent) error {
	f.events = append(f.events, e)
	return nil
}

type sentMail struct {
	to      string
	subject string
	html    string
	from    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]bool
}

func (f *fakeMailer) Send(to, subject, html, from string) error {
	if f.failFor[to] {
		return fmt.Errorf("mock transport refused %s", to)
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html, from: from})
	return nil
}

type fakeSequenceStore struct {
	enrollments map[int]*model.SequenceEnrollment
	steps       map[int]*model.SequenceStep
	logs        []*model.SequenceLog
}

func (f *fakeSequenceStore) GetEnrollment(id int) (*model.SequenceEnrollment, error) {
	return f.enrollments[id], nil
}

func (f *fakeSequenceStore) UpdateEnrollmentStep(id, step int) error {
	f.enrollments[id].CurrentStep = step
	return nil
}

func (f *fakeSequenceStore) UpdateEnrollmentStatus(id int, status string) error {
	f.enrollments[id].Status = status
	return nil
}

func (f *fakeSequenceStore) GetStep(id int) (*model.SequenceStep, error) {
	return f.steps[id], nil
}

func (f *fakeSequenceStore) GetStepByOrder(sequenceID, order int) (*model.SequenceStep, error) {
	for _, s := range f.steps {
		if s.SequenceID == sequenceID && s.StepOrder == order {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSequenceStore) CountSteps(sequenceID int) (int, error) {
	count := 0
	for _, s := range f.steps {
		if s.SequenceID == sequenceID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSequenceStore) AppendLog(l *model.SequenceLog) error {
	l.ID = len(f.logs) + 1
	f.logs = append(f.logs, l)
	return nil
}

type fakeCrmStore struct {
	contacts  map[int]*model.Contact
	companies map[int]*model.Company
	deals     map[int]*model.Deal
	templates map[int]*model.MailTemplate
}

func (f *fakeCrmStore) GetContact(id int) (*model.Contact, error)       { return f.contacts[id], nil }
func (f *fakeCrmStore) GetCompany(id int) (*model.Company, error)      { return f.companies[id], nil }
func (f *fakeCrmStore) GetDeal(id int) (*model.Deal, error)            { return f.deals[id], nil }
func (f *fakeCrmStore) GetTemplate(id int) (*model.MailTemplate, error) {
	return f.templates[id], nil
}

type fakeTaskStore struct {
	tasks      []*model.CrmTask
	activities []*model.Activity
}

func (f *fakeTaskStore) CreateTask(t *model.CrmTask) error {
	t.ID = len(f.tasks) + 1
	f.tasks = append(f.tasks, t)
	return nil
}

func (f *fakeTaskStore) CreateActivity(a *model.Activity) error {
	a.ID = len(f.activities) + 1
	f.activities = append(f.activities, a)
	return nil
}
