package service

import (
	"fmt"
	"time"

	"github.com/unclebandit/outreach-engine/internal/config"
	"github.com/unclebandit/outreach-engine/internal/mail"
	"github.com/unclebandit/outreach-engine/internal/model"
)

// emailStep resolves the enrollment target, renders its template and
// sends. Missing address, missing template and transport errors are all
// soft failures: recorded, never retried.
type emailStep struct {
	cfg    config.Config
	crm    CrmStore
	mailer mail.Mailer
}

func (h *emailStep) Execute(enr *model.SequenceEnrollment, step *model.SequenceStep) (Outcome, error) {
	out := Outcome{Performed: string(model.StepEmail)}

	target, note, err := resolveTarget(h.crm, enr)
	if err != nil {
		return out, err
	}
	if note != "" {
		out.Notes = note
		return out, nil
	}

	email := target.Email()
	if email == "" {
		out.Notes = "target has no email address"
		return out, nil
	}

	if step.EmailTemplateID == nil {
		out.Notes = "step has no email template"
		return out, nil
	}
	tpl, err := h.crm.GetTemplate(*step.EmailTemplateID)
	if err != nil {
		return out, err
	}
	if tpl == nil {
		out.Notes = fmt.Sprintf("template %d not found", *step.EmailTemplateID)
		return out, nil
	}

	subject, body := RenderMailTemplate(tpl, target.DisplayName())
	if sendErr := h.mailer.Send(email, subject, body, h.cfg.MailFrom); sendErr != nil {
		out.Notes = "send failed: " + sendErr.Error()
		return out, nil
	}

	out.OK = true
	out.Notes = "sent to " + email
	return out, nil
}

// taskStep creates a CRM task for the enrollment's creator plus an
// activity entry. It succeeds whenever persistence succeeds.
type taskStep struct {
	cfg   config.Config
	tasks TaskStore
}

func (h *taskStep) Execute(enr *model.SequenceEnrollment, step *model.SequenceStep) (Outcome, error) {
	out := Outcome{Performed: string(model.StepTask)}

	title := step.TaskTitle
	if title == "" {
		title = "Sequence follow-up"
	}
	task := &model.CrmTask{
		TenantID:    enr.TenantID,
		AssignedTo:  enr.CreatedBy,
		Title:       title,
		Description: step.TaskDescription,
		DueDate:     time.Now().AddDate(0, 0, h.cfg.TaskDueDays),
	}
	if err := h.tasks.CreateTask(task); err != nil {
		return out, err
	}

	activity := &model.Activity{
		TenantID:    enr.TenantID,
		SubjectType: enr.TargetType,
		SubjectID:   enr.TargetID,
		Description: fmt.Sprintf("Sequence task created: %s", title),
	}
	if err := h.tasks.CreateActivity(activity); err != nil {
		return out, err
	}

	out.OK = true
	out.Notes = fmt.Sprintf("task %d created", task.ID)
	return out, nil
}

// waitStep is a pure time-delay placeholder; the delay itself lives in the
// successor's enqueue, so executing it just logs and advances.
type waitStep struct{}

func (waitStep) Execute(*model.SequenceEnrollment, *model.SequenceStep) (Outcome, error) {
	return Outcome{Performed: string(model.StepWait), OK: true, Notes: "delay step"}, nil
}
