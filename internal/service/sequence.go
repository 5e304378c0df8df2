package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-engine/internal/apperrors"
	"github.com/unclebandit/outreach-engine/internal/config"
	"github.com/unclebandit/outreach-engine/internal/mail"
	"github.com/unclebandit/outreach-engine/internal/model"
	"github.com/unclebandit/outreach-engine/internal/queue"
)

// Outcome is what a step handler reports back. OK=false is a soft failure
// recorded in the log; only a returned error fails the task itself.
type Outcome struct {
	Performed string
	OK        bool
	Notes     string
}

// StepHandler executes one step variant. Adding a step type means adding
// a handler to the registry, not editing a central switch.
type StepHandler interface {
	Execute(enr *model.SequenceEnrollment, step *model.SequenceStep) (Outcome, error)
}

// Executor drives one step of one enrollment per task, then self-enqueues
// the successor with its configured delay. No worker ever sleeps through a
// step delay.
type Executor struct {
	Cfg       config.Config
	Sequences SequenceStore
	Queue     queue.Queue
	Audit     AuditSink
	Log       *zap.SugaredLogger
	handlers  map[model.StepAction]StepHandler
}

func NewExecutor(cfg config.Config, sequences SequenceStore, crm CrmStore, tasks TaskStore,
	mailer mail.Mailer, q queue.Queue, audit AuditSink, log *zap.SugaredLogger) *Executor {
	return &Executor{
		Cfg:       cfg,
		Sequences: sequences,
		Queue:     q,
		Audit:     audit,
		Log:       log,
		handlers: map[model.StepAction]StepHandler{
			model.StepEmail: &emailStep{cfg: cfg, crm: crm, mailer: mailer},
			model.StepTask:  &taskStep{cfg: cfg, tasks: tasks},
			model.StepWait:  waitStep{},
		},
	}
}

// ExecuteStep runs one (enrollment, step) pair. The guards make duplicate
// and stale deliveries harmless: a task that fires after the enrollment
// was paused, cancelled or already advanced silently no-ops.
func (e *Executor) ExecuteStep(enrollmentID, stepID int) error {
	enr, err := e.Sequences.GetEnrollment(enrollmentID)
	if err != nil {
		return err
	}
	step, err := e.Sequences.GetStep(stepID)
	if err != nil {
		return err
	}
	if enr == nil || step == nil {
		return nil
	}
	if enr.Status != model.EnrollmentActive {
		return nil
	}
	if enr.CurrentStep != step.StepOrder {
		return nil
	}

	handler, ok := e.handlers[step.ActionType]
	if !ok {
		e.appendLog(enr, step, Outcome{
			Performed: string(step.ActionType),
			Notes:     "no handler registered for action type",
		})
		return apperrors.NewUnknownStepAction(string(step.ActionType))
	}

	outcome, err := handler.Execute(enr, step)
	if err != nil {
		// Hard failure: the log row is still written for the audit trail,
		// then the error propagates so the queue retries the task.
		e.appendLog(enr, step, Outcome{Performed: string(step.ActionType), Notes: err.Error()})
		return err
	}

	e.appendLog(enr, step, outcome)
	return e.advance(enr)
}

func (e *Executor) appendLog(enr *model.SequenceEnrollment, step *model.SequenceStep, outcome Outcome) {
	status := model.LogSuccess
	if !outcome.OK {
		status = model.LogFailed
	}
	err := e.Sequences.AppendLog(&model.SequenceLog{
		EnrollmentID:    enr.ID,
		StepID:          step.ID,
		ActionPerformed: outcome.Performed,
		Status:          status,
		Notes:           outcome.Notes,
		PerformedAt:     time.Now(),
	})
	if err != nil {
		e.Log.Errorw("failed to append sequence log",
			"enrollment_id", enr.ID, "step_id", step.ID, "error", err)
	}
}

// advance moves the step pointer forward. Past the last step the
// enrollment completes; otherwise the successor task is enqueued with the
// next step's delay.
func (e *Executor) advance(enr *model.SequenceEnrollment) error {
	total, err := e.Sequences.CountSteps(enr.SequenceID)
	if err != nil {
		return err
	}

	next := enr.CurrentStep + 1
	if next > total {
		if err := e.Sequences.UpdateEnrollmentStatus(enr.ID, model.EnrollmentCompleted); err != nil {
			return err
		}
		if err := e.Audit.Record(&model.AuditEvent{
			TenantID:   enr.TenantID,
			EventType:  model.EventSequenceCompleted,
			EntityType: "sequence_enrollment",
			EntityID:   enr.ID,
			Metadata:   map[string]any{"sequence_id": enr.SequenceID},
		}); err != nil {
			e.Log.Warnw("failed to record completion event", "enrollment_id", enr.ID, "error", err)
		}
		return nil
	}

	nextStep, err := e.Sequences.GetStepByOrder(enr.SequenceID, next)
	if err != nil {
		return err
	}
	if nextStep == nil {
		// Gap in step numbering; treat the chain as finished.
		return e.Sequences.UpdateEnrollmentStatus(enr.ID, model.EnrollmentCompleted)
	}

	if err := e.Sequences.UpdateEnrollmentStep(enr.ID, next); err != nil {
		return err
	}

	delay := time.Duration(nextStep.DelayHours) * time.Hour
	if delay < 0 {
		delay = 0
	}
	return e.Queue.Enqueue(queue.TaskSequenceStep,
		queue.StepPayload{EnrollmentID: enr.ID, StepID: nextStep.ID}, delay)
}
