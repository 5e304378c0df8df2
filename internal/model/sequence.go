package model

import "time"

// StepAction is the closed set of sequence step types.
type StepAction string

const (
	StepEmail StepAction = "email"
	StepTask  StepAction = "task"
	StepWait  StepAction = "wait"
)

// Enrollment statuses. completed and cancelled are absorbing.
const (
	EnrollmentActive    = "active"
	EnrollmentPaused    = "paused"
	EnrollmentCancelled = "cancelled"
	EnrollmentCompleted = "completed"
)

// Enrollment target types
const (
	TargetContact = "contact"
	TargetCompany = "company"
	TargetDeal    = "deal"
)

type Sequence struct {
	ID        int       `db:"id" json:"id"`
	TenantID  int       `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SequenceStep is immutable once enrollments reference it.
type SequenceStep struct {
	ID              int        `db:"id" json:"id"`
	SequenceID      int        `db:"sequence_id" json:"sequence_id"`
	StepOrder       int        `db:"step_order" json:"step_order"`
	ActionType      StepAction `db:"action_type" json:"action_type"`
	DelayHours      int        `db:"delay_hours" json:"delay_hours"`
	EmailTemplateID *int       `db:"email_template_id" json:"email_template_id,omitempty"`
	TaskTitle       string     `db:"task_title" json:"task_title,omitempty"`
	TaskDescription string     `db:"task_description" json:"task_description,omitempty"`
}

type SequenceEnrollment struct {
	ID          int        `db:"id" json:"id"`
	SequenceID  int        `db:"sequence_id" json:"sequence_id"`
	TargetType  string     `db:"target_type" json:"target_type"`
	TargetID    int        `db:"target_id" json:"target_id"`
	CurrentStep int        `db:"current_step" json:"current_step"`
	Status      string     `db:"status" json:"status"`
	CreatedBy   int        `db:"created_by" json:"created_by"`
	TenantID    int        `db:"tenant_id" json:"tenant_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// SequenceLog rows are append-only; one per step execution attempt.
type SequenceLog struct {
	ID              int       `db:"id" json:"id"`
	EnrollmentID    int       `db:"enrollment_id" json:"enrollment_id"`
	StepID          int       `db:"step_id" json:"step_id"`
	ActionPerformed string    `db:"action_performed" json:"action_performed"`
	Status          string    `db:"status" json:"status"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	PerformedAt     time.Time `db:"performed_at" json:"performed_at"`
}

// Sequence log statuses
const (
	LogSuccess = "success"
	LogFailed  = "failed"
)
