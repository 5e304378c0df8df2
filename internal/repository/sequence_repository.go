package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/outreach-engine/internal/model"
)

type SequenceRepository struct {
	DB *sql.DB
}

func (r *SequenceRepository) GetEnrollment(id int) (*model.SequenceEnrollment, error) {
	query := `
        SELECT id, sequence_id, target_type, target_id, current_step, status,
               created_by, tenant_id, created_at, updated_at
        FROM sequence_enrollments WHERE id=$1
    `
	var e model.SequenceEnrollment
	err := r.DB.QueryRow(query, id).Scan(
		&e.ID, &e.SequenceID, &e.TargetType, &e.TargetID, &e.CurrentStep, &e.Status,
		&e.CreatedBy, &e.TenantID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *SequenceRepository) CreateEnrollment(e *model.SequenceEnrollment) error {
	e.CreatedAt = time.Now()
	if e.Status == "" {
		e.Status = model.EnrollmentActive
	}
	if e.CurrentStep == 0 {
		e.CurrentStep = 1
	}
	query := `
        INSERT INTO sequence_enrollments
            (sequence_id, target_type, target_id, current_step, status, created_by, tenant_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		e.SequenceID, e.TargetType, e.TargetID, e.CurrentStep, e.Status, e.CreatedBy, e.TenantID, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *SequenceRepository) UpdateEnrollmentStep(id, step int) error {
	query := `UPDATE sequence_enrollments SET current_step=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, step, id)
	return err
}

func (r *SequenceRepository) UpdateEnrollmentStatus(id int, status string) error {
	query := `UPDATE sequence_enrollments SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

const stepColumns = `id, sequence_id, step_order, action_type, delay_hours,
       email_template_id, task_title, task_description`

func scanStep(row interface{ Scan(...any) error }) (*model.SequenceStep, error) {
	var s model.SequenceStep
	err := row.Scan(
		&s.ID, &s.SequenceID, &s.StepOrder, &s.ActionType, &s.DelayHours,
		&s.EmailTemplateID, &s.TaskTitle, &s.TaskDescription,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SequenceRepository) GetStep(id int) (*model.SequenceStep, error) {
	query := `SELECT ` + stepColumns + ` FROM sequence_steps WHERE id=$1`
	step, err := scanStep(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return step, nil
}

func (r *SequenceRepository) GetStepByOrder(sequenceID, order int) (*model.SequenceStep, error) {
	query := `SELECT ` + stepColumns + ` FROM sequence_steps WHERE sequence_id=$1 AND step_order=$2`
	step, err := scanStep(r.DB.QueryRow(query, sequenceID, order))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return step, nil
}

func (r *SequenceRepository) CountSteps(sequenceID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM sequence_steps WHERE sequence_id=$1`, sequenceID).Scan(&count)
	return count, err
}

// AppendLog writes one audit row per execution attempt. Rows are never updated.
func (r *SequenceRepository) AppendLog(l *model.SequenceLog) error {
	if l.PerformedAt.IsZero() {
		l.PerformedAt = time.Now()
	}
	query := `
        INSERT INTO sequence_logs (enrollment_id, step_id, action_performed, status, notes, performed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		l.EnrollmentID, l.StepID, l.ActionPerformed, l.Status, l.Notes, l.PerformedAt,
	).Scan(&l.ID)
}
