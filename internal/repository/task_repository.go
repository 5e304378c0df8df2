package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/outreach-engine/internal/model"
)

type TaskRepository struct {
	DB *sql.DB
}

func (r *TaskRepository) CreateTask(t *model.CrmTask) error {
	t.CreatedAt = time.Now()
	if t.Status == "" {
		t.Status = "open"
	}
	query := `
        INSERT INTO tasks (tenant_id, assigned_to, title, description, due_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		t.TenantID, t.AssignedTo, t.Title, t.Description, t.DueDate, t.Status, t.CreatedAt,
	).Scan(&t.ID)
}

func (r *TaskRepository) CreateActivity(a *model.Activity) error {
	a.CreatedAt = time.Now()
	query := `
        INSERT INTO activities (tenant_id, subject_type, subject_id, description, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		a.TenantID, a.SubjectType, a.SubjectID, a.Description, a.CreatedAt,
	).Scan(&a.ID)
}
