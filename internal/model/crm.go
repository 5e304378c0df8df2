package model

import "time"

// CRM records consumed by the engine. Their CRUD lives elsewhere in the
// platform; the engine only reads them (and appends tasks/activities).

type Contact struct {
	ID        int    `db:"id" json:"id"`
	TenantID  int    `db:"tenant_id" json:"tenant_id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	CompanyID *int   `db:"company_id" json:"company_id,omitempty"`
}

func (c *Contact) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type Company struct {
	ID               int    `db:"id" json:"id"`
	TenantID         int    `db:"tenant_id" json:"tenant_id"`
	Name             string `db:"name" json:"name"`
	Email            string `db:"email" json:"email"`
	PrimaryContactID *int   `db:"primary_contact_id" json:"primary_contact_id,omitempty"`
}

type Deal struct {
	ID        int    `db:"id" json:"id"`
	TenantID  int    `db:"tenant_id" json:"tenant_id"`
	Title     string `db:"title" json:"title"`
	ContactID *int   `db:"contact_id" json:"contact_id,omitempty"`
}

type User struct {
	ID    int    `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// CrmTask is created by the sequence task step handler.
type CrmTask struct {
	ID          int       `db:"id" json:"id"`
	TenantID    int       `db:"tenant_id" json:"tenant_id"`
	AssignedTo  int       `db:"assigned_to" json:"assigned_to"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Activity is an append-only feed entry.
type Activity struct {
	ID          int       `db:"id" json:"id"`
	TenantID    int       `db:"tenant_id" json:"tenant_id"`
	SubjectType string    `db:"subject_type" json:"subject_type"`
	SubjectID   int       `db:"subject_id" json:"subject_id"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type MailTemplate struct {
	ID       int    `db:"id" json:"id"`
	TenantID int    `db:"tenant_id" json:"tenant_id"`
	Name     string `db:"name" json:"name"`
	Subject  string `db:"subject" json:"subject"`
	Content  string `db:"content" json:"content"`
}
