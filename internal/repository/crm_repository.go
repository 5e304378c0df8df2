package repository

import (
	"database/sql"

	"github.com/unclebandit/outreach-engine/internal/model"
)

// CrmRepository reads the CRM records the engine consumes but does not own.
type CrmRepository struct {
	DB *sql.DB
}

func (r *CrmRepository) GetContact(id int) (*model.Contact, error) {
	query := `SELECT id, tenant_id, first_name, last_name, email, company_id FROM contacts WHERE id=$1`
	var c model.Contact
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Email, &c.CompanyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CrmRepository) GetCompany(id int) (*model.Company, error) {
	query := `SELECT id, tenant_id, name, email, primary_contact_id FROM companies WHERE id=$1`
	var c model.Company
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.PrimaryContactID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CrmRepository) GetDeal(id int) (*model.Deal, error) {
	query := `SELECT id, tenant_id, title, contact_id FROM deals WHERE id=$1`
	var d model.Deal
	err := r.DB.QueryRow(query, id).Scan(&d.ID, &d.TenantID, &d.Title, &d.ContactID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *CrmRepository) GetTemplate(id int) (*model.MailTemplate, error) {
	query := `SELECT id, tenant_id, name, subject, content FROM mail_templates WHERE id=$1`
	var t model.MailTemplate
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.TenantID, &t.Name, &t.Subject, &t.Content)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
