package service

import (
	"fmt"

	"github.com/unclebandit/outreach-engine/internal/model"
)

// EmailTarget is the resolved destination of a sequence email step. One
// concrete type per enrollable entity replaces string-branching on the
// target type at every use site.
type EmailTarget interface {
	Email() string
	DisplayName() string
}

type contactTarget struct {
	contact *model.Contact
}

func (t contactTarget) Email() string       { return t.contact.Email }
func (t contactTarget) DisplayName() string { return t.contact.FullName() }

type companyTarget struct {
	company *model.Company
	primary *model.Contact
}

// Email prefers the primary contact's address, falling back to the
// company's own.
func (t companyTarget) Email() string {
	if t.primary != nil && t.primary.Email != "" {
		return t.primary.Email
	}
	return t.company.Email
}

func (t companyTarget) DisplayName() string { return t.company.Name }

type dealTarget struct {
	deal    *model.Deal
	contact *model.Contact
}

func (t dealTarget) Email() string {
	if t.contact != nil {
		return t.contact.Email
	}
	return ""
}

func (t dealTarget) DisplayName() string {
	if t.contact != nil && t.contact.FullName() != "" {
		return t.contact.FullName()
	}
	return t.deal.Title
}

// resolveTarget loads the enrollment's polymorphic target. A non-empty
// note is a soft failure (missing record, unsupported type); an error is
// an infrastructure failure.
func resolveTarget(crm CrmStore, enr *model.SequenceEnrollment) (EmailTarget, string, error) {
	switch enr.TargetType {
	case model.TargetContact:
		c, err := crm.GetContact(enr.TargetID)
		if err != nil {
			return nil, "", err
		}
		if c == nil {
			return nil, fmt.Sprintf("contact %d not found", enr.TargetID), nil
		}
		return contactTarget{contact: c}, "", nil

	case model.TargetCompany:
		co, err := crm.GetCompany(enr.TargetID)
		if err != nil {
			return nil, "", err
		}
		if co == nil {
			return nil, fmt.Sprintf("company %d not found", enr.TargetID), nil
		}
		var primary *model.Contact
		if co.PrimaryContactID != nil {
			primary, err = crm.GetContact(*co.PrimaryContactID)
			if err != nil {
				return nil, "", err
			}
		}
		return companyTarget{company: co, primary: primary}, "", nil

	case model.TargetDeal:
		d, err := crm.GetDeal(enr.TargetID)
		if err != nil {
			return nil, "", err
		}
		if d == nil {
			return nil, fmt.Sprintf("deal %d not found", enr.TargetID), nil
		}
		var contact *model.Contact
		if d.ContactID != nil {
			contact, err = crm.GetContact(*d.ContactID)
			if err != nil {
				return nil, "", err
			}
		}
		return dealTarget{deal: d, contact: contact}, "", nil
	}
	return nil, fmt.Sprintf("unsupported target type %q", enr.TargetType), nil
}
