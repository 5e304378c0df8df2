package apperrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrRecipientNotFound is returned when a beacon references an unknown recipient.
type ErrRecipientNotFound struct {
	RecipientID int
}

func (e *ErrRecipientNotFound) Error() string {
	return fmt.Sprintf("recipient with ID %d not found", e.RecipientID)
}

func NewRecipientNotFound(id int) error {
	return &ErrRecipientNotFound{RecipientID: id}
}

// ErrUnknownStepAction marks a sequence step whose action type has no
// registered handler. It fails the task so the queue retries it and an
// operator sees it, instead of being swallowed as a soft failure.
type ErrUnknownStepAction struct {
	Action string
}

func (e *ErrUnknownStepAction) Error() string {
	return fmt.Sprintf("unknown sequence step action: %s", e.Action)
}

func NewUnknownStepAction(action string) error {
	return &ErrUnknownStepAction{Action: action}
}
