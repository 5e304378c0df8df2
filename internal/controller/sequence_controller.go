package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/outreach-engine/internal/model"
	"github.com/unclebandit/outreach-engine/internal/queue"
	"github.com/unclebandit/outreach-engine/internal/repository"
)

type SequenceController struct {
	Sequences *repository.SequenceRepository
	Queue     queue.Queue
}

// Enroll creates an enrollment at step 1 and enqueues its first step task,
// delayed by the first step's configured delay.
func (c *SequenceController) Enroll(w http.ResponseWriter, r *http.Request) {
	sequenceID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid sequence id", http.StatusBadRequest)
		return
	}

	var body struct {
		TargetType string `json:"target_type"`
		TargetID   int    `json:"target_id"`
		CreatedBy  int    `json:"created_by"`
		TenantID   int    `json:"tenant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	switch body.TargetType {
	case model.TargetContact, model.TargetCompany, model.TargetDeal:
	default:
		http.Error(w, "invalid target_type", http.StatusBadRequest)
		return
	}

	firstStep, err := c.Sequences.GetStepByOrder(sequenceID, 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if firstStep == nil {
		http.Error(w, "sequence has no steps", http.StatusBadRequest)
		return
	}

	enrollment := &model.SequenceEnrollment{
		SequenceID: sequenceID,
		TargetType: body.TargetType,
		TargetID:   body.TargetID,
		CreatedBy:  body.CreatedBy,
		TenantID:   body.TenantID,
	}
	if err := c.Sequences.CreateEnrollment(enrollment); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	delay := time.Duration(firstStep.DelayHours) * time.Hour
	if delay < 0 {
		delay = 0
	}
	err = c.Queue.Enqueue(queue.TaskSequenceStep,
		queue.StepPayload{EnrollmentID: enrollment.ID, StepID: firstStep.ID}, delay)
	if err != nil {
		http.Error(w, "failed to enqueue first step", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(enrollment)
}

// PauseEnrollment stops future step tasks via the executor's guards; the
// tasks themselves stay queued and no-op when they fire.
func (c *SequenceController) PauseEnrollment(w http.ResponseWriter, r *http.Request) {
	c.updateStatus(w, r, model.EnrollmentPaused)
}

func (c *SequenceController) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	c.updateStatus(w, r, model.EnrollmentCancelled)
}

// ResumeEnrollment reactivates the enrollment and re-enqueues its current
// step, since any previously queued task for it already no-opped.
func (c *SequenceController) ResumeEnrollment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid enrollment id", http.StatusBadRequest)
		return
	}

	enrollment, err := c.Sequences.GetEnrollment(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if enrollment == nil {
		http.Error(w, "enrollment not found", http.StatusNotFound)
		return
	}
	if enrollment.Status != model.EnrollmentPaused {
		http.Error(w, "enrollment is not paused", http.StatusConflict)
		return
	}

	step, err := c.Sequences.GetStepByOrder(enrollment.SequenceID, enrollment.CurrentStep)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := c.Sequences.UpdateEnrollmentStatus(id, model.EnrollmentActive); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if step != nil {
		err = c.Queue.Enqueue(queue.TaskSequenceStep,
			queue.StepPayload{EnrollmentID: id, StepID: step.ID}, 0)
		if err != nil {
			http.Error(w, "failed to enqueue step", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"enrollment_id": id,
		"status":        model.EnrollmentActive,
	})
}

func (c *SequenceController) updateStatus(w http.ResponseWriter, r *http.Request, status string) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid enrollment id", http.StatusBadRequest)
		return
	}
	if err := c.Sequences.UpdateEnrollmentStatus(id, status); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"enrollment_id": id,
		"status":        status,
	})
}
