package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/outreach-engine/internal/model"
	"github.com/unclebandit/outreach-engine/internal/queue"
	"github.com/unclebandit/outreach-engine/internal/repository"
)

type CampaignController struct {
	Campaigns *repository.CampaignRepository
	Queue     queue.Queue
}

// Dispatch enqueues a dispatch task for the campaign. The actual send
// happens on the worker.
func (c *CampaignController) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.Campaigns.GetByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := c.Campaigns.UpdateStatus(id, model.CampaignSending); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := c.Queue.Enqueue(queue.TaskCampaignDispatch, queue.DispatchPayload{CampaignID: id}, 0); err != nil {
		http.Error(w, "failed to enqueue dispatch", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaign_id": campaign.ID,
		"status":      model.CampaignSending,
	})
}

// Pause flips the cooperative pause flag. An in-flight dispatch task sees
// it and reschedules itself instead of consuming recipients.
func (c *CampaignController) Pause(w http.ResponseWriter, r *http.Request) {
	c.setPaused(w, r, true)
}

// Resume clears the flag and re-enqueues a dispatch so the remaining
// pending recipients get picked up.
func (c *CampaignController) Resume(w http.ResponseWriter, r *http.Request) {
	id := c.setPaused(w, r, false)
	if id == 0 {
		return
	}
	if err := c.Queue.Enqueue(queue.TaskCampaignDispatch, queue.DispatchPayload{CampaignID: id}, 0); err != nil {
		http.Error(w, "failed to enqueue dispatch", http.StatusInternalServerError)
	}
}

func (c *CampaignController) setPaused(w http.ResponseWriter, r *http.Request, paused bool) int {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return 0
	}
	if err := c.Campaigns.SetPaused(id, paused); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return 0
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaign_id": id,
		"paused":      paused,
	})
	return id
}

// Get returns a campaign with its live recipient-status stats.
func (c *CampaignController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.Campaigns.GetByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	stats, err := c.Campaigns.GetStats(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaign": campaign,
		"stats":    stats,
	})
}
