package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task types routed by the worker.
const (
	TaskCampaignDispatch = "campaign.dispatch"
	TaskSequenceStep     = "sequence.step"
)

// Task is the envelope every queued unit of work travels in.
type Task struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type DispatchPayload struct {
	CampaignID int `json:"campaign_id"`
}

type StepPayload struct {
	EnrollmentID int `json:"enrollment_id"`
	StepID       int `json:"step_id"`
}

// Queue is the engine's only coordination primitive. Delivery is
// at-least-once; delay is a visibility offset, never a blocked worker.
type Queue interface {
	Enqueue(taskType string, payload any, delay time.Duration) error
}

// Handler consumes one task body and returns an error to trigger a retry.
type Handler func(payload []byte) error

// InMemoryQueue runs handlers in-process with retry and backoff. Used for
// local single-binary runs and tests; production uses AMQP.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	log      *zap.SugaredLogger
}

func NewInMemoryQueue(log *zap.SugaredLogger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

func (q *InMemoryQueue) Subscribe(taskType string, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[taskType] = append(q.handlers[taskType], handler)
}

func (q *InMemoryQueue) Enqueue(taskType string, payload any, delay time.Duration) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	q.mu.Lock()
	handlers := q.handlers[taskType]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for task type %s", taskType)
	}

	for _, handler := range handlers {
		h := handler
		if delay > 0 {
			time.AfterFunc(delay, func() { q.processJob(taskType, h, body) })
		} else {
			go q.processJob(taskType, h, body)
		}
	}
	return nil
}

const maxRetries = 3

func (q *InMemoryQueue) processJob(taskType string, handler Handler, body []byte) {
	for attempt := 0; ; attempt++ {
		err := handler(body)
		if err == nil {
			return
		}

		q.log.Warnw("task failed", "type", taskType, "attempt", attempt+1, "error", err)
		if attempt+1 > maxRetries {
			q.log.Errorw("task permanently failed", "type", taskType, "payload", string(body))
			return
		}
		// Linear backoff before retry
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
}
