package queue

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryQueueDeliversPayload(t *testing.T) {
	q := NewInMemoryQueue(zap.NewNop().Sugar())

	got := make(chan DispatchPayload, 1)
	q.Subscribe(TaskCampaignDispatch, func(body []byte) error {
		var p DispatchPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return err
		}
		got <- p
		return nil
	})

	require.NoError(t, q.Enqueue(TaskCampaignDispatch, DispatchPayload{CampaignID: 42}, 0))

	select {
	case p := <-got:
		assert.Equal(t, 42, p.CampaignID)
	case <-time.After(2 * time.Second):
		t.Fatal("handler never invoked")
	}
}

func TestInMemoryQueueNoSubscribers(t *testing.T) {
	q := NewInMemoryQueue(zap.NewNop().Sugar())
	err := q.Enqueue(TaskSequenceStep, StepPayload{EnrollmentID: 1, StepID: 2}, 0)
	assert.Error(t, err)
}

func TestInMemoryQueueDelayedDelivery(t *testing.T) {
	q := NewInMemoryQueue(zap.NewNop().Sugar())

	var mu sync.Mutex
	var deliveredAt time.Time
	done := make(chan struct{})
	q.Subscribe(TaskSequenceStep, func([]byte) error {
		mu.Lock()
		deliveredAt = time.Now()
		mu.Unlock()
		close(done)
		return nil
	})

	start := time.Now()
	require.NoError(t, q.Enqueue(TaskSequenceStep, StepPayload{EnrollmentID: 1, StepID: 2}, 50*time.Millisecond))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delayed task never delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, deliveredAt.Sub(start), 50*time.Millisecond)
}

func TestInMemoryQueueRetriesUntilSuccess(t *testing.T) {
	q := NewInMemoryQueue(zap.NewNop().Sugar())

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	q.Subscribe(TaskCampaignDispatch, func([]byte) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})

	require.NoError(t, q.Enqueue(TaskCampaignDispatch, DispatchPayload{CampaignID: 1}, 0))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not retried to success")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}
