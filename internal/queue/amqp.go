package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const (
	WorkQueue = "engine_tasks"
	waitQueue = "engine_tasks_wait"
)

// AmqpQueue publishes tasks to RabbitMQ. Delayed tasks go through a wait
// queue whose dead-letter routing feeds the work queue: the message sits
// there until its per-message TTL expires, then gets redelivered.
type AmqpQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAmqpQueue(url string) (*AmqpQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := DeclareQueues(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AmqpQueue{conn: conn, ch: ch}, nil
}

// DeclareQueues sets up the work and wait queues. Both publisher and
// worker call it so either side can start first.
func DeclareQueues(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(WorkQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare work queue: %w", err)
	}
	_, err := ch.QueueDeclare(waitQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": WorkQueue,
	})
	if err != nil {
		return fmt.Errorf("failed to declare wait queue: %w", err)
	}
	return nil
}

func (q *AmqpQueue) Enqueue(taskType string, payload any, delay time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(Task{Type: taskType, Payload: raw})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	target := WorkQueue
	if delay > 0 {
		target = waitQueue
		pub.Expiration = fmt.Sprintf("%d", delay.Milliseconds())
	}

	return q.ch.Publish("", target, false, false, pub)
}

func (q *AmqpQueue) Close() {
	if q.ch != nil {
		q.ch.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
}
