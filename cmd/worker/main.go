package main

import (
	"encoding/json"

	"github.com/streadway/amqp"

	"github.com/unclebandit/outreach-engine/internal/config"
	"github.com/unclebandit/outreach-engine/internal/db"
	"github.com/unclebandit/outreach-engine/internal/logger"
	"github.com/unclebandit/outreach-engine/internal/mail"
	"github.com/unclebandit/outreach-engine/internal/queue"
	"github.com/unclebandit/outreach-engine/internal/repository"
	"github.com/unclebandit/outreach-engine/internal/service"
	"github.com/unclebandit/outreach-engine/internal/tracking"
)

const maxRetries = 3

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.AppEnv)
	log := logger.Sugar()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	defer conn.Close()

	campaignRepo := &repository.CampaignRepository{DB: conn}
	recipientRepo := &repository.RecipientRepository{DB: conn}
	sequenceRepo := &repository.SequenceRepository{DB: conn}
	crmRepo := &repository.CrmRepository{DB: conn}
	taskRepo := &repository.TaskRepository{DB: conn}
	auditRepo := &repository.AuditRepository{DB: conn}
	csvLogRepo := &repository.CsvSendLogRepository{DB: conn}

	mailer, err := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		log.Fatalw("mailer setup failed", "error", err)
	}

	q, err := queue.NewAmqpQueue(cfg.AmqpURL)
	if err != nil {
		log.Fatalw("queue connection failed", "error", err)
	}
	defer q.Close()

	dispatcher := &service.Dispatcher{
		Cfg:        cfg,
		Campaigns:  campaignRepo,
		Recipients: recipientRepo,
		CsvLog:     csvLogRepo,
		Injector:   tracking.NewInjector(cfg.BaseURL),
		Mailer:     mailer,
		Queue:      q,
		Audit:      auditRepo,
		Log:        log,
	}
	executor := service.NewExecutor(cfg, sequenceRepo, crmRepo, taskRepo, mailer, q, auditRepo, log)

	amqpConn, err := amqp.Dial(cfg.AmqpURL)
	if err != nil {
		log.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	if err != nil {
		log.Fatalw("failed to open a channel", "error", err)
	}
	defer ch.Close()

	if err := queue.DeclareQueues(ch); err != nil {
		log.Fatalw("failed to declare queues", "error", err)
	}

	msgs, err := ch.Consume(queue.WorkQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalw("failed to register consumer", "error", err)
	}

	log.Info("worker running, waiting for tasks...")
	for d := range msgs {
		var task queue.Task
		if err := json.Unmarshal(d.Body, &task); err != nil {
			log.Warnw("invalid task body, dropping", "error", err)
			d.Ack(false)
			continue
		}

		if err := processTask(task, dispatcher, executor); err != nil {
			retries := retryCount(d.Headers)
			log.Warnw("task failed", "type", task.Type, "attempt", retries+1, "error", err)
			if retries < maxRetries {
				if requeueErr := requeue(ch, d, retries+1); requeueErr != nil {
					// Keep the task on the broker rather than losing it.
					log.Errorw("failed to requeue task", "error", requeueErr)
					d.Nack(false, true)
					continue
				}
			} else {
				log.Errorw("task permanently failed", "type", task.Type, "payload", string(task.Payload))
			}
		}
		d.Ack(false)
	}
}

func processTask(task queue.Task, dispatcher *service.Dispatcher, executor *service.Executor) error {
	switch task.Type {
	case queue.TaskCampaignDispatch:
		var p queue.DispatchPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return err
		}
		return dispatcher.Dispatch(p.CampaignID)
	case queue.TaskSequenceStep:
		var p queue.StepPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return err
		}
		return executor.ExecuteStep(p.EnrollmentID, p.StepID)
	}
	// Unknown task type: nothing will ever handle it, so don't retry.
	return nil
}

// requeue republishes with an incremented retry counter; a plain Nack
// would loop forever with no attempt count.
func requeue(ch *amqp.Channel, d amqp.Delivery, retries int) error {
	return ch.Publish("", queue.WorkQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         d.Body,
		Headers:      amqp.Table{"x-retry-count": int32(retries)},
	})
}

func retryCount(headers amqp.Table) int {
	switch v := headers["x-retry-count"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}
