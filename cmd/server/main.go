package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/outreach-engine/internal/config"
	"github.com/unclebandit/outreach-engine/internal/controller"
	"github.com/unclebandit/outreach-engine/internal/db"
	"github.com/unclebandit/outreach-engine/internal/handler"
	"github.com/unclebandit/outreach-engine/internal/logger"
	"github.com/unclebandit/outreach-engine/internal/mail"
	"github.com/unclebandit/outreach-engine/internal/queue"
	"github.com/unclebandit/outreach-engine/internal/repository"
	"github.com/unclebandit/outreach-engine/internal/service"
	"github.com/unclebandit/outreach-engine/internal/tracking"
)

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

	// With AMQP configured, tasks go to the broker and cmd/worker runs
	// them. Without it, an in-memory queue runs everything in-process.
	var q queue.Queue
	if cfg.AmqpURL != "" {
		amqpQueue, err := queue.NewAmqpQueue(cfg.AmqpURL)
		if err != nil {
			log.Fatalw("queue connection failed", "error", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
	} else {
		log.Info("AMQP_URL not set, using in-memory queue")
		memQueue := queue.NewInMemoryQueue(log)
		q = memQueue

		dispatcher := &service.Dispatcher{
			Cfg:        cfg,
			Campaigns:  campaignRepo,
			Recipients: recipientRepo,
			CsvLog:     csvLogRepo,
			Injector:   tracking.NewInjector(cfg.BaseURL),
			Mailer:     mailer,
			Queue:      memQueue,
			Audit:      auditRepo,
			Log:        log,
		}
		executor := service.NewExecutor(cfg, sequenceRepo, crmRepo, taskRepo, mailer, memQueue, auditRepo, log)

		memQueue.Subscribe(queue.TaskCampaignDispatch, func(payload []byte) error {
			var p queue.DispatchPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return err
			}
			return dispatcher.Dispatch(p.CampaignID)
		})
		memQueue.Subscribe(queue.TaskSequenceStep, func(payload []byte) error {
			var p queue.StepPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return err
			}
			return executor.ExecuteStep(p.EnrollmentID, p.StepID)
		})
	}

	beacon := &service.Beacon{Cfg: cfg, Recipients: recipientRepo, Audit: auditRepo, Log: log}
	trackingHandler := &handler.TrackingHandler{Beacon: beacon}
	campaignController := &controller.CampaignController{Campaigns: campaignRepo, Queue: q}
	sequenceController := &controller.SequenceController{Sequences: sequenceRepo, Queue: q}

	r := chi.NewRouter()

	// Beacon routes stay unauthenticated; mail clients fetch them directly
	r.Get("/track/open/{recipientID}", trackingHandler.Open)
	r.Get("/track/click/{recipientID}", trackingHandler.Click)
	r.Get("/unsubscribe/{recipientID}", trackingHandler.Unsubscribe)

	// Campaign routes
	r.Post("/campaigns/{id}/dispatch", campaignController.Dispatch)
	r.Post("/campaigns/{id}/pause", campaignController.Pause)
	r.Post("/campaigns/{id}/resume", campaignController.Resume)
	r.Get("/campaigns/{id}", campaignController.Get)

	// Sequence routes
	r.Post("/sequences/{id}/enroll", sequenceController.Enroll)
	r.Post("/enrollments/{id}/pause", sequenceController.PauseEnrollment)
	r.Post("/enrollments/{id}/resume", sequenceController.ResumeEnrollment)
	r.Post("/enrollments/{id}/cancel", sequenceController.CancelEnrollment)

	log.Infow("🚀 server listening", "addr", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
