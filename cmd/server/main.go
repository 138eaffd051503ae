package main

import (
	"fmt"
	"log"
	"time"

	"nefera/internal/config"
	"nefera/internal/email/noop"
	"nefera/internal/email/ses"
	"nefera/internal/evaluation"
	"nefera/internal/extract"
	"nefera/internal/handler"
	"nefera/internal/llm"
	"nefera/internal/port"
	"nefera/internal/repository/postgres"
	"nefera/internal/router"
	"nefera/internal/service"
	s3storage "nefera/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	evalRepo := postgres.NewEvaluationRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize notifier
	var notifier port.Notifier
	switch cfg.Email.Provider {
	case "ses":
		notifier, err = ses.NewSESNotifier(&cfg.Email)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	default:
		notifier = noop.NewNoopNotifier()
	}

	// Build the backend cascade in configured order
	backends := make([]port.ChatBackend, 0, len(cfg.LLM.Models))
	for _, model := range cfg.LLM.Models {
		backends = append(backends, llm.NewClient(&cfg.LLM, model))
	}

	extractor := extract.NewExtractor(backends)
	summarizer := extract.NewSummarizer(backends, time.Duration(cfg.LLM.SummaryTimeoutSecs)*time.Second)
	orchestrator := evaluation.NewOrchestrator(summarizer, notifier)

	// Initialize services
	evalSvc := service.NewEvaluationService(
		docRepo, evalRepo, auditRepo, s3Client,
		extractor, orchestrator, &cfg.S3, cfg.Rubric.Path,
	)

	// Initialize handlers
	evalH := handler.NewEvaluationHandler(evalSvc)
	reportH := handler.NewReportHandler(evalSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, evalH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
