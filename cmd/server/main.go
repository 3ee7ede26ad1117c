// Command server runs the invoice generation HTTP API.
//
// @title Invogen API
// @version 1.0
// @description Generates GST invoices from free-form order text using LLM extraction.
// @BasePath /api/v1
package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"invogen/internal/config"
	"invogen/internal/email/noop"
	"invogen/internal/email/ses"
	"invogen/internal/extractor"
	"invogen/internal/extractor/gemini"
	"invogen/internal/extractor/openai"
	"invogen/internal/handler"
	"invogen/internal/invoice"
	"invogen/internal/port"
	"invogen/internal/render"
	"invogen/internal/router"
	"invogen/internal/service"
	"invogen/internal/session"
	s3storage "invogen/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Session store with background expiry sweeping
	store := session.NewStore(cfg.Session.TTL)
	stop := make(chan struct{})
	defer close(stop)
	store.StartSweeper(cfg.Session.SweepInterval, stop)

	// Extraction providers
	extractor.RegisterProvider("gemini", func(c *config.ExtractorProviderConfig) (port.Extractor, error) {
		return gemini.NewExtractor(c), nil
	})
	extractor.RegisterProvider("openai", func(c *config.ExtractorProviderConfig) (port.Extractor, error) {
		return openai.NewExtractor(c), nil
	})

	ext, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	renderer, err := render.NewRenderer(cfg.Template.Path)
	if err != nil {
		return fmt.Errorf("failed to load invoice template: %w", err)
	}

	// Logo storage is optional; without a bucket the upload endpoint reports 503.
	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	// Initialize services
	sessionSvc := service.NewSessionService(store, storage, &cfg.S3, &cfg.Invoice)
	invoiceSvc := service.NewInvoiceService(store, ext, invoice.NewComputer(), renderer, sender)

	// Initialize handlers
	sessionH := handler.NewSessionHandler(sessionSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	healthH := handler.NewHealthHandler(store)

	// Setup router
	r := router.Setup(cfg.CORS, sessionH, invoiceH, healthH)

	log.Printf("Server starting on %s (extractor: %s)", cfg.Server.Port, cfg.Extractor.Primary.Provider)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildExtractor constructs the primary extractor, wrapped in a fallback
// chain when a secondary provider is configured.
func buildExtractor(cfg *config.ExtractorConfig) (port.Extractor, error) {
	primary, err := extractor.NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}

	secondary, err := extractor.NewExtractor(secondaryCfg)
	if err != nil {
		return nil, err
	}

	return extractor.NewFallbackExtractor(
		[]port.Extractor{primary, secondary},
		[]string{cfg.Primary.Provider, secondaryCfg.Provider},
	), nil
}
