package main

import (
	"fmt"
	"log"

	"faktura/internal/config"
	"faktura/internal/email/noop"
	"faktura/internal/email/ses"
	"faktura/internal/handler"
	"faktura/internal/port"
	"faktura/internal/render/excel"
	"faktura/internal/repository/postgres"
	"faktura/internal/router"
	"faktura/internal/service"
	s3storage "faktura/internal/storage/s3"
	"faktura/internal/validation"
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
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	historyRepo := postgres.NewStatusHistoryRepo(db)

	// Initialize document pipeline
	archive, err := s3storage.NewArchive(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize document archive: %w", err)
	}
	renderer := excel.NewRenderer()

	// Initialize email delivery
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	clock := port.RealClock{}
	validator := validation.NewInvoiceValidator(invoiceRepo, clock)
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	registrationSvc := service.NewRegistrationService(tenantRepo, userRepo, authSvc)
	invoiceSvc := service.NewInvoiceService(
		invoiceRepo, historyRepo, validator, renderer, archive, clock,
		cfg.Documents.RenderTimeout, cfg.Documents.PresignExpiry,
	)
	importSvc := service.NewImportService(invoiceSvc, validator)
	tenantSvc := service.NewTenantService(tenantRepo)
	userSvc := service.NewUserService(userRepo, tenantRepo, emailSender)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc, registrationSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, importSvc, tenantSvc)
	tenantH := handler.NewTenantHandler(tenantSvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, invoiceH, tenantH, userH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
