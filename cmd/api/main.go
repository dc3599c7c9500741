package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/docs"
	"github.com/fremdrift-as/inquiry-api/internal/ai"
	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/config"
	"github.com/fremdrift-as/inquiry-api/internal/database"
	"github.com/fremdrift-as/inquiry-api/internal/http/handler"
	"github.com/fremdrift-as/inquiry-api/internal/http/middleware"
	"github.com/fremdrift-as/inquiry-api/internal/http/router"
	"github.com/fremdrift-as/inquiry-api/internal/jobs"
	"github.com/fremdrift-as/inquiry-api/internal/logger"
	"github.com/fremdrift-as/inquiry-api/internal/notify"
	"github.com/fremdrift-as/inquiry-api/internal/outlook"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/service"
	"github.com/fremdrift-as/inquiry-api/internal/storage"
)

// redriveCron re-delivers failed notification emails every five minutes
const redriveCron = "0 */5 * * * *"

// @title Fremdrift Inquiry API
// @version 1.0
// @description Backend for business inquiries, contact directory, calendar and account management
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@fremdrift.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "inquiry-api-staging.fremdrift.no"
	case "production":
		docs.SwaggerInfo.Host = "api.fremdrift.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize attachment storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	inquiryRepo := repository.NewInquiryRepository(db)
	contactRepo := repository.NewContactRepository(db)
	userRepo := repository.NewUserRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Session tokens
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())

	// Outlook sync (optional - calendar works locally without it)
	var outlookSync service.OutlookSync
	if cfg.Microsoft.Enabled {
		outlookSync = outlook.NewClient(&cfg.Microsoft, tokenRepo, log)
		log.Info("Outlook calendar sync enabled")
	} else {
		log.Info("Outlook calendar sync disabled")
	}

	// Email (optional - inquiry creation and account flows degrade gracefully)
	var mailer notify.Mailer
	var accountMailer service.AccountMailer
	var dispatcher *notify.Dispatcher
	if cfg.SMTP.Enabled {
		smtpMailer, err := notify.NewSMTPMailer(&cfg.SMTP, log)
		if err != nil {
			return fmt.Errorf("failed to initialize mailer: %w", err)
		}
		mailer = smtpMailer
		accountMailer = notify.NewAccountEmails(mailer, cfg.App.FrontendURL)

		dispatcher = notify.NewDispatcher(mailer, userRepo, log)
		dispatcher.Start()
		log.Info("Notification dispatcher started")
	} else {
		log.Info("SMTP disabled, email notifications off")
	}

	// AI recommendations (optional)
	var generator service.TextGenerator
	if cfg.OpenAI.Enabled {
		aiClient, err := ai.NewClient(&cfg.OpenAI, log)
		if err != nil {
			return fmt.Errorf("failed to initialize AI client: %w", err)
		}
		generator = aiClient
		log.Info("AI recommendations enabled", zap.String("model", cfg.OpenAI.Model))
	} else {
		log.Info("AI recommendations disabled")
	}

	// Initialize services
	var notifier service.InquiryNotifier
	if dispatcher != nil {
		notifier = dispatcher
	}
	inquiryService := service.NewInquiryService(inquiryRepo, userRepo, notifier, log)
	recommendationService := service.NewRecommendationService(inquiryRepo, contactRepo, generator, log)
	contactService := service.NewContactService(contactRepo, log)
	calendarService := service.NewCalendarService(calendarRepo, userRepo, outlookSync, log)
	userService := service.NewUserService(userRepo, tokens, accountMailer, log)
	attachmentService := service.NewAttachmentService(inquiryRepo, fileStorage, cfg.Storage.MaxUploadSizeMB, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, userRepo, cfg.Auth.SecureCookies, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	inquiryHandler := handler.NewInquiryHandler(inquiryService, attachmentService, log)
	recommendationHandler := handler.NewRecommendationHandler(recommendationService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	calendarHandler := handler.NewCalendarHandler(calendarService, log)
	userHandler := handler.NewUserHandler(userService, authMiddleware, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		inquiryHandler,
		recommendationHandler,
		contactHandler,
		calendarHandler,
		userHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if dispatcher != nil {
		scheduler = jobs.NewScheduler(log)
		redriveJob := jobs.NewRedriveJob(dispatcher, log, time.Minute)
		if err := scheduler.AddJob(jobs.RedriveJobName, redriveCron, redriveJob.Run); err != nil {
			log.Error("Failed to register redrive job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started", zap.String("cron_expr", redriveCron))
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Drain pending notification emails
		if dispatcher != nil {
			if err := dispatcher.Stop(ctx); err != nil {
				log.Warn("Notification dispatcher did not drain in time", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
