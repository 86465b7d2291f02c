package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vinay-014/email-spam-report/internal/api"
	"github.com/Vinay-014/email-spam-report/internal/checker"
	"github.com/Vinay-014/email-spam-report/internal/config"
	"github.com/Vinay-014/email-spam-report/internal/database"
	"github.com/Vinay-014/email-spam-report/internal/notifications"
	"github.com/Vinay-014/email-spam-report/internal/report"
	"github.com/Vinay-014/email-spam-report/internal/repository"
	"github.com/Vinay-014/email-spam-report/internal/scheduler"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config"
	}
	if err := config.Load(configPath); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Get()

	// Set Gin mode from config
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	testRepo := repository.NewTestRepository(db)
	inboxRepo := repository.NewInboxRepository(db)
	resultRepo := repository.NewResultRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Report pipeline: renderer + SMTP provider + async completion notifier
	provider := notifications.NewSMTPProvider(&cfg.Email)
	reportService := report.NewService(testRepo, profileRepo, resultRepo, provider,
		report.WithBaseURL(cfg.Report.BaseURL),
		report.WithTemplateDir(cfg.Report.TemplateDir),
	)
	notifier := report.NewNotifier(reportService)

	// Check cycle
	runner := checker.New(testRepo, inboxRepo, resultRepo,
		checker.WithWindow(cfg.Checker.Window),
		checker.WithDetectionRate(cfg.Checker.DetectionRate),
		checker.WithSenderAddress(cfg.Checker.SenderAddress),
		checker.WithNotifier(notifier),
	)

	// Scheduled runs in addition to the HTTP trigger
	sched := scheduler.NewService()
	err = sched.AddJob(scheduler.Job{
		Name:         "check-test-emails",
		Schedule:     cfg.Checker.Schedule,
		Timeout:      cfg.Checker.JobTimeout,
		RunOnStartup: cfg.Checker.RunOnStartup,
		Handler: func(ctx context.Context) error {
			_, err := runner.RunCycle(ctx)
			return err
		},
	})
	if err != nil {
		log.Fatalf("Failed to register check job: %v", err)
	}

	router := api.NewRouter(db, cfg, runner, reportService)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := sched.Run(ctx); err != nil {
			log.Printf("Scheduler stopped with error: %v", err)
		}
	}()

	go func() {
		log.Printf("Starting %s on %s", cfg.App.Name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
