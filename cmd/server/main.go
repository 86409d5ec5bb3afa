package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/github-resume/internal/api"
	"github.com/Kamar-Folarin/github-resume/internal/cache"
	"github.com/Kamar-Folarin/github-resume/internal/config"
	"github.com/Kamar-Folarin/github-resume/internal/db"
	apperrors "github.com/Kamar-Folarin/github-resume/internal/errors"
	"github.com/Kamar-Folarin/github-resume/internal/generator"
	"github.com/Kamar-Folarin/github-resume/internal/github"
	"github.com/Kamar-Folarin/github-resume/internal/resume"

	_ "github.com/Kamar-Folarin/github-resume/docs"
)

// @title GitHub Resume API
// @version 1.0
// @description API for generating developer resumes from GitHub accounts
// @contact.name API Support
// @contact.url http://github.com/Kamar-Folarin
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	// Load configuration with defaults
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate minimum required config
	if cfg.GitHubToken == "" {
		logger.Fatal("Missing required configuration (GITHUB_TOKEN must be set)")
	}

	// Optional resume archive
	var store db.Store
	if cfg.DBConnectionString != "" {
		pgStore, err := db.NewPostgresStore(cfg.DBConnectionString)
		if err != nil {
			logger.Fatalf("Failed to initialize database: %v", err)
		}

		// Run migrations with retry logic
		if err := retry(3, 5*time.Second, func() error {
			return pgStore.Migrate()
		}); err != nil {
			logger.Fatalf("Failed to run migrations after retries: %v", err)
		}

		store = pgStore
	} else {
		logger.Info("DB_CONNECTION_STRING not set, resume archive disabled")
	}

	// Initialize GitHub client with the default retry policy
	ghCfg := config.DefaultGitHubConfig()
	ghClient := github.NewClient(
		cfg.GitHubToken,
		logger,
		github.WithPageSize(cfg.MaxRepos),
		github.WithRetryConfig(ghCfg.RateLimit.MaxRetries, ghCfg.RateLimit.InitialBackoff, ghCfg.RateLimit.MaxBackoff),
	)

	// Detail cache with background sweep of expired entries
	detailCache := cache.New(cfg.CacheTTL, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go detailCache.StartSweeper(ctx, cfg.CacheSweepInterval)

	// Optional AI description generator; absence degrades to templated
	// descriptions rather than failing startup
	var descGenerator resume.DescriptionGenerator
	gen, err := generator.NewClient(cfg.CodestralAPIKey, cfg.CodestralBaseURL, cfg.CodestralModel, logger)
	if err != nil {
		if apperrors.IsConfiguration(err) {
			logger.Info("CODESTRAL_API_KEY not set, AI descriptions disabled")
		} else {
			logger.Fatalf("Failed to initialize description generator: %v", err)
		}
	} else {
		descGenerator = gen
	}

	// Initialize services
	resumeService := resume.NewService(ghClient, detailCache, descGenerator, logger, cfg.MaxRepos)
	apiHandler := api.NewHandler(resumeService, store, logger)
	router := api.SetupRouter(apiHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited properly")
}

// retry retries a function up to a certain number of attempts with a delay between attempts
func retry(attempts int, sleep time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		if attempts--; attempts > 0 {
			time.Sleep(sleep)
			return retry(attempts, sleep, fn)
		}
		return err
	}
	return nil
}
