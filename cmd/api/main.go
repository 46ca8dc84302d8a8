package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/accommodation-form-api/internal/config"
	"github.com/accommodation-form-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/accommodation-form-api/internal/infrastructure/jwt"
	"github.com/accommodation-form-api/internal/infrastructure/localfs"
	"github.com/accommodation-form-api/internal/infrastructure/memstore"
	"github.com/accommodation-form-api/internal/infrastructure/pdf"
	s3infra "github.com/accommodation-form-api/internal/infrastructure/s3"
	"github.com/accommodation-form-api/internal/infrastructure/smtp"
	"github.com/accommodation-form-api/internal/infrastructure/sns"
	transporthttp "github.com/accommodation-form-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — the admin surface is disabled without keys).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available, admin surface disabled: %v", err)
	}

	// S3 store for generated PDFs.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// Local filesystem fallback, development only.
	var localStore *localfs.Store
	if cfg.IsDevelopment() {
		ls, err := localfs.NewStore(cfg.LocalStorageDir)
		if err != nil {
			log.Fatalf("local storage dir: %v", err)
		}
		localStore = ls
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS submission-event notifier (optional — graceful fallback).
	var notifier sns.Notifier
	if n, err := sns.NewNotifier(cfg); err == nil {
		notifier = n
	} else {
		log.Printf("WARN: SNS notifier not available: %v", err)
	}

	// In-memory verification state with background expiry sweeps.
	challenges := memstore.NewChallengeStore(time.Duration(cfg.CaptchaExpiryMinutes) * time.Minute)
	verifications := memstore.NewVerificationStore(
		time.Duration(cfg.OTPExpiryMinutes)*time.Minute, cfg.MaxVerifyAttempts, cfg.MaxPendingPerEmail)
	sessions := memstore.NewSessionStore(time.Duration(cfg.SessionTTLHours) * time.Hour)
	defer challenges.Close()
	defer verifications.Close()
	defer sessions.Close()

	deps := &transporthttp.Deps{
		Challenges:     challenges,
		Verifications:  verifications,
		Sessions:       sessions,
		SubmissionRepo: dynamo.NewSubmissionRepo(dynamoClient, cfg.DynamoTables.Submissions),
		LibraryRepo:    dynamo.NewLibraryRepo(dynamoClient, cfg.DynamoTables.Libraries),
		S3Store:        s3Store,
		LocalStore:     localStore,
		Renderer:       pdf.NewRenderer(),
		Mailer:         mailer,
		Notifier:       notifier,
		JWTProvider:    jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
