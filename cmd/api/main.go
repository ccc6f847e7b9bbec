package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/school-directory/internal/config"
	"github.com/school-directory/internal/infrastructure/cloudinary"
	jwtinfra "github.com/school-directory/internal/infrastructure/jwt"
	s3infra "github.com/school-directory/internal/infrastructure/s3"
	"github.com/school-directory/internal/infrastructure/sendgrid"
	"github.com/school-directory/internal/infrastructure/smtp"
	"github.com/school-directory/internal/infrastructure/sqlstore"
	"github.com/school-directory/internal/logger"
	transporthttp "github.com/school-directory/internal/transport/http"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.Open(cfg)
	if err != nil {
		logger.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	tokens, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		logger.Fatal("jwt provider", zap.Error(err))
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		logger.Fatal("image store", zap.String("store", cfg.ImageStore), zap.Error(err))
	}

	deps := &transporthttp.Deps{
		UserRepo:    sqlstore.NewUserRepo(db),
		OTPRepo:     sqlstore.NewOTPRepo(db),
		SessionRepo: sqlstore.NewSessionRepo(db),
		SchoolRepo:  sqlstore.NewSchoolRepo(db),
		Mailer:      newMailer(cfg),
		ImageStore:  images,
		Tokens:      tokens,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := sqlstore.Close(db); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newMailer returns nil when the selected relay has no credentials, which
// makes send-otp fail with a server error instead of silently dropping mail.
func newMailer(cfg *config.Config) transporthttp.Mailer {
	if !cfg.MailConfigured() {
		logger.Warn("mail relay not configured; OTP delivery disabled", zap.String("driver", cfg.MailDriver))
		return nil
	}
	if cfg.MailDriver == "sendgrid" {
		return sendgrid.NewMailer(cfg)
	}
	return smtp.NewMailer(cfg)
}

func newImageStore(ctx context.Context, cfg *config.Config) (transporthttp.ObjectStore, error) {
	if cfg.ImageStore == "cloudinary" {
		return cloudinary.NewStore(cfg), nil
	}
	client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s3infra.NewStore(client, cfg.S3BucketName, cfg.S3PublicBaseURL), nil
}

