package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/config"
	"github.com/smartrecipe/auth-service/internal/domain"
	httpserver "github.com/smartrecipe/auth-service/internal/http"
	"github.com/smartrecipe/auth-service/internal/notification"
	"github.com/smartrecipe/auth-service/internal/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Repositories
	usersRepo := repository.NewUsersRepository(db)
	codesRepo := repository.NewVerificationCodesRepository(db)
	resetTokensRepo := repository.NewResetTokensRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	attemptsRepo := repository.NewLoginAttemptsRepository(db)
	locksRepo := repository.NewAccountLocksRepository(db)
	thirdPartyRepo := repository.NewThirdPartyRepository(db)

	// Notification channels
	emailService := notification.NewEmailService(notification.EmailConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		User:       cfg.SMTP.User,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		FromName:   cfg.SMTP.FromName,
		AppBaseURL: cfg.AppBaseURL,
	})
	smsService := notification.NewSMSService(notification.SMSConfig{
		Enabled:   cfg.SMS.Enabled,
		AccessKey: cfg.SMS.AccessKey,
		SecretKey: cfg.SMS.SecretKey,
		SignName:  cfg.SMS.SignName,
	}, logger)
	dispatcher := notification.NewDispatcher(emailService, smsService)

	// Core services
	credentials := auth.NewCredentialManager(cfg.BcryptCost)
	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret:          []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		BindTokenTTL:    cfg.BindTokenTTL,
	})
	codes := auth.NewVerificationCodeService(codesRepo, dispatcher, auth.VerificationCodeConfig{
		CodeLength:  cfg.CodeLength,
		TTL:         cfg.CodeTTL,
		MaxAttempts: cfg.CodeMaxAttempts,
		IssueWindow: cfg.CodeIssueWindow,
	}, logger)
	sessions := auth.NewSessionManager(sessionsRepo)
	lockout := auth.NewLockoutPolicy(attemptsRepo, locksRepo, auth.LockoutConfig{
		Threshold: cfg.LockoutThreshold,
		Window:    cfg.LockoutWindow,
		Duration:  cfg.LockoutDuration,
	}, logger)

	// Provider exchange is deployment-specific; the default client rejects
	// every exchange until a real one is configured.
	provider := auth.ProviderClientFunc(func(ctx context.Context, provider, code, state string) (*domain.ProviderProfile, error) {
		return nil, fmt.Errorf("provider %q not configured", provider)
	})

	service := auth.NewService(
		usersRepo,
		resetTokensRepo,
		thirdPartyRepo,
		credentials,
		codes,
		tokens,
		sessions,
		lockout,
		provider,
		dispatcher,
		auth.ServiceConfig{
			DefaultRegion: domain.Region(cfg.DefaultRegion),
			ResetTokenTTL: cfg.ResetTokenTTL,
		},
		logger,
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		Service:         service,
		Tokens:          tokens,
		RateLimit:       cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
	})

	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
