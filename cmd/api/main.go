package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digital-wallet/config"
	"digital-wallet/internal/adapter/email"
	httpHandler "digital-wallet/internal/adapter/http/handler"
	pgStorage "digital-wallet/internal/adapter/storage/postgres"
	redisStorage "digital-wallet/internal/adapter/storage/redis"
	"digital-wallet/internal/core/ports"
	"digital-wallet/internal/service"
	"digital-wallet/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Digital Wallet")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	clientRepo := pgStorage.NewClientRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	sessionRepo := pgStorage.NewSessionRepo(pool)
	loginOtpRepo := pgStorage.NewLoginOtpRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize email delivery
	sender, err := email.NewSender(cfg.Email, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize email sender")
	}
	mailer := service.NewTemplateMailer(sender)

	// Initialize core services
	otpGen := service.NewOtpGenerator()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	minRecharge, err := decimal.NewFromString(cfg.Wallet.MinRecharge)
	if err != nil {
		log.Fatal().Err(err).Str("min_recharge", cfg.Wallet.MinRecharge).Msg("Invalid minimum recharge amount")
	}

	// Initialize business services
	clientSvc := service.NewClientService(clientRepo, walletRepo, loginOtpRepo, otpGen, mailer, transactor, cfg.Otp.TTL, log)
	walletSvc := service.NewWalletService(clientRepo, walletRepo, txRepo, transactor, minRecharge, log)
	paymentSvc := service.NewPaymentService(clientRepo, sessionRepo, walletSvc, otpGen, mailer, transactor, cfg.Otp.TTL, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ClientSvc:      clientSvc,
		WalletSvc:      walletSvc,
		PaymentSvc:     paymentSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
