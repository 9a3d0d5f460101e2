package handler

import (
	"digital-wallet/internal/adapter/http/middleware"
	redisStore "digital-wallet/internal/adapter/storage/redis"
	"digital-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ClientSvc      ports.ClientService
	WalletSvc      ports.WalletService
	PaymentSvc     ports.PaymentService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (verifies PostgreSQL and Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	clientHandler := NewClientHandler(deps.ClientSvc, deps.TokenSvc)
	clients := v1.Group("/clients")
	{
		clients.POST("/register", rl("clients_register"), clientHandler.Register)
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/otp", rl("auth_otp"), clientHandler.RequestLoginOtp)
		auth.POST("/login", rl("auth_login"), clientHandler.ConfirmLoginOtp)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	wallet := v1.Group("/wallet")
	{
		wallet.POST("/recharge", rl("wallet_recharge"), walletHandler.Recharge)
		wallet.GET("/balance", walletHandler.GetBalance)
		wallet.GET("/transactions", jwtAuth, walletHandler.ListTransactions)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := v1.Group("/payments")
	{
		payments.POST("", rl("payments"), paymentHandler.RequestPayment)
		payments.POST("/:id/confirm", rl("payments_confirm"), paymentHandler.ConfirmPayment)
		payments.GET("/:id", paymentHandler.GetSessionStatus)
	}

	return r
}
