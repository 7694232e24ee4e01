package handler

import (
	"psp-reconciler/internal/adapter/http/middleware"
	"psp-reconciler/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ReconcileSvc      ports.ReconciliationService
	TokenSvc          ports.TokenService
	RateLimitStore    middleware.RateLimitStore // nil = rate limiting disabled
	ExchangeRateLimit int                       // requests per minute per client IP
	HealthCheckers    []ports.HealthChecker
	Logger            zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules(deps.ExchangeRateLimit)
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok || rule.Limit <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- PSP callbacks (no auth, the PSP does not sign exchange calls) ---
	exchangeHandler := NewExchangeHandler(deps.ReconcileSvc, deps.Logger)
	v1.POST("/psp/exchange", rl("exchange"), exchangeHandler.Exchange)

	// --- JWT-authenticated admin routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	txHandler := NewTransactionHandler(deps.ReconcileSvc)

	transactions := v1.Group("/transactions", jwtAuth, rl("admin"))
	{
		transactions.POST("", txHandler.RecordAttempt)
		transactions.POST("/:id/reconcile", txHandler.Reconcile)
	}

	orders := v1.Group("/orders/:order_id", jwtAuth, rl("admin"))
	{
		orders.GET("/transaction", txHandler.GetByOrder)
		orders.POST("/reconcile", txHandler.ReconcileByOrder)
	}

	return r
}
