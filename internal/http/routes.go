package http

import (
	"trading_backend/internal/config"
	"trading_backend/internal/http/handlers"
	"trading_backend/internal/http/middleware"
	"trading_backend/internal/service"
	"trading_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, resolver service.IdentityResolver, sessions session.Store, version string) {
	h := handlers.NewHandler(db, handlers.HandlerConfig{
		APISecret:    cfg.APISecret,
		ServiceToken: cfg.ServiceToken,
		DefaultGame:  cfg.DefaultGame,
		Limits:       cfg.Limits,
	}, resolver, sessions)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Token exchange for the bot front-end, rate limited harder than the rest
	v1.POST("/auth", middleware.RedisRateLimit(5, cfg.APIRateWindow), h.Auth)

	// Bot endpoints (JWT)
	bot := v1.Group("")
	bot.Use(middleware.JWT())
	{
		bot.POST("/verify/start", h.VerifyStart)
		bot.POST("/verify/confirm", h.VerifyConfirm)
		bot.DELETE("/verify", h.Unlink)

		bot.GET("/users/:discord_id", h.GetUser)
		bot.GET("/users/:discord_id/inventory", h.GetInventory)
		bot.GET("/users/:discord_id/transactions", h.GetTransactions)
		bot.GET("/transactions/:public_id", h.GetTransaction)

		bot.GET("/admin/reconciliation", h.StalePending)
	}

	// Agent endpoints authenticate per request with a payload signature, so
	// no middleware here; the handlers verify before touching anything.
	v1.POST("/deposit/check", h.DepositCheck)
	v1.POST("/deposit/complete", h.DepositComplete)
	v1.POST("/withdraw/method", h.WithdrawMethod)
	v1.POST("/withdraw/complete", h.WithdrawComplete)
	v1.GET("/items/all", h.ListItems)
}
