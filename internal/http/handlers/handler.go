package handlers

import (
	"trading_backend/internal/repository"
	"trading_backend/internal/service"
	"trading_backend/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig holds the configuration the handlers need.
type HandlerConfig struct {
	APISecret    string
	ServiceToken string
	DefaultGame  string
	Limits       service.Limits
}

type Handler struct {
	DB  *pgxpool.Pool
	Cfg HandlerConfig

	Accounts     *repository.AccountRepository
	Inventory    *repository.InventoryRepository
	Transactions *repository.TransactionRepository
	Catalog      *repository.CatalogRepository

	Verification *service.VerificationService
	Trades       *service.TradeService
	Audit        *service.AuditService
}

// NewHandler wires the handler over its repositories and services. The
// resolver and session store are injected so main can pick the backing
// implementations.
func NewHandler(db *pgxpool.Pool, cfg HandlerConfig, resolver service.IdentityResolver, sessions session.Store) *Handler {
	accounts := repository.NewAccountRepository(db)
	return &Handler{
		DB:           db,
		Cfg:          cfg,
		Accounts:     accounts,
		Inventory:    repository.NewInventoryRepository(db),
		Transactions: repository.NewTransactionRepository(db),
		Catalog:      repository.NewCatalogRepository(db),
		Verification: service.NewVerificationService(resolver, accounts, sessions),
		Trades:       service.NewTradeServiceWithLimits(db, cfg.Limits),
		Audit:        service.NewAuditService(db),
	}
}

// game returns the game the request targets, falling back to the default.
func (h *Handler) game(query string) string {
	if query != "" {
		return query
	}
	return h.Cfg.DefaultGame
}
