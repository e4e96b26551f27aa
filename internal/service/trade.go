package service

import (
	"context"
	"errors"
	"fmt"

	"trading_backend/internal/domain"
	"trading_backend/internal/logger"
	"trading_backend/internal/repository"
	"trading_backend/internal/security"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var tradesProcessed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trades_processed_total",
		Help: "Completed trade transactions by type",
	},
	[]string{"type"},
)

func init() {
	prometheus.MustRegister(tradesProcessed)
}

// TradeService orchestrates validated trades against the ledger. The audit
// record is committed in pending status before the ledger transaction
// begins; if the mutation then fails the record stays pending and surfaces
// in the reconciliation backlog. It is never repaired automatically.
type TradeService struct {
	db           *pgxpool.Pool
	accounts     *repository.AccountRepository
	inventory    *repository.InventoryRepository
	transactions *repository.TransactionRepository
	catalog      *repository.CatalogRepository
	audit        *AuditService
	limits       Limits
}

// NewTradeService creates a trade service with default limits.
func NewTradeService(db *pgxpool.Pool) *TradeService {
	return NewTradeServiceWithLimits(db, DefaultLimits())
}

// NewTradeServiceWithLimits creates a trade service with custom gem limits.
func NewTradeServiceWithLimits(db *pgxpool.Pool, limits Limits) *TradeService {
	return &TradeService{
		db:           db,
		accounts:     repository.NewAccountRepository(db),
		inventory:    repository.NewInventoryRepository(db),
		transactions: repository.NewTransactionRepository(db),
		catalog:      repository.NewCatalogRepository(db),
		audit:        NewAuditService(db),
		limits:       limits,
	}
}

// validatorFor builds a validator from the current catalog of a game. The
// supported set is exactly the set of cataloged names.
func (s *TradeService) validatorFor(ctx context.Context, game string) (*TradeValidator, error) {
	values, err := s.catalog.Values(ctx, game)
	if err != nil {
		return nil, err
	}
	supported := make([]string, 0, len(values))
	for name := range values {
		supported = append(supported, name)
	}
	return NewTradeValidatorWithLimits(supported, values, s.limits), nil
}

// DepositCheck is the result of a pre-trade deposit validation.
type DepositCheck struct {
	DiscordID    int64
	DepositValue int64
}

// CheckDeposit validates a deposit without applying it.
func (s *TradeService) CheckDeposit(ctx context.Context, game string, discordID int64, t domain.Trade) (*DepositCheck, error) {
	v, err := s.validatorFor(ctx, game)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateDeposit(t); err != nil {
		return nil, err
	}
	return &DepositCheck{
		DiscordID:    discordID,
		DepositValue: v.DepositValue(t.Items),
	}, nil
}

// ProcessDeposit applies a validated deposit: pending record, inventory and
// balance increments in one ledger transaction, record flipped to completed.
// Returns the transaction's public identifier.
func (s *TradeService) ProcessDeposit(ctx context.Context, game string, discordID, robloxUserID int64, t domain.Trade) (string, error) {
	v, err := s.validatorFor(ctx, game)
	if err != nil {
		return "", err
	}
	if err := v.ValidateDeposit(t); err != nil {
		return "", err
	}
	depositValue := v.DepositValue(t.Items)

	rec := &domain.Transaction{
		PublicID:     uuid.NewString(),
		Type:         domain.TradeTypeDeposit,
		DiscordID:    discordID,
		RobloxUserID: robloxUserID,
		Items:        transactionItems(t.Items),
		Gems:         t.Gems,
		TotalValue:   depositValue,
		SecurityCode: t.Code,
	}
	if err := s.transactions.Create(ctx, rec); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("deposit %s left pending: %w", rec.PublicID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, item := range t.Items {
		if err := s.inventory.AddWithTx(ctx, tx, discordID, item); err != nil {
			return "", fmt.Errorf("deposit %s left pending: %w", rec.PublicID, err)
		}
	}
	if t.Gems > 0 {
		if _, err := s.accounts.UpdateGemsWithTx(ctx, tx, discordID, t.Gems); err != nil {
			return "", fmt.Errorf("deposit %s left pending: %w", rec.PublicID, err)
		}
	}
	if err := s.transactions.MarkCompletedWithTx(ctx, tx, rec.ID); err != nil {
		return "", fmt.Errorf("deposit %s left pending: %w", rec.PublicID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("deposit %s left pending: %w", rec.PublicID, err)
	}

	tradesProcessed.WithLabelValues(string(domain.TradeTypeDeposit)).Inc()
	s.audit.LogDeposit(ctx, discordID, rec.PublicID, t.Gems, depositValue, len(t.Items))
	logger.Info("deposit completed",
		"discord_id", discordID, "transaction_id", rec.PublicID,
		"items", len(t.Items), "gems", t.Gems, "value", depositValue)
	return rec.PublicID, nil
}

// ProcessWithdraw applies a validated withdrawal. The inventory decrement is
// conditional at the store layer, so a concurrent withdrawal that drained the
// balance after validation fails here instead of driving quantities negative.
func (s *TradeService) ProcessWithdraw(ctx context.Context, game string, discordID, robloxUserID int64, t domain.Trade) (string, error) {
	v, err := s.validatorFor(ctx, game)
	if err != nil {
		return "", err
	}
	snapshot, err := s.inventory.Quantities(ctx, discordID)
	if err != nil {
		return "", err
	}
	if err := v.ValidateWithdraw(t, snapshot); err != nil {
		return "", err
	}

	rec := &domain.Transaction{
		PublicID:     uuid.NewString(),
		Type:         domain.TradeTypeWithdraw,
		DiscordID:    discordID,
		RobloxUserID: robloxUserID,
		Items:        transactionItems(t.Items),
		SecurityCode: t.Code,
	}
	if err := s.transactions.Create(ctx, rec); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("withdraw %s left pending: %w", rec.PublicID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, item := range t.Items {
		if _, err := s.inventory.RemoveWithTx(ctx, tx, discordID, item.Key(), item.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientQuantity) {
				// lost the race against a concurrent withdrawal
				logger.Warn("withdrawal raced, record left pending",
					"discord_id", discordID, "transaction_id", rec.PublicID, "item", item.DisplayName())
				return "", &ValidationError{
					Reason:    ReasonInsufficientQuantity,
					Message:   fmt.Sprintf("not enough %q", item.DisplayName()),
					Item:      item.DisplayName(),
					Requested: item.Quantity,
				}
			}
			return "", fmt.Errorf("withdraw %s left pending: %w", rec.PublicID, err)
		}
	}
	if err := s.transactions.MarkCompletedWithTx(ctx, tx, rec.ID); err != nil {
		return "", fmt.Errorf("withdraw %s left pending: %w", rec.PublicID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("withdraw %s left pending: %w", rec.PublicID, err)
	}

	tradesProcessed.WithLabelValues(string(domain.TradeTypeWithdraw)).Inc()
	s.audit.LogWithdraw(ctx, discordID, rec.PublicID, len(t.Items))
	logger.Info("withdrawal completed",
		"discord_id", discordID, "transaction_id", rec.PublicID, "items", len(t.Items))
	return rec.PublicID, nil
}

// WithdrawMethod describes what the trade agent should do for a user who
// joined the trade booth: withdraw their holdings, or deposit.
type WithdrawMethod struct {
	Method string   `json:"method"`
	Pets   []string `json:"pets"`
	Gems   int64    `json:"gems"`
	Code   string   `json:"code"`
}

// DetermineMethod reports withdraw when the account holds anything, deposit
// otherwise. The pet list carries one entry per physical unit because the
// agent hands units over one at a time.
func (s *TradeService) DetermineMethod(ctx context.Context, discordID int64) (*WithdrawMethod, error) {
	entries, err := s.inventory.List(ctx, discordID)
	if err != nil {
		return nil, err
	}
	gems, err := s.accounts.GetGems(ctx, discordID)
	if err != nil {
		return nil, err
	}

	method := &WithdrawMethod{
		Method: "Deposit",
		Pets:   []string{},
		Code:   security.GenerateSecurityCode(),
	}
	if len(entries) > 0 || gems > 0 {
		method.Method = "Withdraw"
		method.Gems = gems
		for _, e := range entries {
			for i := int64(0); i < e.Quantity; i++ {
				method.Pets = append(method.Pets, e.DisplayName)
			}
		}
	}
	return method, nil
}

func transactionItems(items []domain.TradeItem) []domain.TransactionItem {
	out := make([]domain.TransactionItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.TransactionItem{
			Name:     item.DisplayName(),
			Rarity:   item.Rarity,
			Shiny:    item.Shiny,
			Quantity: item.Quantity,
		})
	}
	return out
}
