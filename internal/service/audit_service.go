package service

import (
	"context"

	"trading_backend/internal/domain"
	"trading_backend/internal/logger"
	"trading_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditService handles audit logging
type AuditService struct {
	repo *repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{
		repo: repository.NewAuditRepository(db),
	}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, discordID int64, action, category string, details map[string]interface{}) {
	log := &domain.AuditLog{
		DiscordID: discordID,
		Action:    action,
		Category:  category,
		Details:   details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "discord_id", discordID)
	}
}

// LogVerifyStart logs the beginning of an account-linking challenge
func (s *AuditService) LogVerifyStart(ctx context.Context, discordID, robloxUserID int64) {
	s.Log(ctx, discordID, domain.AuditActionVerifyStart, domain.AuditCategoryVerification, map[string]interface{}{
		"roblox_user_id": robloxUserID,
	})
}

// LogVerifyConfirm logs a successful account link
func (s *AuditService) LogVerifyConfirm(ctx context.Context, discordID, robloxUserID int64) {
	s.Log(ctx, discordID, domain.AuditActionVerifyConfirm, domain.AuditCategoryVerification, map[string]interface{}{
		"roblox_user_id": robloxUserID,
	})
}

// LogVerifyFail logs a failed confirm attempt
func (s *AuditService) LogVerifyFail(ctx context.Context, discordID int64, reason string) {
	s.Log(ctx, discordID, domain.AuditActionVerifyFail, domain.AuditCategoryVerification, map[string]interface{}{
		"reason": reason,
	})
}

// LogUnlink logs removal of an account link
func (s *AuditService) LogUnlink(ctx context.Context, discordID int64) {
	s.Log(ctx, discordID, domain.AuditActionUnlink, domain.AuditCategoryVerification, nil)
}

// LogDeposit logs a completed deposit
func (s *AuditService) LogDeposit(ctx context.Context, discordID int64, transactionID string, gems, totalValue int64, itemCount int) {
	s.Log(ctx, discordID, domain.AuditActionDeposit, domain.AuditCategoryTrade, map[string]interface{}{
		"transaction_id": transactionID,
		"gems":           gems,
		"total_value":    totalValue,
		"item_count":     itemCount,
	})
}

// LogWithdraw logs a completed withdrawal
func (s *AuditService) LogWithdraw(ctx context.Context, discordID int64, transactionID string, itemCount int) {
	s.Log(ctx, discordID, domain.AuditActionWithdraw, domain.AuditCategoryTrade, map[string]interface{}{
		"transaction_id": transactionID,
		"item_count":     itemCount,
	})
}

// LogTradeRejected logs a validation rejection
func (s *AuditService) LogTradeRejected(ctx context.Context, discordID int64, tradeType, reason string) {
	s.Log(ctx, discordID, domain.AuditActionTradeRejected, domain.AuditCategoryTrade, map[string]interface{}{
		"trade_type": tradeType,
		"reason":     reason,
	})
}

// LogAuthRejected logs a signature or freshness rejection
func (s *AuditService) LogAuthRejected(ctx context.Context, robloxUserID int64, reason string) {
	s.Log(ctx, 0, domain.AuditActionAuthRejected, domain.AuditCategoryAuth, map[string]interface{}{
		"roblox_user_id": robloxUserID,
		"reason":         reason,
	})
}

// GetUserAuditLogs returns audit logs for an account
func (s *AuditService) GetUserAuditLogs(ctx context.Context, discordID int64, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByDiscordID(ctx, discordID, limit)
}

// GetRecentLogs returns recent audit logs
func (s *AuditService) GetRecentLogs(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetRecent(ctx, limit)
}
