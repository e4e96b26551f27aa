package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	DiscordID int64                  `db:"discord_id" json:"discord_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth         = "auth"
	AuditCategoryVerification = "verification"
	AuditCategoryTrade        = "trade"
	AuditCategoryBalance      = "balance"
	AuditCategoryCatalog      = "catalog"
)

// Audit actions
const (
	// Auth actions
	AuditActionServiceLogin = "service_login"

	// Verification actions
	AuditActionVerifyStart   = "verify_start"
	AuditActionVerifyConfirm = "verify_confirm"
	AuditActionVerifyFail    = "verify_fail"
	AuditActionUnlink        = "unlink"

	// Trade actions
	AuditActionDeposit       = "deposit"
	AuditActionWithdraw      = "withdraw"
	AuditActionTradeRejected = "trade_rejected"
	AuditActionAuthRejected  = "auth_rejected"

	// Balance actions
	AuditActionBalanceCredit = "balance_credit"

	// Catalog actions
	AuditActionCatalogImport = "catalog_import"
)
