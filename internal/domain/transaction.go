package domain

import "time"

// TransactionStatus tracks the lifecycle of a trade transaction record.
// Records are append-only: the only allowed change is pending -> completed.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
)

// TransactionItem is an item line inside a transaction record, stored with
// the canonical display name so the audit trail is self-describing.
type TransactionItem struct {
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	Shiny    bool   `json:"shiny"`
	Quantity int64  `json:"quantity"`
}

// Transaction is the immutable audit record of a deposit or withdrawal.
type Transaction struct {
	ID           int64             `db:"id" json:"id"`
	PublicID     string            `db:"public_id" json:"public_id"`
	Type         TradeType         `db:"type" json:"type"`
	DiscordID    int64             `db:"discord_id" json:"discord_id"`
	RobloxUserID int64             `db:"roblox_user_id" json:"roblox_user_id"`
	Items        []TransactionItem `db:"items" json:"items"`
	Gems         int64             `db:"gems" json:"gems"`
	TotalValue   int64             `db:"total_value" json:"total_value"`
	Status       TransactionStatus `db:"status" json:"status"`
	SecurityCode string            `db:"security_code" json:"security_code,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	CompletedAt  *time.Time        `db:"completed_at" json:"completed_at,omitempty"`
}
