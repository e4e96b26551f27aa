package repository

import (
	"context"
	"errors"

	"trading_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrInsufficientQuantity is returned when a conditional decrement finds
	// fewer units than requested.
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	// ErrNonPositiveQuantity is returned when a mutation asks for fewer than
	// one unit. Validation rejects these upstream; the repository refuses them
	// too because a negative delta would invert the increment or decrement.
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
)

// InventoryRepository stores per-account item holdings keyed by canonical
// item name. Quantities never persist at or below zero.
type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// List returns all inventory entries for an account.
func (r *InventoryRepository) List(ctx context.Context, discordID int64) ([]domain.InventoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, discord_id, item_key, display_name, rarity, shiny, quantity, first_deposited_at, updated_at
		FROM inventory
		WHERE discord_id = $1
		ORDER BY display_name
	`, discordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.InventoryEntry
	for rows.Next() {
		var e domain.InventoryEntry
		if err := rows.Scan(&e.ID, &e.DiscordID, &e.ItemKey, &e.DisplayName, &e.Rarity, &e.Shiny,
			&e.Quantity, &e.FirstDepositedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Quantities returns the account's holdings as a map of item key to quantity,
// the snapshot shape withdraw validation runs against.
func (r *InventoryRepository) Quantities(ctx context.Context, discordID int64) (map[string]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT item_key, quantity FROM inventory WHERE discord_id = $1`, discordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var key string
		var qty int64
		if err := rows.Scan(&key, &qty); err != nil {
			return nil, err
		}
		result[key] = qty
	}
	return result, rows.Err()
}

// AddWithTx increments an item's quantity by the full requested amount in a
// single upsert, creating the entry on first deposit.
func (r *InventoryRepository) AddWithTx(ctx context.Context, tx pgx.Tx, discordID int64, item domain.TradeItem) error {
	if item.Quantity < 1 {
		return ErrNonPositiveQuantity
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO inventory (discord_id, item_key, display_name, rarity, shiny, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (discord_id, item_key)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = now()
	`, discordID, item.Key(), item.DisplayName(), item.Rarity, item.Shiny, item.Quantity)
	return err
}

// RemoveWithTx decrements an item's quantity, conditionally: the update only
// matches when enough units are held, so concurrent withdrawals cannot drive
// the quantity negative. Entries that reach zero are deleted.
func (r *InventoryRepository) RemoveWithTx(ctx context.Context, tx pgx.Tx, discordID int64, itemKey string, quantity int64) (int64, error) {
	if quantity < 1 {
		return 0, ErrNonPositiveQuantity
	}
	var remaining int64
	err := tx.QueryRow(ctx, `
		UPDATE inventory
		SET quantity = quantity - $3, updated_at = now()
		WHERE discord_id = $1 AND item_key = $2 AND quantity >= $3
		RETURNING quantity
	`, discordID, itemKey, quantity).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInsufficientQuantity
		}
		return 0, err
	}

	if remaining <= 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM inventory WHERE discord_id = $1 AND item_key = $2 AND quantity <= 0`,
			discordID, itemKey); err != nil {
			return 0, err
		}
	}
	return remaining, nil
}
