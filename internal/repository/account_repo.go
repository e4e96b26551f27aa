package repository

import (
	"context"
	"errors"

	"trading_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrBalanceTooLow   = errors.New("balance too low")
)

// AccountRepository stores Discord-to-Roblox account links and the gem
// balance attached to each link.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Get retrieves a link by Discord ID. Returns (nil, nil) when no link exists.
func (r *AccountRepository) Get(ctx context.Context, discordID int64) (*domain.AccountLink, error) {
	row := r.db.QueryRow(ctx, `
		SELECT discord_id, roblox_user_id, roblox_username, gems, linked_at
		FROM accounts
		WHERE discord_id = $1
	`, discordID)

	var a domain.AccountLink
	if err := row.Scan(&a.DiscordID, &a.RobloxUserID, &a.RobloxUsername, &a.Gems, &a.LinkedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// GetByRobloxID retrieves a link by Roblox user ID.
func (r *AccountRepository) GetByRobloxID(ctx context.Context, robloxUserID int64) (*domain.AccountLink, error) {
	row := r.db.QueryRow(ctx, `
		SELECT discord_id, roblox_user_id, roblox_username, gems, linked_at
		FROM accounts
		WHERE roblox_user_id = $1
	`, robloxUserID)

	var a domain.AccountLink
	if err := row.Scan(&a.DiscordID, &a.RobloxUserID, &a.RobloxUsername, &a.Gems, &a.LinkedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account link.
func (r *AccountRepository) Create(ctx context.Context, a *domain.AccountLink) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO accounts (discord_id, roblox_user_id, roblox_username)
		VALUES ($1, $2, $3)
		RETURNING linked_at
	`, a.DiscordID, a.RobloxUserID, a.RobloxUsername).Scan(&a.LinkedAt)
}

// Delete removes an account link. Returns ErrAccountNotFound when none
// existed.
func (r *AccountRepository) Delete(ctx context.Context, discordID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE discord_id = $1`, discordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// RobloxIDExists checks whether a Roblox account is already linked to anyone.
func (r *AccountRepository) RobloxIDExists(ctx context.Context, robloxUserID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE roblox_user_id = $1)
	`, robloxUserID).Scan(&exists)
	return exists, err
}

// GetGems returns the gem balance for a linked account.
func (r *AccountRepository) GetGems(ctx context.Context, discordID int64) (int64, error) {
	var gems int64
	err := r.db.QueryRow(ctx, `SELECT gems FROM accounts WHERE discord_id = $1`, discordID).Scan(&gems)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	return gems, err
}

// UpdateGemsWithTx applies a balance delta within an existing transaction.
// The update is conditional so the balance never goes negative.
func (r *AccountRepository) UpdateGemsWithTx(ctx context.Context, tx pgx.Tx, discordID int64, delta int64) (int64, error) {
	var newBalance int64
	err := tx.QueryRow(ctx,
		`UPDATE accounts SET gems = gems + $1 WHERE discord_id = $2 AND gems + $1 >= 0 RETURNING gems`,
		delta, discordID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			_ = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE discord_id = $1)`, discordID).Scan(&exists)
			if !exists {
				return 0, ErrAccountNotFound
			}
			return 0, ErrBalanceTooLow
		}
		return 0, err
	}
	return newBalance, nil
}
