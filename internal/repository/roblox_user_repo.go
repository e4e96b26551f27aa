package repository

import (
	"context"
	"errors"

	"trading_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RobloxUserRepository is the resolver cache: snapshots of Roblox profiles
// keyed by user ID.
type RobloxUserRepository struct {
	db *pgxpool.Pool
}

func NewRobloxUserRepository(db *pgxpool.Pool) *RobloxUserRepository {
	return &RobloxUserRepository{db: db}
}

// GetByUsername retrieves a cached profile by username, case-insensitively.
func (r *RobloxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.RobloxUser, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, username, COALESCE(description, ''), COALESCE(thumbnail_url, ''), updated_at
		FROM roblox_users
		WHERE lower(username) = lower($1)
	`, username)
	return scanRobloxUser(row)
}

// GetByID retrieves a cached profile by user ID.
func (r *RobloxUserRepository) GetByID(ctx context.Context, userID int64) (*domain.RobloxUser, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, username, COALESCE(description, ''), COALESCE(thumbnail_url, ''), updated_at
		FROM roblox_users
		WHERE user_id = $1
	`, userID)
	return scanRobloxUser(row)
}

// Upsert writes a profile snapshot.
func (r *RobloxUserRepository) Upsert(ctx context.Context, u *domain.RobloxUser) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO roblox_users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET username = EXCLUDED.username, updated_at = now()
	`, u.UserID, u.Username)
	return err
}

// UpdateDescription refreshes the cached bio text.
func (r *RobloxUserRepository) UpdateDescription(ctx context.Context, userID int64, description string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE roblox_users SET description = $2, updated_at = now() WHERE user_id = $1
	`, userID, description)
	return err
}

// UpdateThumbnail refreshes the cached avatar URL.
func (r *RobloxUserRepository) UpdateThumbnail(ctx context.Context, userID int64, url string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE roblox_users SET thumbnail_url = $2, updated_at = now() WHERE user_id = $1
	`, userID, url)
	return err
}

func scanRobloxUser(row pgx.Row) (*domain.RobloxUser, error) {
	var u domain.RobloxUser
	if err := row.Scan(&u.UserID, &u.Username, &u.Description, &u.ThumbnailURL, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
