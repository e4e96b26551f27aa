package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trading_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository stores trade transaction records. Records are
// append-only: inserts and the pending -> completed flip are the only writes.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a new record in pending status.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	itemsJSON, err := json.Marshal(t.Items)
	if err != nil {
		itemsJSON = []byte("[]")
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO transactions (public_id, type, discord_id, roblox_user_id, items, gems, total_value, status, security_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8)
		RETURNING id, created_at
	`, t.PublicID, t.Type, t.DiscordID, t.RobloxUserID, itemsJSON, t.Gems, t.TotalValue, t.SecurityCode,
	).Scan(&t.ID, &t.CreatedAt)
}

// MarkCompletedWithTx flips a pending record to completed inside the ledger
// transaction, so the flip commits exactly when the mutation does.
func (r *TransactionRepository) MarkCompletedWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET status = 'completed', completed_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("transaction not pending")
	}
	return nil
}

// GetByPublicID retrieves a record by its public identifier.
func (r *TransactionRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, public_id, type, discord_id, roblox_user_id, items, gems, total_value, status,
		       COALESCE(security_code, ''), created_at, completed_at
		FROM transactions
		WHERE public_id = $1
	`, publicID)

	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// GetByDiscordID returns recent records for an account.
func (r *TransactionRepository) GetByDiscordID(ctx context.Context, discordID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, public_id, type, discord_id, roblox_user_id, items, gems, total_value, status,
		       COALESCE(security_code, ''), created_at, completed_at
		FROM transactions
		WHERE discord_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, discordID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetStalePending lists the reconciliation backlog: records still pending
// after the given age. A pending record that old means a ledger mutation
// failed after the record was written; it is never repaired automatically.
func (r *TransactionRepository) GetStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, public_id, type, discord_id, roblox_user_id, items, gems, total_value, status,
		       COALESCE(security_code, ''), created_at, completed_at
		FROM transactions
		WHERE status = 'pending' AND created_at < now() - make_interval(secs => $1)
		ORDER BY created_at
		LIMIT $2
	`, olderThan.Seconds(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var itemsJSON []byte
	if err := row.Scan(&t.ID, &t.PublicID, &t.Type, &t.DiscordID, &t.RobloxUserID, &itemsJSON,
		&t.Gems, &t.TotalValue, &t.Status, &t.SecurityCode, &t.CreatedAt, &t.CompletedAt); err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		_ = json.Unmarshal(itemsJSON, &t.Items)
	}
	return &t, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
