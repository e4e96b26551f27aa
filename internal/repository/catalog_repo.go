package repository

import (
	"context"

	"trading_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository stores item values per game. The trade core only reads
// it; cmd/import_items writes it.
type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Values returns all item values for a game, keyed by canonical item name.
func (r *CatalogRepository) Values(ctx context.Context, game string) (map[string]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, value FROM catalog_items WHERE game = $1`, game)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		result[name] = value
	}
	return result, rows.Err()
}

// List returns catalog entries for a game ordered by name.
func (r *CatalogRepository) List(ctx context.Context, game string) ([]domain.CatalogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game, name, value, updated_at
		FROM catalog_items
		WHERE game = $1
		ORDER BY name
	`, game)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Game, &e.Name, &e.Value, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Upsert inserts or updates a single item value.
func (r *CatalogRepository) Upsert(ctx context.Context, game, name string, value int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO catalog_items (game, name, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (game, name)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, game, name, value)
	return err
}

// BulkUpsert writes a full import batch in one database transaction.
func (r *CatalogRepository) BulkUpsert(ctx context.Context, game string, values map[string]int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for name, value := range values {
		if _, err := tx.Exec(ctx, `
			INSERT INTO catalog_items (game, name, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (game, name)
			DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		`, game, name, value); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
