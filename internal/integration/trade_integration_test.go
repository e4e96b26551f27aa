package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trading_backend/internal/domain"
	"trading_backend/internal/repository"
	"trading_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func seedAccount(t *testing.T, db *pgxpool.Pool, discordID, robloxID int64) {
	t.Helper()
	ctx := context.Background()
	_, _ = db.Exec(ctx, `DELETE FROM transactions WHERE discord_id = $1`, discordID)
	_, _ = db.Exec(ctx, `DELETE FROM inventory WHERE discord_id = $1`, discordID)
	_, _ = db.Exec(ctx, `DELETE FROM accounts WHERE discord_id = $1`, discordID)
	if err := repository.NewAccountRepository(db).Create(ctx, &domain.AccountLink{
		DiscordID:      discordID,
		RobloxUserID:   robloxID,
		RobloxUsername: "integration_tester",
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func seedCatalog(t *testing.T, db *pgxpool.Pool, game string) {
	t.Helper()
	err := repository.NewCatalogRepository(db).BulkUpsert(context.Background(), game, map[string]int64{
		"Huge Cat":    1_000_000,
		"Titanic Dog": 5_000_000,
	})
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

func TestDepositThenWithdraw_RoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	const game = "ITEST"
	const discordID = 900001
	seedAccount(t, db, discordID, 42)
	seedCatalog(t, db, game)

	trades := service.NewTradeService(db)
	items := []domain.TradeItem{{Name: "Huge Cat", Quantity: 2}}

	txID, err := trades.ProcessDeposit(ctx, game, discordID, 42, domain.Trade{
		Type:  domain.TradeTypeDeposit,
		Items: items,
		Gems:  100_000_000,
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// deposit effects: inventory, gems, completed record
	quantities, err := repository.NewInventoryRepository(db).Quantities(ctx, discordID)
	if err != nil {
		t.Fatalf("quantities: %v", err)
	}
	if quantities["huge cat"] != 2 {
		t.Fatalf("expected 2 huge cats, got %d", quantities["huge cat"])
	}
	gems, err := repository.NewAccountRepository(db).GetGems(ctx, discordID)
	if err != nil {
		t.Fatalf("gems: %v", err)
	}
	if gems != 100_000_000 {
		t.Fatalf("expected 100000000 gems, got %d", gems)
	}
	rec, err := repository.NewTransactionRepository(db).GetByPublicID(ctx, txID)
	if err != nil || rec == nil {
		t.Fatalf("get transaction: %v %v", rec, err)
	}
	if rec.Status != domain.TransactionStatusCompleted {
		t.Fatalf("expected completed record, got %s", rec.Status)
	}
	if rec.TotalValue != 2_000_000 {
		t.Fatalf("expected total value 2000000, got %d", rec.TotalValue)
	}

	// withdraw one back
	if _, err := trades.ProcessWithdraw(ctx, game, discordID, 42, domain.Trade{
		Type:  domain.TradeTypeWithdraw,
		Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: 1}},
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	quantities, _ = repository.NewInventoryRepository(db).Quantities(ctx, discordID)
	if quantities["huge cat"] != 1 {
		t.Fatalf("expected 1 huge cat after withdraw, got %d", quantities["huge cat"])
	}
}

func TestWithdraw_NeverOverdraws(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	const game = "ITEST"
	const discordID = 900002
	seedAccount(t, db, discordID, 43)
	seedCatalog(t, db, game)

	trades := service.NewTradeService(db)
	if _, err := trades.ProcessDeposit(ctx, game, discordID, 43, domain.Trade{
		Type:  domain.TradeTypeDeposit,
		Items: []domain.TradeItem{{Name: "Titanic Dog", Quantity: 1}},
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	_, err := trades.ProcessWithdraw(ctx, game, discordID, 43, domain.Trade{
		Type:  domain.TradeTypeWithdraw,
		Items: []domain.TradeItem{{Name: "Titanic Dog", Quantity: 2}},
	})
	var vErr *service.ValidationError
	if !errors.As(err, &vErr) || vErr.Reason != service.ReasonInsufficientQuantity {
		t.Fatalf("expected insufficient quantity, got %v", err)
	}

	// holdings untouched by the failed withdrawal
	quantities, _ := repository.NewInventoryRepository(db).Quantities(ctx, discordID)
	if quantities["titanic dog"] != 1 {
		t.Fatalf("expected holdings unchanged, got %d", quantities["titanic dog"])
	}
}

func TestInventory_ZeroQuantityRowRemoved(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	const game = "ITEST"
	const discordID = 900003
	seedAccount(t, db, discordID, 44)
	seedCatalog(t, db, game)

	trades := service.NewTradeService(db)
	if _, err := trades.ProcessDeposit(ctx, game, discordID, 44, domain.Trade{
		Type:  domain.TradeTypeDeposit,
		Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: 1}},
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := trades.ProcessWithdraw(ctx, game, discordID, 44, domain.Trade{
		Type:  domain.TradeTypeWithdraw,
		Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: 1}},
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	entries, err := repository.NewInventoryRepository(db).List(ctx, discordID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty inventory, got %+v", entries)
	}
}

func TestAccountGems_ConditionalDecrement(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	const discordID = 900004
	seedAccount(t, db, discordID, 45)

	accounts := repository.NewAccountRepository(db)

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := accounts.UpdateGemsWithTx(ctx, tx, discordID, 500); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := accounts.UpdateGemsWithTx(ctx, tx, discordID, -600); !errors.Is(err, repository.ErrBalanceTooLow) {
		t.Fatalf("expected ErrBalanceTooLow, got %v", err)
	}
	balance, err := accounts.UpdateGemsWithTx(ctx, tx, discordID, -500)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance)
	}
}
