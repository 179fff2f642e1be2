//go:build integration

package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"finance-tracker/internal/models"
	"finance-tracker/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Integration tests require a disposable Postgres database.
// Run with: TEST_DATABASE_URL=postgres://... go test -tags=integration ./internal/repository

func newTestRepository(t *testing.T) (*TransactionRepository, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.RunMigrations(pool, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE transactions RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return NewTransactionRepository(pool, zap.NewNop()), pool
}

func TestIntegration_TransactionLifecycle(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	tx := &models.Transaction{
		Type: models.TransactionTypeExpense, Category: "Groceries", Amount: 42.35,
		Description: "weekly shop", Date: day("2024-02-10"),
	}
	if err := repo.Create(ctx, tx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tx.ID <= 0 || tx.CreatedAt.IsZero() {
		t.Fatalf("generated fields not set: %+v", tx)
	}

	got, err := repo.GetByID(ctx, tx.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Type != tx.Type || got.Category != tx.Category || got.Amount != tx.Amount ||
		got.Description != tx.Description || !got.Date.Equal(tx.Date) {
		t.Errorf("round trip mismatch: got %+v want %+v", got, tx)
	}

	tx.Amount = 50
	if n, err := repo.Update(ctx, tx); err != nil || n != 1 {
		t.Fatalf("Update = %d, %v", n, err)
	}
	if n, err := repo.Update(ctx, &models.Transaction{ID: 999999, Type: models.TransactionTypeIncome, Date: day("2024-01-01")}); err != nil || n != 0 {
		t.Errorf("Update missing = %d, %v", n, err)
	}
	if n, err := repo.Delete(ctx, 999999); err != nil || n != 0 {
		t.Errorf("Delete missing = %d, %v", n, err)
	}
	if n, err := repo.Delete(ctx, tx.ID); err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if _, err := repo.GetByID(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestIntegration_ListOrderingAndStatistics(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	for _, tx := range []*models.Transaction{
		{Type: models.TransactionTypeIncome, Category: "Salary", Amount: 100, Date: day("2024-01-01")},
		{Type: models.TransactionTypeExpense, Category: "Food", Amount: 40, Date: day("2024-03-01")},
		{Type: models.TransactionTypeExpense, Category: "Food", Amount: 0.5, Date: day("2024-02-01")},
	} {
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantDates := []string{"2024-03-01", "2024-02-01", "2024-01-01"}
	for i, tx := range list {
		if got := tx.Date.Format(models.DateLayout); got != wantDates[i] {
			t.Errorf("list[%d].date = %s, want %s", i, got, wantDates[i])
		}
	}

	stats, err := repo.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalIncome != 100 || stats.TotalExpense != 40.5 {
		t.Errorf("totals = %v / %v", stats.TotalIncome, stats.TotalExpense)
	}

	var categorySum, monthlySum float64
	for _, c := range stats.Categories {
		categorySum += c.Total
	}
	for _, m := range stats.Monthly {
		monthlySum += m.Total
	}
	if categorySum != 140.5 || monthlySum != 140.5 {
		t.Errorf("breakdowns sum to %v / %v, want 140.5", categorySum, monthlySum)
	}
	if stats.Monthly[0].Month != "2024-03" {
		t.Errorf("first month = %s, want 2024-03", stats.Monthly[0].Month)
	}
}
