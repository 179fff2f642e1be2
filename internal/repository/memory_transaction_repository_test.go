package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"finance-tracker/internal/models"
)

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func seed(t *testing.T, r *MemoryTransactionRepository, rows ...models.Transaction) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		tx := rows[i]
		if err := r.Create(context.Background(), &tx); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, tx.ID)
	}
	return ids
}

func TestMemoryCreateAssignsIDs(t *testing.T) {
	r := NewMemoryTransactionRepository()
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	ids := seed(t, r,
		models.Transaction{Type: models.TransactionTypeIncome, Category: "Salary", Amount: 10, Date: day("2024-05-01")},
		models.Transaction{Type: models.TransactionTypeExpense, Category: "Food", Amount: 5, Date: day("2024-05-01")},
	)
	if ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids = %v, want [1 2]", ids)
	}

	got, err := r.GetByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Category != "Food" || !got.CreatedAt.Equal(fixed) {
		t.Errorf("unexpected row: %+v", got)
	}

	if _, err := r.GetByID(context.Background(), 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryListOrdering(t *testing.T) {
	r := NewMemoryTransactionRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	r.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	seed(t, r,
		models.Transaction{Type: models.TransactionTypeIncome, Category: "a", Amount: 1, Date: day("2024-01-01")},
		models.Transaction{Type: models.TransactionTypeIncome, Category: "b", Amount: 1, Date: day("2024-03-01")},
		models.Transaction{Type: models.TransactionTypeIncome, Category: "c", Amount: 1, Date: day("2024-02-01")},
		models.Transaction{Type: models.TransactionTypeIncome, Category: "d", Amount: 1, Date: day("2024-03-01")},
	)

	list, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []string
	for _, tx := range list {
		got = append(got, tx.Category)
	}
	// same date: the later created_at comes first
	want := []string{"d", "b", "c", "a"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestMemoryUpdateDeleteRowsAffected(t *testing.T) {
	r := NewMemoryTransactionRepository()
	ids := seed(t, r, models.Transaction{Type: models.TransactionTypeIncome, Category: "Salary", Amount: 10, Date: day("2024-05-01")})
	ctx := context.Background()

	n, err := r.Update(ctx, &models.Transaction{ID: ids[0], Type: models.TransactionTypeExpense, Category: "Rent", Amount: 7, Date: day("2024-06-01")})
	if err != nil || n != 1 {
		t.Fatalf("Update = %d, %v", n, err)
	}
	got, _ := r.GetByID(ctx, ids[0])
	if got.Type != models.TransactionTypeExpense || got.Category != "Rent" || got.Amount != 7 || !got.Date.Equal(day("2024-06-01")) {
		t.Errorf("row not replaced: %+v", got)
	}

	if n, _ := r.Update(ctx, &models.Transaction{ID: 999999}); n != 0 {
		t.Errorf("update of missing id affected %d rows", n)
	}
	if n, _ := r.Delete(ctx, 999999); n != 0 {
		t.Errorf("delete of missing id affected %d rows", n)
	}
	if n, _ := r.Delete(ctx, ids[0]); n != 1 {
		t.Errorf("delete affected %d rows, want 1", n)
	}
	if r.Count() != 0 {
		t.Errorf("count = %d, want 0", r.Count())
	}
}

func TestMemoryStatistics(t *testing.T) {
	r := NewMemoryTransactionRepository()
	seed(t, r,
		models.Transaction{Type: models.TransactionTypeIncome, Category: "Salary", Amount: 100, Date: day("2024-01-15")},
		models.Transaction{Type: models.TransactionTypeExpense, Category: "Food", Amount: 30, Date: day("2024-01-20")},
		models.Transaction{Type: models.TransactionTypeExpense, Category: "Food", Amount: 10, Date: day("2024-02-02")},
	)

	stats, err := r.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalIncome != 100 || stats.TotalExpense != 40 || stats.Balance() != 60 {
		t.Errorf("totals = %+v", stats)
	}

	wantCategories := []models.CategoryTotal{
		{Category: "Food", Type: models.TransactionTypeExpense, Total: 40},
		{Category: "Salary", Type: models.TransactionTypeIncome, Total: 100},
	}
	if fmt.Sprint(stats.Categories) != fmt.Sprint(wantCategories) {
		t.Errorf("categories = %v, want %v", stats.Categories, wantCategories)
	}

	wantMonthly := []models.MonthlyTotal{
		{Month: "2024-02", Type: models.TransactionTypeExpense, Total: 10},
		{Month: "2024-01", Type: models.TransactionTypeExpense, Total: 30},
		{Month: "2024-01", Type: models.TransactionTypeIncome, Total: 100},
	}
	if fmt.Sprint(stats.Monthly) != fmt.Sprint(wantMonthly) {
		t.Errorf("monthly = %v, want %v", stats.Monthly, wantMonthly)
	}
}

func TestMemoryStatisticsMonthlyLimit(t *testing.T) {
	r := NewMemoryTransactionRepository()
	for m := 1; m <= 8; m++ {
		d := time.Date(2023, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		seed(t, r,
			models.Transaction{Type: models.TransactionTypeIncome, Category: "Salary", Amount: 1, Date: d},
			models.Transaction{Type: models.TransactionTypeExpense, Category: "Food", Amount: 1, Date: d},
		)
	}

	stats, err := r.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if len(stats.Monthly) != models.MonthlyLimit {
		t.Fatalf("monthly rows = %d, want %d", len(stats.Monthly), models.MonthlyLimit)
	}
	if stats.Monthly[0].Month != "2023-08" || stats.Monthly[len(stats.Monthly)-1].Month != "2023-03" {
		t.Errorf("unexpected window: first %s last %s", stats.Monthly[0].Month, stats.Monthly[len(stats.Monthly)-1].Month)
	}
}

func TestMemoryStatisticsEmpty(t *testing.T) {
	stats, err := NewMemoryTransactionRepository().Statistics(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalIncome != 0 || stats.TotalExpense != 0 || stats.Categories == nil || stats.Monthly == nil {
		t.Errorf("unexpected empty stats: %+v", stats)
	}
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryTransactionRepository().List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
