package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"finance-tracker/internal/models"
)

// MemoryTransactionRepository keeps transactions in process memory. It
// follows the ordering and aggregation rules of the Postgres repository.
type MemoryTransactionRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]models.Transaction
	now    func() time.Time
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{
		nextID: 1,
		rows:   make(map[int64]models.Transaction),
		now:    time.Now,
	}
}

func (r *MemoryTransactionRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := make([]*models.Transaction, 0, len(r.rows))
	for _, row := range r.rows {
		tx := row
		transactions = append(transactions, &tx)
	}
	sort.Slice(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return transactions, nil
}

func (r *MemoryTransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (r *MemoryTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = r.nextID
	tx.CreatedAt = r.now().UTC()
	r.nextID++
	r.rows[tx.ID] = *tx
	return nil
}

func (r *MemoryTransactionRepository) Update(ctx context.Context, tx *models.Transaction) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[tx.ID]
	if !ok {
		return 0, nil
	}
	existing.Type = tx.Type
	existing.Category = tx.Category
	existing.Amount = tx.Amount
	existing.Description = tx.Description
	existing.Date = tx.Date
	r.rows[tx.ID] = existing
	return 1, nil
}

func (r *MemoryTransactionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

// Count returns the number of stored transactions.
func (r *MemoryTransactionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func (r *MemoryTransactionRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct {
		group string
		typ   models.TransactionType
	}
	byCategory := map[key]float64{}
	byMonth := map[key]float64{}

	stats := &models.Statistics{
		Categories: []models.CategoryTotal{},
		Monthly:    []models.MonthlyTotal{},
	}
	for _, row := range r.rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			stats.TotalIncome += row.Amount
		case models.TransactionTypeExpense:
			stats.TotalExpense += row.Amount
		}
		byCategory[key{row.Category, row.Type}] += row.Amount
		byMonth[key{row.Date.Format("2006-01"), row.Type}] += row.Amount
	}

	for k, total := range byCategory {
		stats.Categories = append(stats.Categories, models.CategoryTotal{Category: k.group, Type: k.typ, Total: total})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		a, b := stats.Categories[i], stats.Categories[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Type < b.Type
	})

	for k, total := range byMonth {
		stats.Monthly = append(stats.Monthly, models.MonthlyTotal{Month: k.group, Type: k.typ, Total: total})
	}
	sort.Slice(stats.Monthly, func(i, j int) bool {
		a, b := stats.Monthly[i], stats.Monthly[j]
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.Type < b.Type
	})
	if len(stats.Monthly) > models.MonthlyLimit {
		stats.Monthly = stats.Monthly[:models.MonthlyLimit]
	}

	return stats, nil
}
