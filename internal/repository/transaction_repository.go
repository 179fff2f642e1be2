package repository

import (
	"context"
	"errors"

	"finance-tracker/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("transaction not found")

var transactionColumns = []string{"id", "type", "category", "amount", "description", "date", "created_at"}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func listQuery() squirrel.SelectBuilder {
	return psql.Select(transactionColumns...).
		From("transactions").
		OrderBy("date DESC", "created_at DESC", "id DESC")
}

func getQuery(id int64) squirrel.SelectBuilder {
	return psql.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id})
}

func insertQuery(tx *models.Transaction) squirrel.InsertBuilder {
	return psql.Insert("transactions").
		Columns("type", "category", "amount", "description", "date").
		Values(tx.Type, tx.Category, tx.Amount, tx.Description, tx.Date).
		Suffix("RETURNING id, created_at")
}

func updateQuery(tx *models.Transaction) squirrel.UpdateBuilder {
	return psql.Update("transactions").
		Set("type", tx.Type).
		Set("category", tx.Category).
		Set("amount", tx.Amount).
		Set("description", tx.Description).
		Set("date", tx.Date).
		Where(squirrel.Eq{"id": tx.ID})
}

func deleteQuery(id int64) squirrel.DeleteBuilder {
	return psql.Delete("transactions").Where(squirrel.Eq{"id": id})
}

func totalQuery(t models.TransactionType) squirrel.SelectBuilder {
	return psql.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(squirrel.Eq{"type": t})
}

func categoryQuery() squirrel.SelectBuilder {
	return psql.Select("category", "type", "SUM(amount) AS total").
		From("transactions").
		GroupBy("category", "type").
		OrderBy("category", "type")
}

func monthlyQuery() squirrel.SelectBuilder {
	return psql.Select("to_char(date, 'YYYY-MM') AS month", "type", "SUM(amount) AS total").
		From("transactions").
		GroupBy("to_char(date, 'YYYY-MM')", "type").
		OrderBy("month DESC", "type").
		Limit(models.MonthlyLimit)
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	if err := row.Scan(
		&tx.ID, &tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.Date, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	sql, args, err := listQuery().ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	sql, args, err := getQuery(id).ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return tx, err
}

// Create inserts tx and fills in the generated id and created_at.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	sql, args, err := insertQuery(tx).ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&tx.ID, &tx.CreatedAt)
}

// Update replaces every mutable column and returns the affected row count.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) (int64, error) {
	sql, args, err := updateQuery(tx).ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	sql, args, err := deleteQuery(id).ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Statistics runs the four aggregate reads in one read-only snapshot.
func (r *TransactionRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("Failed to close statistics snapshot", zap.Error(err))
		}
	}()

	stats := &models.Statistics{
		Categories: []models.CategoryTotal{},
		Monthly:    []models.MonthlyTotal{},
	}

	for t, dst := range map[models.TransactionType]*float64{
		models.TransactionTypeIncome:  &stats.TotalIncome,
		models.TransactionTypeExpense: &stats.TotalExpense,
	} {
		sql, args, err := totalQuery(t).ToSql()
		if err != nil {
			return nil, err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(dst); err != nil {
			return nil, err
		}
	}

	sql, args, err := categoryQuery().ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c models.CategoryTotal
		if err := rows.Scan(&c.Category, &c.Type, &c.Total); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Categories = append(stats.Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sql, args, err = monthlyQuery().ToSql()
	if err != nil {
		return nil, err
	}
	rows, err = tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m models.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Type, &m.Total); err != nil {
			return nil, err
		}
		stats.Monthly = append(stats.Monthly, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, tx.Commit(ctx)
}
