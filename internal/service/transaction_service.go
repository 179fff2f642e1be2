package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrMissingFields       = errors.New("please fill all required fields")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidDate         = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidID           = errors.New("invalid transaction ID")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionStore is the persistence the service needs. Update and Delete
// report how many rows they touched.
type TransactionStore interface {
	List(ctx context.Context) ([]*models.Transaction, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
}

type TransactionService struct {
	store    TransactionStore
	strict   bool
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewTransactionService builds the service. With strict set, update and
// delete of an id that does not exist fail with ErrTransactionNotFound;
// otherwise they succeed without touching anything.
func NewTransactionService(store TransactionStore, strict bool, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:    store,
		strict:   strict,
		validate: validator.New(),
		now:      time.Now,
		logger:   logger,
	}
}

func (s *TransactionService) List(ctx context.Context) ([]dto.TransactionResponse, error) {
	transactions, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list transactions", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = toResponse(tx)
	}
	return responses, nil
}

// Get treats non-positive ids as missing rather than invalid.
func (s *TransactionService) Get(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	if id <= 0 {
		return nil, ErrTransactionNotFound
	}

	tx, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		s.logger.Error("Failed to get transaction", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	resp := toResponse(tx)
	return &resp, nil
}

// Add validates req and inserts it, returning the generated id.
func (s *TransactionService) Add(ctx context.Context, req *dto.TransactionRequest) (int64, error) {
	tx, err := s.build(req)
	if err != nil {
		return 0, err
	}

	if err := s.store.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to add transaction", zap.Error(err))
		return 0, err
	}

	s.logger.Info("Transaction added",
		zap.Int64("id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.Float64("amount", tx.Amount),
	)
	return tx.ID, nil
}

// Update replaces every mutable field of the transaction with the given id.
func (s *TransactionService) Update(ctx context.Context, id int64, req *dto.TransactionRequest) error {
	if id <= 0 {
		return ErrInvalidID
	}

	tx, err := s.build(req)
	if err != nil {
		return err
	}
	tx.ID = id

	affected, err := s.store.Update(ctx, tx)
	if err != nil {
		s.logger.Error("Failed to update transaction", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		if s.strict {
			return ErrTransactionNotFound
		}
		s.logger.Debug("Update matched no rows", zap.Int64("id", id))
	}
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete transaction", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		if s.strict {
			return ErrTransactionNotFound
		}
		s.logger.Debug("Delete matched no rows", zap.Int64("id", id))
	}
	return nil
}

func (s *TransactionService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		s.logger.Error("Failed to compute statistics", zap.Error(err))
		return nil, err
	}

	categories := make([]dto.CategoryTotalResponse, len(stats.Categories))
	for i, c := range stats.Categories {
		categories[i] = dto.CategoryTotalResponse{Category: c.Category, Type: string(c.Type), Total: c.Total}
	}
	monthly := make([]dto.MonthlyTotalResponse, len(stats.Monthly))
	for i, m := range stats.Monthly {
		monthly[i] = dto.MonthlyTotalResponse{Month: m.Month, Type: string(m.Type), Total: m.Total}
	}

	return &dto.StatisticsResponse{
		TotalIncome:  stats.TotalIncome,
		TotalExpense: stats.TotalExpense,
		Balance:      stats.Balance(),
		Categories:   categories,
		Monthly:      monthly,
	}, nil
}

// build validates a normalised copy of req and turns it into a model. The
// amount is rounded to cents and the date defaults to today.
func (s *TransactionService) build(req *dto.TransactionRequest) (*models.Transaction, error) {
	if req == nil {
		return nil, ErrMissingFields
	}
	r := *req
	if t, ok := models.ParseTransactionType(r.Type); ok {
		r.Type = string(t)
	}
	r.Date = strings.TrimSpace(r.Date)
	r.Amount = dto.Number(roundCents(float64(r.Amount)))

	if err := s.validate.Struct(&r); err != nil {
		return nil, validationError(err)
	}

	date := s.now()
	if r.Date != "" {
		parsed, err := time.Parse(models.DateLayout, r.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		date = parsed
	}

	return &models.Transaction{
		Type:        models.TransactionType(r.Type),
		Category:    r.Category,
		Amount:      float64(r.Amount),
		Description: r.Description,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}

// roundCents rounds to the storage precision of NUMERIC(12,2). Non-finite
// values become 0 so they fail the positive amount rule.
func roundCents(a float64) float64 {
	if math.IsInf(a, 0) || math.IsNaN(a) {
		return 0
	}
	return math.Round(a*100) / 100
}

// validationError maps validator field errors onto the service errors.
// Presence problems win over shape problems.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	result := error(nil)
	for _, fe := range fieldErrs {
		switch {
		case fe.Tag() == "required" || fe.Tag() == "gt":
			return ErrMissingFields
		case fe.Field() == "Type":
			result = ErrInvalidType
		case fe.Field() == "Date" && result == nil:
			result = ErrInvalidDate
		}
	}
	if result == nil {
		result = ErrMissingFields
	}
	return result
}

func toResponse(tx *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      tx.Amount,
		Description: tx.Description,
		Date:        tx.Date.Format(models.DateLayout),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}
