package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"finance-tracker/internal/dto"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

const exportSheet = "Transactions"

var exportHeaders = []string{"Type", "Category", "Amount", "Description", "Date"}

// ParseExportFormat defaults to xlsx when s is empty.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportXLSX:
		return ExportXLSX, nil
	case ExportCSV:
		return ExportCSV, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (f ExportFormat) Extension() string {
	return string(f)
}

// Export writes every transaction, in list order, to w.
func (s *TransactionService) Export(ctx context.Context, w io.Writer, format ExportFormat) error {
	transactions, err := s.List(ctx)
	if err != nil {
		return err
	}

	switch format {
	case ExportCSV:
		err = writeCSV(w, transactions)
	case ExportXLSX:
		err = writeXLSX(w, transactions)
	default:
		return ErrUnsupportedFormat
	}
	if err != nil {
		s.logger.Error("Failed to export transactions", zap.String("format", string(format)), zap.Error(err))
		return err
	}

	s.logger.Info("Transactions exported", zap.String("format", string(format)), zap.Int("rows", len(transactions)))
	return nil
}

func exportRow(tx dto.TransactionResponse) []string {
	return []string{
		tx.Type,
		tx.Category,
		strconv.FormatFloat(tx.Amount, 'f', 2, 64),
		tx.Description,
		tx.Date,
	}
}

func writeCSV(w io.Writer, transactions []dto.TransactionResponse) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, tx := range transactions {
		if err := writer.Write(exportRow(tx)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, transactions []dto.TransactionResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, tx := range transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{tx.Type, tx.Category, tx.Amount, tx.Description, tx.Date}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	widths := map[string]float64{"A": 10, "B": 18, "C": 12, "D": 32, "E": 12}
	for col, width := range widths {
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
