package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"finance-tracker/internal/dto"

	"github.com/xuri/excelize/v2"
)

func seedExport(t *testing.T, svc *TransactionService) {
	t.Helper()
	ctx := context.Background()
	for _, req := range []*dto.TransactionRequest{
		{Type: "income", Category: "Salary", Amount: 1500, Description: "June", Date: "2024-06-01"},
		{Type: "expense", Category: "Food", Amount: 12.5, Description: "lunch, with \"team\"", Date: "2024-06-03"},
	} {
		if _, err := svc.Add(ctx, req); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
}

func TestParseExportFormat(t *testing.T) {
	for in, want := range map[string]ExportFormat{"": ExportXLSX, "xlsx": ExportXLSX, "CSV": ExportCSV} {
		got, err := ParseExportFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseExportFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseExportFormat("pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExportCSV(t *testing.T) {
	svc, _ := newTestService(false)
	seedExport(t, svc)

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), &buf, ExportCSV); err != nil {
		t.Fatalf("Export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0][0] != "Type" || records[0][4] != "Date" {
		t.Errorf("header = %v", records[0])
	}
	// newest first
	want := []string{"expense", "Food", "12.50", "lunch, with \"team\"", "2024-06-03"}
	for i, v := range want {
		if records[1][i] != v {
			t.Errorf("records[1][%d] = %q, want %q", i, records[1][i], v)
		}
	}
}

func TestExportXLSX(t *testing.T) {
	svc, _ := newTestService(false)
	seedExport(t, svc)

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), &buf, ExportXLSX); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[2][1] != "Salary" || rows[2][4] != "2024-06-01" {
		t.Errorf("last row = %v", rows[2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	svc, _ := newTestService(false)
	if err := svc.Export(context.Background(), &bytes.Buffer{}, ExportFormat("pdf")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
