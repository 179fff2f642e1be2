package dto

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Number is a float64 that also decodes from a JSON string.
// Values that do not parse, and non-finite values, decode to zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(unquote(b))), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// ID is a transaction id that also decodes from a JSON string.
// Non-numeric input decodes to zero.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ID(ParseID(string(unquote(b))))
	return nil
}

// ParseID casts s to an id the way a query string is cast: anything that is
// not a number becomes 0.
func ParseID(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func unquote(b []byte) []byte {
	return bytes.Trim(b, `"`)
}

type TransactionRequest struct {
	Type        string `json:"type" validate:"required,oneof=income expense"`
	Category    string `json:"category" validate:"required"`
	Amount      Number `json:"amount" validate:"gt=0"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type TransactionResponse struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

type CategoryTotalResponse struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
}

type MonthlyTotalResponse struct {
	Month string  `json:"month"`
	Type  string  `json:"type"`
	Total float64 `json:"total"`
}

type StatisticsResponse struct {
	TotalIncome  float64                 `json:"totalIncome"`
	TotalExpense float64                 `json:"totalExpense"`
	Balance      float64                 `json:"balance"`
	Categories   []CategoryTotalResponse `json:"categories"`
	Monthly      []MonthlyTotalResponse  `json:"monthly"`
}
