package models

// MonthlyLimit caps the number of month/type rows in Statistics.Monthly.
const MonthlyLimit = 12

type CategoryTotal struct {
	Category string
	Type     TransactionType
	Total    float64
}

type MonthlyTotal struct {
	Month string // YYYY-MM
	Type  TransactionType
	Total float64
}

type Statistics struct {
	TotalIncome  float64
	TotalExpense float64
	Categories   []CategoryTotal
	Monthly      []MonthlyTotal
}

func (s *Statistics) Balance() float64 {
	return s.TotalIncome - s.TotalExpense
}
