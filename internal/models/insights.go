package models

import "github.com/shopspring/decimal"

// CategoryInsight is a per-category aggregate over a user's transactions.
type CategoryInsight struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// LedgerSummary holds a user's overall income/expense totals.
type LedgerSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// MonthlySpend is aggregate spend for one "YYYY-MM" bucket.
type MonthlySpend struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}
