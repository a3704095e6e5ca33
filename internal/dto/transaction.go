package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Request DTOs

// CreateTransactionRequest contains data for recording a transaction
type CreateTransactionRequest struct {
	Type        string          `json:"type" validate:"required,transaction_type"`
	Category    string          `json:"category" validate:"required,min=1,max=50"`
	Amount      decimal.Decimal `json:"amount" validate:"required,positive_amount"`
	Description string          `json:"description" validate:"max=500"`
	Date        *time.Time      `json:"date,omitempty"`
}

// UpdateTransactionRequest contains editable transaction fields
type UpdateTransactionRequest struct {
	Type        *string          `json:"type,omitempty" validate:"omitempty,transaction_type"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,positive_amount"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Date        *time.Time       `json:"date,omitempty"`
}

// ListTransactionsRequest carries query filters for listing transactions
type ListTransactionsRequest struct {
	Type      string `query:"type" validate:"omitempty,transaction_type"`
	Category  string `query:"category" validate:"omitempty,max=50"`
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Transaction Response DTOs

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TransactionListResponse is a paginated transaction listing
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

// CategoryInsightResponse is one category bucket in a spending breakdown
type CategoryInsightResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// LedgerSummaryResponse reports overall income/expense totals
type LedgerSummaryResponse struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	Currency     string          `json:"currency"`
}

// MonthlySpendResponse is one month's expense total
type MonthlySpendResponse struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}
