package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget Request DTOs

// CreateBudgetRequest contains data for creating a budget
type CreateBudgetRequest struct {
	Category  string          `json:"category" validate:"required,min=1,max=50"`
	Limit     decimal.Decimal `json:"limit" validate:"required,positive_amount"`
	Period    string          `json:"period" validate:"omitempty,budget_period"`
	StartDate *time.Time      `json:"startDate,omitempty"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
}

// UpdateBudgetRequest contains editable budget fields
type UpdateBudgetRequest struct {
	Limit    *decimal.Decimal `json:"limit,omitempty" validate:"omitempty,positive_amount"`
	Period   *string          `json:"period,omitempty" validate:"omitempty,budget_period"`
	EndDate  *time.Time       `json:"endDate,omitempty"`
	IsActive *bool            `json:"isActive,omitempty"`
}

// Budget Response DTOs

// BudgetResponse represents a budget with its derived totals
type BudgetResponse struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Period    string          `json:"period"`
	StartDate time.Time       `json:"startDate"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
	IsActive  bool            `json:"isActive"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Exceeded  bool            `json:"exceeded"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetListResponse lists a user's budgets
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
	Total   int              `json:"total"`
}
