package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBudget_Validate(t *testing.T) {
	validUserID := uuid.New()

	tests := []struct {
		name    string
		budget  Budget
		wantErr error
	}{
		{
			name: "valid monthly budget",
			budget: Budget{
				UserID:   validUserID,
				Category: "groceries",
				Limit:    decimal.NewFromFloat(500.00),
				Period:   BudgetPeriodMonthly,
			},
		},
		{
			name: "valid weekly budget",
			budget: Budget{
				UserID:   validUserID,
				Category: "dining",
				Limit:    decimal.NewFromFloat(120.50),
				Period:   BudgetPeriodWeekly,
			},
		},
		{
			name: "zero limit rejected",
			budget: Budget{
				UserID:   validUserID,
				Category: "groceries",
				Limit:    decimal.Zero,
				Period:   BudgetPeriodMonthly,
			},
			wantErr: ErrInvalidBudgetLimit,
		},
		{
			name: "negative limit rejected",
			budget: Budget{
				UserID:   validUserID,
				Category: "groceries",
				Limit:    decimal.NewFromFloat(-10.00),
				Period:   BudgetPeriodMonthly,
			},
			wantErr: ErrInvalidBudgetLimit,
		},
		{
			name: "unknown period rejected",
			budget: Budget{
				UserID:   validUserID,
				Category: "groceries",
				Limit:    decimal.NewFromFloat(500.00),
				Period:   "fortnightly",
			},
			wantErr: ErrInvalidBudgetPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBudget_Validate_MissingFields(t *testing.T) {
	budget := Budget{
		Category: "groceries",
		Limit:    decimal.NewFromFloat(500.00),
		Period:   BudgetPeriodMonthly,
	}
	assert.EqualError(t, budget.Validate(), "user ID is required")

	budget = Budget{
		UserID: uuid.New(),
		Limit:  decimal.NewFromFloat(500.00),
		Period: BudgetPeriodMonthly,
	}
	assert.EqualError(t, budget.Validate(), "category is required")
}

func TestBudget_ApplySpent(t *testing.T) {
	tests := []struct {
		name          string
		limit         string
		spent         string
		wantRemaining string
	}{
		{"under limit", "500.00", "120.00", "380"},
		{"exactly at limit", "500.00", "500.00", "0"},
		{"over limit clamps remaining to zero", "500.00", "650.00", "0"},
		{"no spend leaves full limit", "500.00", "0", "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := Budget{Limit: decimal.RequireFromString(tt.limit)}
			budget.ApplySpent(decimal.RequireFromString(tt.spent))

			assert.True(t, decimal.RequireFromString(tt.spent).Equal(budget.Spent))
			assert.True(t, decimal.RequireFromString(tt.wantRemaining).Equal(budget.Remaining),
				"remaining = %s, want %s", budget.Remaining, tt.wantRemaining)
		})
	}
}

func TestBudget_IsExceeded(t *testing.T) {
	budget := Budget{Limit: decimal.NewFromInt(500)}

	budget.ApplySpent(decimal.NewFromInt(499))
	assert.False(t, budget.IsExceeded())

	// Spend equal to the limit is not an overshoot
	budget.ApplySpent(decimal.NewFromInt(500))
	assert.False(t, budget.IsExceeded())

	budget.ApplySpent(decimal.NewFromFloat(500.01))
	assert.True(t, budget.IsExceeded())
}

func TestBudget_Overshoot(t *testing.T) {
	budget := Budget{Limit: decimal.NewFromFloat(500.00)}

	budget.ApplySpent(decimal.NewFromFloat(450.00))
	assert.True(t, budget.Overshoot().IsZero())

	budget.ApplySpent(decimal.NewFromFloat(650.25))
	assert.True(t, decimal.NewFromFloat(150.25).Equal(budget.Overshoot()),
		"overshoot = %s", budget.Overshoot())
}

func TestIsValidBudgetPeriod(t *testing.T) {
	assert.True(t, IsValidBudgetPeriod(BudgetPeriodWeekly))
	assert.True(t, IsValidBudgetPeriod(BudgetPeriodMonthly))
	assert.True(t, IsValidBudgetPeriod(BudgetPeriodYearly))
	assert.True(t, IsValidBudgetPeriod(BudgetPeriodCustom))
	assert.False(t, IsValidBudgetPeriod(""))
	assert.False(t, IsValidBudgetPeriod("daily"))
	assert.False(t, IsValidBudgetPeriod("Monthly"))
}
