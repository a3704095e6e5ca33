package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BudgetPeriodWeekly  = "weekly"
	BudgetPeriodMonthly = "monthly"
	BudgetPeriodYearly  = "yearly"
	BudgetPeriodCustom  = "custom"
)

var (
	ErrInvalidBudgetPeriod = errors.New("invalid budget period")
	ErrInvalidBudgetLimit  = errors.New("budget limit must be positive")
)

// Budget is a per-user, per-category spending limit. Spent and Remaining are
// derived fields owned by the evaluator; they are never authored directly.
type Budget struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_user_category" json:"user_id"`
	Category  string          `gorm:"type:varchar(50);not null;index:idx_budgets_user_category" json:"category"`
	Limit     decimal.Decimal `gorm:"column:limit_amount;type:decimal(15,2);not null" json:"limit"`
	Period    string          `gorm:"type:varchar(10);not null;default:'monthly'" json:"period"`
	StartDate time.Time       `gorm:"not null" json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	IsActive  bool            `gorm:"not null;default:true;index" json:"is_active"`
	Spent     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"spent"`
	Remaining decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"remaining"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.StartDate.IsZero() {
		b.StartDate = now
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	if b.Period == "" {
		b.Period = BudgetPeriodMonthly
	}

	b.Category = NormalizeCategory(b.Category)
	if b.Spent.IsZero() {
		b.Remaining = b.Limit
	}

	return b.Validate()
}

func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	b.UpdatedAt = time.Now()
	b.Category = NormalizeCategory(b.Category)
	return b.Validate()
}

func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if b.Category == "" {
		return errors.New("category is required")
	}

	if len(b.Category) > MaxCategoryLength {
		return errors.New("category too long")
	}

	if !IsValidBudgetPeriod(b.Period) {
		return ErrInvalidBudgetPeriod
	}

	if b.Limit.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBudgetLimit
	}

	return nil
}

// ApplySpent recomputes the derived fields from a spend total.
// Remaining is clamped at zero; overshoot is reported separately.
func (b *Budget) ApplySpent(spent decimal.Decimal) {
	b.Spent = spent
	b.Remaining = decimal.Max(decimal.Zero, b.Limit.Sub(spent))
}

// IsExceeded reports whether cumulative spend is strictly over the limit.
func (b *Budget) IsExceeded() bool {
	return b.Spent.GreaterThan(b.Limit)
}

// Overshoot returns the amount by which spend exceeds the limit, rounded to
// two decimal places for currency display. Zero when not exceeded.
func (b *Budget) Overshoot() decimal.Decimal {
	if !b.IsExceeded() {
		return decimal.Zero
	}
	return b.Spent.Sub(b.Limit).Round(2)
}

func (b *Budget) TableName() string {
	return "budgets"
}

// IsValidBudgetPeriod checks if the budget period is valid
func IsValidBudgetPeriod(period string) bool {
	switch period {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly, BudgetPeriodCustom:
		return true
	default:
		return false
	}
}
