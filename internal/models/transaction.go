package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"

	DefaultCategory = "others"

	MaxCategoryLength    = 50
	MaxDescriptionLength = 500
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("transaction amount must not be negative")
)

// Transaction is a single income or expense entry in a user's ledger.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string          `gorm:"type:varchar(10);not null" json:"type"`
	Category    string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.Date.IsZero() {
		t.Date = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	t.Category = NormalizeCategory(t.Category)
	if t.Category == "" {
		t.Category = DefaultCategory
	}

	return t.Validate()
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	t.UpdatedAt = time.Now()
	t.Category = NormalizeCategory(t.Category)
	return t.Validate()
}

func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}

	if len(t.Category) > MaxCategoryLength {
		return errors.New("category too long")
	}

	if len(t.Description) > MaxDescriptionLength {
		return errors.New("description too long")
	}

	return nil
}

// IsExpense reports whether this transaction counts against a budget.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

// NormalizeCategory maps a free-text category label to its canonical stored form.
// Categories are compared case-insensitively throughout; normalizing at write time
// keeps budget lookups and spend aggregation consistent with each other.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
