package repositories

import (
	"time"

	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByResetTokenHash(tokenHash string) (*models.User, error)
	Update(user *models.User) error
	UpdateFields(userID uuid.UUID, fields map[string]interface{}) error
	UpdatePasswordHash(userID uuid.UUID, passwordHash string) error
	UpdateFailedLoginAttempts(user *models.User) error
	ResetFailedLoginAttempts(userID uuid.UUID) error
	Delete(userID uuid.UUID) error
}

// TransactionFilters narrows transaction listings
type TransactionFilters struct {
	Type      string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetByUserID(userID uuid.UUID, filters TransactionFilters, offset, limit int) ([]models.Transaction, int64, error)
	Update(transaction *models.Transaction) error
	Delete(id, userID uuid.UUID) error
	DeleteByUserID(userID uuid.UUID) (int64, error)
	SumExpensesByCategory(userID uuid.UUID, category string) (decimal.Decimal, error)
	GetCategoryInsights(userID uuid.UUID, transactionType string) ([]models.CategoryInsight, error)
	GetLedgerSummary(userID uuid.UUID) (*models.LedgerSummary, error)
	GetMonthlySpend(userID uuid.UUID, months int) ([]models.MonthlySpend, error)
}

// BudgetRepositoryInterface defines the contract for budget repository operations
type BudgetRepositoryInterface interface {
	Create(budget *models.Budget) error
	GetByID(id uuid.UUID) (*models.Budget, error)
	GetByUserID(userID uuid.UUID) ([]models.Budget, error)
	GetActiveByUserAndCategory(userID uuid.UUID, category string) (*models.Budget, error)
	Update(budget *models.Budget) error
	UpdateDerivedTotals(budgetID uuid.UUID, spent, remaining decimal.Decimal) error
	Deactivate(id, userID uuid.UUID) error
	Delete(id, userID uuid.UUID) error
}

// NotificationRepositoryInterface defines the contract for notification repository operations
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	GetByUserID(userID uuid.UUID, offset, limit int) ([]models.Notification, int64, error)
	CountUnread(userID uuid.UUID) (int64, error)
	MarkRead(id, userID uuid.UUID) error
	MarkAllRead(userID uuid.UUID) error
	DeleteOlderThan(duration time.Duration) (int64, error)
}

type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	GetActiveByUserID(userID uuid.UUID) ([]*models.RefreshToken, error)
	Update(token *models.RefreshToken) error
	Revoke(tokenID uuid.UUID) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}
