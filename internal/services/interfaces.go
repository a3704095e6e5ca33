package services

import (
	"context"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetEvaluatorInterface recomputes a budget's derived totals after the
// underlying transactions change, and dispatches overshoot alerts.
type BudgetEvaluatorInterface interface {
	// Evaluate recomputes spent/remaining for the active budget matching the
	// user and category. It is a no-op when no active budget exists, and it
	// never returns an error for notification failures.
	Evaluate(ctx context.Context, userID uuid.UUID, category string) error
}

// NotifierInterface delivers user-facing messages over an outbound channel
type NotifierInterface interface {
	SendBudgetAlert(ctx context.Context, user *models.User, budget *models.Budget, overshoot decimal.Decimal) error
	SendPasswordReset(ctx context.Context, user *models.User, resetToken string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*models.User, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshTokens(refreshToken string) (*dto.TokenResponse, error)
	Logout(accessToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(token, newPassword string) error
}

type UserProfileServiceInterface interface {
	GetProfile(userID uuid.UUID) (*models.User, error)
	UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error)
	DeleteAccount(userID uuid.UUID) error
}

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error)
	ListTransactions(userID uuid.UUID, filters repositories.TransactionFilters, page, limit int) ([]models.Transaction, int64, error)
	UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error
}

type BudgetServiceInterface interface {
	CreateBudget(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error)
	GetBudget(userID, budgetID uuid.UUID) (*models.Budget, error)
	ListBudgets(userID uuid.UUID) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, req *dto.UpdateBudgetRequest) (*models.Budget, error)
	DeleteBudget(userID, budgetID uuid.UUID) error
}

type StatsServiceInterface interface {
	GetCategoryInsights(userID uuid.UUID, transactionType string) ([]models.CategoryInsight, error)
	GetLedgerSummary(userID uuid.UUID) (*models.LedgerSummary, string, error)
	GetMonthlySpend(userID uuid.UUID, months int) ([]models.MonthlySpend, error)
}

type NotificationServiceInterface interface {
	ListNotifications(userID uuid.UUID, page, limit int) ([]models.Notification, int64, int64, error)
	MarkRead(userID, notificationID uuid.UUID) error
	MarkAllRead(userID uuid.UUID) error
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(hashedPassword, password string) error
	GenerateResetToken() (token, tokenHash string, err error)
	HashResetToken(token string) string
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
