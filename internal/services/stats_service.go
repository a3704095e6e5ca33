package services

import (
	"errors"
	"fmt"

	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

const (
	defaultInsightMonths = 6
	maxInsightMonths     = 24
)

// StatsService aggregates ledger data into spending insights
type StatsService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
}

// NewStatsService creates a new stats service
func NewStatsService(
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
) StatsServiceInterface {
	return &StatsService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
	}
}

// GetCategoryInsights returns per-category totals, optionally filtered by type
func (s *StatsService) GetCategoryInsights(userID uuid.UUID, transactionType string) ([]models.CategoryInsight, error) {
	if transactionType != "" && !models.IsValidTransactionType(transactionType) {
		return nil, models.ErrInvalidTransactionType
	}

	insights, err := s.transactionRepo.GetCategoryInsights(userID, transactionType)
	if err != nil {
		return nil, fmt.Errorf("failed to get category insights: %w", err)
	}

	return insights, nil
}

// GetLedgerSummary returns overall income/expense totals with the user's currency
func (s *StatsService) GetLedgerSummary(userID uuid.UUID) (*models.LedgerSummary, string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", repositories.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	summary, err := s.transactionRepo.GetLedgerSummary(userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get ledger summary: %w", err)
	}

	return summary, user.Currency, nil
}

// GetMonthlySpend returns per-month expense totals for the trailing window
func (s *StatsService) GetMonthlySpend(userID uuid.UUID, months int) ([]models.MonthlySpend, error) {
	if months < 1 {
		months = defaultInsightMonths
	}
	if months > maxInsightMonths {
		months = maxInsightMonths
	}

	spend, err := s.transactionRepo.GetMonthlySpend(userID, months)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly spend: %w", err)
	}

	return spend, nil
}
