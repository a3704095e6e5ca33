package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

var ErrBudgetNotFound = errors.New("budget not found")

// BudgetService manages per-category budgets. A user holds at most one
// active budget per category; creating a new one supersedes the old.
type BudgetService struct {
	budgetRepo repositories.BudgetRepositoryInterface
	evaluator  BudgetEvaluatorInterface
	metrics    MetricsRecorderInterface
	logger     *slog.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	evaluator BudgetEvaluatorInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) BudgetServiceInterface {
	return &BudgetService{
		budgetRepo: budgetRepo,
		evaluator:  evaluator,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateBudget creates an active budget for a category, deactivating any
// previous active budget for the same category first
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error) {
	category := models.NormalizeCategory(req.Category)

	if existing, err := s.budgetRepo.GetActiveByUserAndCategory(userID, category); err == nil {
		if err := s.budgetRepo.Deactivate(existing.ID, userID); err != nil {
			return nil, fmt.Errorf("failed to supersede existing budget: %w", err)
		}
		s.logger.Info("Superseded previous budget",
			"budget_id", existing.ID,
			"user_id", userID,
			"category", category)
	} else if !errors.Is(err, repositories.ErrBudgetNotFound) {
		return nil, fmt.Errorf("failed to check for existing budget: %w", err)
	}

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Limit:    req.Limit,
		Period:   req.Period,
		EndDate:  req.EndDate,
		IsActive: true,
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}

	if err := s.budgetRepo.Create(budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	s.logger.Info("Budget created",
		"budget_id", budget.ID,
		"user_id", userID,
		"category", budget.Category,
		"limit", budget.Limit)
	s.recordOperation("create")

	// Backfill spent/remaining from transactions recorded before the budget existed
	s.reevaluate(ctx, userID, budget.Category)

	return s.refresh(budget)
}

// GetBudget fetches a single budget owned by the user
func (s *BudgetService) GetBudget(userID, budgetID uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(budgetID)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if budget.UserID != userID {
		return nil, ErrBudgetNotFound
	}

	return budget, nil
}

// ListBudgets returns all budgets belonging to the user
func (s *BudgetService) ListBudgets(userID uuid.UUID) ([]models.Budget, error) {
	budgets, err := s.budgetRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget applies partial changes and re-evaluates the derived totals
func (s *BudgetService) UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, req *dto.UpdateBudgetRequest) (*models.Budget, error) {
	budget, err := s.GetBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Limit != nil {
		budget.Limit = *req.Limit
	}
	if req.Period != nil {
		budget.Period = *req.Period
	}
	if req.EndDate != nil {
		budget.EndDate = req.EndDate
	}
	if req.IsActive != nil {
		budget.IsActive = *req.IsActive
	}
	budget.UpdatedAt = time.Now()

	if err := s.budgetRepo.Update(budget); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	s.logger.Info("Budget updated",
		"budget_id", budget.ID,
		"user_id", userID)
	s.recordOperation("update")

	// A new limit changes remaining and possibly the exceeded state
	if budget.IsActive {
		s.reevaluate(ctx, userID, budget.Category)
	}

	return s.refresh(budget)
}

// DeleteBudget removes a budget owned by the user
func (s *BudgetService) DeleteBudget(userID, budgetID uuid.UUID) error {
	if err := s.budgetRepo.Delete(budgetID, userID); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	s.logger.Info("Budget deleted",
		"budget_id", budgetID,
		"user_id", userID)
	s.recordOperation("delete")

	return nil
}

// refresh reloads a budget so the caller sees evaluator-written totals
func (s *BudgetService) refresh(budget *models.Budget) (*models.Budget, error) {
	fresh, err := s.budgetRepo.GetByID(budget.ID)
	if err != nil {
		// The stale copy is still correct apart from derived totals
		return budget, nil
	}
	return fresh, nil
}

// Non-critical: an evaluation failure shouldn't fail the budget write.
func (s *BudgetService) reevaluate(ctx context.Context, userID uuid.UUID, category string) {
	if err := s.evaluator.Evaluate(ctx, userID, category); err != nil {
		s.logger.Error("Budget evaluation failed after budget change",
			"user_id", userID,
			"category", category,
			"error", err)
	}
}

func (s *BudgetService) recordOperation(operation string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter("budget_operation", map[string]string{
		"operation": operation,
	})
}
