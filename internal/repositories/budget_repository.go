package repositories

import (
	"errors"
	"fmt"

	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrBudgetNotFound = errors.New("budget not found")

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{db: db}
}

// Create creates a new budget
func (r *budgetRepository) Create(budget *models.Budget) error {
	if budget == nil {
		return errors.New("budget cannot be nil")
	}

	if err := r.db.Create(budget).Error; err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// GetByID retrieves a budget by ID
func (r *budgetRepository) GetByID(id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.Where("id = ?", id).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &budget, nil
}

// GetByUserID retrieves all budgets for a user, newest first
func (r *budgetRepository) GetByUserID(userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}

	return budgets, nil
}

// GetActiveByUserAndCategory retrieves the active budget for a user and category.
// Categories are normalized at write time, but the comparison goes through
// LOWER() so rows written before normalization still match.
func (r *budgetRepository) GetActiveByUserAndCategory(userID uuid.UUID, category string) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.Where("user_id = ? AND LOWER(category) = ? AND is_active = ?",
		userID, models.NormalizeCategory(category), true).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get active budget: %w", err)
	}

	return &budget, nil
}

// Update updates a budget
func (r *budgetRepository) Update(budget *models.Budget) error {
	if budget == nil {
		return errors.New("budget cannot be nil")
	}

	if err := r.db.Save(budget).Error; err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	return nil
}

// UpdateDerivedTotals writes the recomputed spent/remaining pair in a single
// statement so concurrent evaluations never interleave the two columns.
func (r *budgetRepository) UpdateDerivedTotals(budgetID uuid.UUID, spent, remaining decimal.Decimal) error {
	result := r.db.Model(&models.Budget{}).
		Where("id = ? AND is_active = ?", budgetID, true).
		Updates(map[string]interface{}{
			"spent":     spent,
			"remaining": remaining,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update budget totals: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}

	return nil
}

// Deactivate marks a budget inactive without deleting its history
func (r *budgetRepository) Deactivate(id, userID uuid.UUID) error {
	result := r.db.Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}

	return nil
}

// Delete removes a budget owned by the given user
func (r *budgetRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}

	return nil
}
