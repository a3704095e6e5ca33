package repositories

import (
	"errors"
	"fmt"

	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &transaction, nil
}

// GetByUserID retrieves a user's transactions with optional filters, newest first
func (r *transactionRepository) GetByUserID(userID uuid.UUID, filters TransactionFilters, offset, limit int) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", models.NormalizeCategory(filters.Category))
	}
	if filters.StartDate != nil {
		query = query.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("date <= ?", *filters.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if err := query.Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, total, nil
}

// Update updates a transaction
func (r *transactionRepository) Update(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	result := r.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(map[string]interface{}{
			"type":        transaction.Type,
			"category":    models.NormalizeCategory(transaction.Category),
			"amount":      transaction.Amount,
			"description": transaction.Description,
			"date":        transaction.Date,
			"updated_at":  transaction.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction owned by the given user
func (r *transactionRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// DeleteByUserID removes all transactions owned by the given user
func (r *transactionRepository) DeleteByUserID(userID uuid.UUID) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// SumExpensesByCategory totals a user's expense transactions in one category.
// Categories are normalized at write time, but the comparison goes through
// LOWER() so rows written before normalization still count.
func (r *transactionRepository) SumExpensesByCategory(userID uuid.UUID, category string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	if err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("user_id = ? AND LOWER(category) = ? AND type = ?",
			userID, models.NormalizeCategory(category), models.TransactionTypeExpense).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return result.Total, nil
}

// GetCategoryInsights retrieves totals grouped by category for one transaction type
func (r *transactionRepository) GetCategoryInsights(userID uuid.UUID, transactionType string) ([]models.CategoryInsight, error) {
	var insights []models.CategoryInsight

	query := `
		SELECT
			category,
			COALESCE(SUM(amount), 0) as total,
			COUNT(*) as count
		FROM transactions
		WHERE user_id = ?
			AND (? = '' OR type = ?)
		GROUP BY category
		ORDER BY total DESC
	`

	if err := r.db.Raw(query, userID, transactionType, transactionType).
		Scan(&insights).Error; err != nil {
		return nil, fmt.Errorf("failed to get category insights: %w", err)
	}

	return insights, nil
}

// GetLedgerSummary computes a user's overall income/expense totals and balance
func (r *transactionRepository) GetLedgerSummary(userID uuid.UUID) (*models.LedgerSummary, error) {
	var result struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
	}

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_income,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_expense
		FROM transactions
		WHERE user_id = ?
	`

	if err := r.db.Raw(query, models.TransactionTypeIncome, models.TransactionTypeExpense, userID).
		Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to get ledger summary: %w", err)
	}

	return &models.LedgerSummary{
		TotalIncome:  result.TotalIncome,
		TotalExpense: result.TotalExpense,
		Balance:      result.TotalIncome.Sub(result.TotalExpense),
	}, nil
}

// GetMonthlySpend retrieves expense totals bucketed by month, most recent first
func (r *transactionRepository) GetMonthlySpend(userID uuid.UUID, months int) ([]models.MonthlySpend, error) {
	var spend []models.MonthlySpend

	query := `
		SELECT
			strftime('%Y-%m', date) as month,
			COALESCE(SUM(amount), 0) as total
		FROM transactions
		WHERE user_id = ?
			AND type = ?
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?
	`

	if r.db.Dialector.Name() == "postgres" {
		query = `
		SELECT
			to_char(date, 'YYYY-MM') as month,
			COALESCE(SUM(amount), 0) as total
		FROM transactions
		WHERE user_id = ?
			AND type = ?
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?
	`
	}

	if err := r.db.Raw(query, userID, models.TransactionTypeExpense, months).
		Scan(&spend).Error; err != nil {
		return nil, fmt.Errorf("failed to get monthly spend: %w", err)
	}

	return spend, nil
}
