package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionService handles the ledger of income and expense entries.
// Every mutation re-evaluates the budgets it touches.
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	evaluator       BudgetEvaluatorInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	evaluator BudgetEvaluatorInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &TransactionService{
		transactionRepo: transactionRepo,
		evaluator:       evaluator,
		metrics:         metrics,
		logger:          logger,
	}
}

// CreateTransaction records a new ledger entry and re-evaluates the affected budget
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	transaction := &models.Transaction{
		UserID:      userID,
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		transaction.Date = *req.Date
	}

	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("Transaction recorded",
		"transaction_id", transaction.ID,
		"user_id", userID,
		"type", transaction.Type,
		"category", transaction.Category,
		"amount", transaction.Amount)
	if s.metrics != nil {
		s.metrics.IncrementCounter("transaction_recorded", map[string]string{
			"type": transaction.Type,
		})
	}

	s.reevaluate(ctx, userID, transaction.Category)

	return transaction, nil
}

// GetTransaction fetches a single transaction owned by the user
func (s *TransactionService) GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	// Ownership check; a foreign ID behaves exactly like a missing one
	if transaction.UserID != userID {
		return nil, ErrTransactionNotFound
	}

	return transaction, nil
}

// ListTransactions returns a filtered, paginated slice of the user's ledger
func (s *TransactionService) ListTransactions(userID uuid.UUID, filters repositories.TransactionFilters, page, limit int) ([]models.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	transactions, total, err := s.transactionRepo.GetByUserID(userID, filters, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// UpdateTransaction applies partial changes and re-evaluates every affected budget
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error) {
	transaction, err := s.GetTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}

	// A category change moves spend between two budgets; both need refreshing
	previousCategory := transaction.Category

	if req.Type != nil {
		transaction.Type = *req.Type
	}
	if req.Category != nil {
		transaction.Category = models.NormalizeCategory(*req.Category)
	}
	if req.Amount != nil {
		transaction.Amount = *req.Amount
	}
	if req.Description != nil {
		transaction.Description = *req.Description
	}
	if req.Date != nil {
		transaction.Date = *req.Date
	}

	if err := s.transactionRepo.Update(transaction); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.logger.Info("Transaction updated",
		"transaction_id", transaction.ID,
		"user_id", userID)

	s.reevaluate(ctx, userID, transaction.Category)
	if previousCategory != transaction.Category {
		s.reevaluate(ctx, userID, previousCategory)
	}

	return transaction, nil
}

// DeleteTransaction removes a ledger entry and re-evaluates its budget
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error {
	transaction, err := s.GetTransaction(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(transactionID, userID); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.logger.Info("Transaction deleted",
		"transaction_id", transactionID,
		"user_id", userID)

	s.reevaluate(ctx, userID, transaction.Category)

	return nil
}

// reevaluate refreshes the derived budget totals for a category.
// Non-critical: an evaluation failure shouldn't fail the ledger write.
func (s *TransactionService) reevaluate(ctx context.Context, userID uuid.UUID, category string) {
	if err := s.evaluator.Evaluate(ctx, userID, category); err != nil {
		s.logger.Error("Budget evaluation failed after transaction change",
			"user_id", userID,
			"category", category,
			"error", err)
	}
}
