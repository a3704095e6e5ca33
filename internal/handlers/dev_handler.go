package handlers

import (
	"net/http"
	"time"

	"budget-tracker/internal/errors"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints. These routes are registered
// only when the server runs in the development environment.
type DevHandler struct {
	transactionRepo repositories.TransactionRepositoryInterface
	evaluator       services.BudgetEvaluatorInterface
	generator       services.SampleDataGeneratorInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(
	transactionRepo repositories.TransactionRepositoryInterface,
	evaluator services.BudgetEvaluatorInterface,
) *DevHandler {
	return &DevHandler{
		transactionRepo: transactionRepo,
		evaluator:       evaluator,
		generator:       services.NewSampleDataGenerator(),
	}
}

// GenerateSampleData seeds the authenticated user's ledger with realistic
// transactions, then refreshes any budgets the new expenses count toward.
// @Summary Generate sample transactions
// @Description Development-only. Seeds the current user's ledger and re-evaluates affected budgets.
// @Tags Dev
// @Security BearerAuth
// @Produce json
// @Param count query int false "Number of transactions (default 100, max 1000)"
// @Param days query int false "Days of history (default 30, max 365)"
// @Success 200 {object} SuccessResponse
// @Router /dev/sample-data [post]
func (h *DevHandler) GenerateSampleData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	count := getIntParam(c, "count", 100)
	if count < 1 {
		count = 1
	}
	if count > 1000 {
		count = 1000
	}

	days := getIntParam(c, "days", 30)
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	transactions := h.generator.GenerateTransactions(userID, days, count)

	created := 0
	categories := make(map[string]struct{})
	for _, txn := range transactions {
		if err := h.transactionRepo.Create(txn); err != nil {
			continue
		}
		created++
		if txn.Type == models.TransactionTypeExpense {
			categories[txn.Category] = struct{}{}
		}
	}

	// Seeded expenses must show up in budget totals immediately
	ctx := c.Request().Context()
	for category := range categories {
		if err := h.evaluator.Evaluate(ctx, userID, category); err != nil {
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Sample data generated successfully",
		Data: map[string]interface{}{
			"transactions_created": created,
			"date_range": map[string]string{
				"start": time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339),
				"end":   time.Now().UTC().Format(time.RFC3339),
			},
		},
	})
}

// ClearSampleData removes every transaction owned by the authenticated user
// @Summary Clear all transactions
// @Description Development-only. Deletes the current user's entire ledger.
// @Tags Dev
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /dev/sample-data [delete]
func (h *DevHandler) ClearSampleData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	deleted, err := h.transactionRepo.DeleteByUserID(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Sample data cleared successfully",
		Data: map[string]interface{}{
			"transactions_deleted": deleted,
		},
	})
}
