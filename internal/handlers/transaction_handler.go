package handlers

import (
	"net/http"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction (ledger) endpoints
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Create records a new income or expense entry
// @Summary Record a transaction
// @Description Add an income or expense entry to the authenticated user's ledger. Expense entries trigger a budget re-evaluation for the category.
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, &req)
	if err != nil {
		if err == models.ErrInvalidTransactionType {
			return SendError(c, errors.TransactionInvalidType)
		}
		if err == models.ErrInvalidAmount {
			return SendError(c, errors.TransactionInvalidAmount)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toTransactionResponse(transaction),
		Message: "Transaction recorded",
	})
}

// List returns the user's ledger, filtered and paginated
// @Summary List transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param type query string false "Filter by type (income, expense)"
// @Param category query string false "Filter by category"
// @Param startDate query string false "Earliest date (2006-01-02)"
// @Param endDate query string false "Latest date (2006-01-02)"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.TransactionListResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ListTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	filters := repositories.TransactionFilters{
		Type:     req.Type,
		Category: req.Category,
	}
	if req.StartDate != "" {
		start, parseErr := time.Parse("2006-01-02", req.StartDate)
		if parseErr != nil {
			return SendError(c, errors.ValidationInvalidDate)
		}
		filters.StartDate = &start
	}
	if req.EndDate != "" {
		end, parseErr := time.Parse("2006-01-02", req.EndDate)
		if parseErr != nil {
			return SendError(c, errors.ValidationInvalidDate)
		}
		// Include the whole end day
		end = end.Add(24*time.Hour - time.Nanosecond)
		filters.EndDate = &end
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}

	transactions, total, err := h.transactionService.ListTransactions(userID, filters, page, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, toTransactionResponse(&transactions[i]))
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: items,
		Total:        total,
		Page:         page,
		Limit:        limit,
	})
}

// Get returns a single transaction
// @Summary Get a transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 404 {object} errors.ErrorResponse "Not found - TRANSACTION_001"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		if err == services.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toTransactionResponse(transaction),
	})
}

// Update applies partial changes to a transaction
// @Summary Update a transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 404 {object} errors.ErrorResponse "Not found - TRANSACTION_001"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, transactionID, &req)
	if err != nil {
		if err == services.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		if err == models.ErrInvalidTransactionType {
			return SendError(c, errors.TransactionInvalidType)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toTransactionResponse(transaction),
		Message: "Transaction updated",
	})
}

// Delete removes a transaction
// @Summary Delete a transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} errors.ErrorResponse "Not found - TRANSACTION_001"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, transactionID); err != nil {
		if err == services.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Transaction deleted",
	})
}

func toTransactionResponse(t *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID.String(),
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}
