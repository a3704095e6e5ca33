package handlers

import (
	"net/http"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/models"
	"budget-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BudgetHandler handles per-category budget endpoints
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService services.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// Create sets a spending limit for a category
// @Summary Create a budget
// @Description Create an active budget for a category. Any previous active budget for the same category is superseded. Existing expenses count toward the new budget immediately.
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} SuccessResponse{data=dto.BudgetResponse}
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001 or BUDGET_002"
// @Router /budgets [post]
func (h *BudgetHandler) Create(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, &req)
	if err != nil {
		if err == models.ErrInvalidBudgetLimit {
			return SendError(c, errors.BudgetInvalidLimit)
		}
		if err == models.ErrInvalidBudgetPeriod {
			return SendError(c, errors.BudgetInvalidPeriod)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toBudgetResponse(budget),
		Message: "Budget created",
	})
}

// List returns all of the user's budgets
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.BudgetListResponse
// @Router /budgets [get]
func (h *BudgetHandler) List(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgets, err := h.budgetService.ListBudgets(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		items = append(items, toBudgetResponse(&budgets[i]))
	}

	return c.JSON(http.StatusOK, dto.BudgetListResponse{
		Budgets: items,
		Total:   len(items),
	})
}

// Get returns a single budget with its derived totals
// @Summary Get a budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse}
// @Failure 404 {object} errors.ErrorResponse "Not found - BUDGET_001"
// @Router /budgets/{id} [get]
func (h *BudgetHandler) Get(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	budget, err := h.budgetService.GetBudget(userID, budgetID)
	if err != nil {
		if err == services.ErrBudgetNotFound {
			return SendError(c, errors.BudgetNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toBudgetResponse(budget),
	})
}

// Update changes a budget's limit, period, or active flag
// @Summary Update a budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body dto.UpdateBudgetRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse}
// @Failure 404 {object} errors.ErrorResponse "Not found - BUDGET_001"
// @Router /budgets/{id} [put]
func (h *BudgetHandler) Update(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	var req dto.UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), userID, budgetID, &req)
	if err != nil {
		switch err {
		case services.ErrBudgetNotFound:
			return SendError(c, errors.BudgetNotFound)
		case models.ErrInvalidBudgetLimit:
			return SendError(c, errors.BudgetInvalidLimit)
		case models.ErrInvalidBudgetPeriod:
			return SendError(c, errors.BudgetInvalidPeriod)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toBudgetResponse(budget),
		Message: "Budget updated",
	})
}

// Delete removes a budget
// @Summary Delete a budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} errors.ErrorResponse "Not found - BUDGET_001"
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		if err == services.ErrBudgetNotFound {
			return SendError(c, errors.BudgetNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Budget deleted",
	})
}

func toBudgetResponse(b *models.Budget) dto.BudgetResponse {
	return dto.BudgetResponse{
		ID:        b.ID.String(),
		Category:  b.Category,
		Limit:     b.Limit,
		Period:    b.Period,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		IsActive:  b.IsActive,
		Spent:     b.Spent,
		Remaining: b.Remaining,
		Exceeded:  b.IsExceeded(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
