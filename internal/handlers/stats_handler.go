package handlers

import (
	"net/http"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/models"
	"budget-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// StatsHandler handles spending insight endpoints
type StatsHandler struct {
	statsService services.StatsServiceInterface
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService services.StatsServiceInterface) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// CategoryInsights returns per-category totals
// @Summary Per-category spending breakdown
// @Tags Stats
// @Security BearerAuth
// @Produce json
// @Param type query string false "Filter by type (income, expense); defaults to expense"
// @Success 200 {object} SuccessResponse{data=[]dto.CategoryInsightResponse}
// @Router /stats/categories [get]
func (h *StatsHandler) CategoryInsights(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionType := c.QueryParam("type")
	if transactionType == "" {
		transactionType = models.TransactionTypeExpense
	}

	insights, err := h.statsService.GetCategoryInsights(userID, transactionType)
	if err != nil {
		if err == models.ErrInvalidTransactionType {
			return SendError(c, errors.TransactionInvalidType)
		}
		return SendSystemError(c, err)
	}

	items := make([]dto.CategoryInsightResponse, 0, len(insights))
	for _, insight := range insights {
		items = append(items, dto.CategoryInsightResponse{
			Category: insight.Category,
			Total:    insight.Total,
			Count:    insight.Count,
		})
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: items,
	})
}

// Summary returns overall income/expense totals and balance
// @Summary Ledger summary
// @Tags Stats
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.LedgerSummaryResponse}
// @Router /stats/summary [get]
func (h *StatsHandler) Summary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	summary, currency, err := h.statsService.GetLedgerSummary(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.LedgerSummaryResponse{
			TotalIncome:  summary.TotalIncome,
			TotalExpense: summary.TotalExpense,
			Balance:      summary.Balance,
			Currency:     currency,
		},
	})
}

// MonthlySpend returns expense totals bucketed by month
// @Summary Monthly spending stats
// @Tags Stats
// @Security BearerAuth
// @Produce json
// @Param months query int false "Trailing window in months (default 6, max 24)"
// @Success 200 {object} SuccessResponse{data=[]dto.MonthlySpendResponse}
// @Router /stats/monthly [get]
func (h *StatsHandler) MonthlySpend(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	months := getIntParam(c, "months", 6)

	spend, err := h.statsService.GetMonthlySpend(userID, months)
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.MonthlySpendResponse, 0, len(spend))
	for _, bucket := range spend {
		items = append(items, dto.MonthlySpendResponse{
			Month: bucket.Month,
			Total: bucket.Total,
		})
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: items,
	})
}
