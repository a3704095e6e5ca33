package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/models"
	"budget-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// stubBudgetService implements services.BudgetServiceInterface
type stubBudgetService struct {
	createFn func(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error)
	getFn    func(userID, budgetID uuid.UUID) (*models.Budget, error)
	listFn   func(userID uuid.UUID) ([]models.Budget, error)
	updateFn func(ctx context.Context, userID, budgetID uuid.UUID, req *dto.UpdateBudgetRequest) (*models.Budget, error)
	deleteFn func(userID, budgetID uuid.UUID) error
}

func (s *stubBudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error) {
	return s.createFn(ctx, userID, req)
}

func (s *stubBudgetService) GetBudget(userID, budgetID uuid.UUID) (*models.Budget, error) {
	return s.getFn(userID, budgetID)
}

func (s *stubBudgetService) ListBudgets(userID uuid.UUID) ([]models.Budget, error) {
	return s.listFn(userID)
}

func (s *stubBudgetService) UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, req *dto.UpdateBudgetRequest) (*models.Budget, error) {
	return s.updateFn(ctx, userID, budgetID, req)
}

func (s *stubBudgetService) DeleteBudget(userID, budgetID uuid.UUID) error {
	return s.deleteFn(userID, budgetID)
}

func TestBudgetHandler(t *testing.T) {
	suite.Run(t, new(BudgetHandlerSuite))
}

type BudgetHandlerSuite struct {
	suite.Suite
	e      *echo.Echo
	userID uuid.UUID
}

func (s *BudgetHandlerSuite) SetupTest() {
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *BudgetHandlerSuite) newContext(method, path string, payload interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		s.Require().NoError(err)
		req = httptest.NewRequest(method, path, bytes.NewBuffer(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("user_id", s.userID)
	return c, rec
}

func (s *BudgetHandlerSuite) TestCreate() {
	s.Run("creates a budget with derived totals", func() {
		svc := &stubBudgetService{
			createFn: func(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error) {
				s.Equal(s.userID, userID)
				return &models.Budget{
					ID:        uuid.New(),
					UserID:    userID,
					Category:  "groceries",
					Limit:     req.Limit,
					Period:    "monthly",
					StartDate: time.Now(),
					IsActive:  true,
					Spent:     decimal.NewFromInt(2000),
					Remaining: decimal.NewFromInt(48000),
				}, nil
			},
		}
		handler := NewBudgetHandler(svc)

		c, rec := s.newContext(http.MethodPost, "/budgets", map[string]interface{}{
			"category": "Groceries",
			"limit":    "50000.00",
		})

		s.NoError(handler.Create(c))
		s.Equal(http.StatusCreated, rec.Code)

		var response SuccessResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		data, err := json.Marshal(response.Data)
		s.Require().NoError(err)

		var budget dto.BudgetResponse
		s.NoError(json.Unmarshal(data, &budget))
		s.Equal("groceries", budget.Category)
		s.True(budget.IsActive)
		s.False(budget.Exceeded)
		s.True(decimal.NewFromInt(2000).Equal(budget.Spent))
	})

	s.Run("rejects non-positive limit", func() {
		handler := NewBudgetHandler(&stubBudgetService{})

		c, _ := s.newContext(http.MethodPost, "/budgets", map[string]interface{}{
			"category": "groceries",
			"limit":    "0",
		})

		s.Error(handler.Create(c))
	})

	s.Run("rejects invalid period", func() {
		handler := NewBudgetHandler(&stubBudgetService{})

		c, _ := s.newContext(http.MethodPost, "/budgets", map[string]interface{}{
			"category": "groceries",
			"limit":    "50000.00",
			"period":   "fortnightly",
		})

		s.Error(handler.Create(c))
	})
}

func (s *BudgetHandlerSuite) TestList() {
	s.Run("returns all budgets", func() {
		svc := &stubBudgetService{
			listFn: func(userID uuid.UUID) ([]models.Budget, error) {
				return []models.Budget{
					{
						ID:        uuid.New(),
						UserID:    userID,
						Category:  "groceries",
						Limit:     decimal.NewFromInt(50000),
						Spent:     decimal.NewFromInt(55000),
						Remaining: decimal.Zero,
						IsActive:  true,
					},
					{
						ID:       uuid.New(),
						UserID:   userID,
						Category: "transport",
						Limit:    decimal.NewFromInt(20000),
						IsActive: false,
					},
				}, nil
			},
		}
		handler := NewBudgetHandler(svc)

		c, rec := s.newContext(http.MethodGet, "/budgets", nil)

		s.NoError(handler.List(c))
		s.Equal(http.StatusOK, rec.Code)

		var response dto.BudgetListResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal(2, response.Total)
		s.True(response.Budgets[0].Exceeded, "spent over limit should surface as exceeded")
		s.False(response.Budgets[1].Exceeded)
	})
}

func (s *BudgetHandlerSuite) TestGet() {
	s.Run("unknown budget returns 404", func() {
		svc := &stubBudgetService{
			getFn: func(userID, budgetID uuid.UUID) (*models.Budget, error) {
				return nil, services.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc)

		c, rec := s.newContext(http.MethodGet, "/budgets/x", nil)
		c.SetParamNames("id")
		c.SetParamValues(uuid.New().String())

		s.NoError(handler.Get(c))
		s.Equal(http.StatusNotFound, rec.Code)

		var errorResp errors.ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("BUDGET_001", errorResp.Error.Code)
	})

	s.Run("malformed ID returns 400", func() {
		handler := NewBudgetHandler(&stubBudgetService{})

		c, rec := s.newContext(http.MethodGet, "/budgets/not-a-uuid", nil)
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		s.NoError(handler.Get(c))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BudgetHandlerSuite) TestUpdate() {
	s.Run("raises the limit", func() {
		budgetID := uuid.New()
		newLimit := decimal.NewFromInt(80000)
		svc := &stubBudgetService{
			updateFn: func(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateBudgetRequest) (*models.Budget, error) {
				s.Require().NotNil(req.Limit)
				s.True(newLimit.Equal(*req.Limit))
				return &models.Budget{
					ID:        id,
					UserID:    userID,
					Category:  "groceries",
					Limit:     *req.Limit,
					Spent:     decimal.NewFromInt(55000),
					Remaining: decimal.NewFromInt(25000),
					IsActive:  true,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc)

		c, rec := s.newContext(http.MethodPut, "/budgets/"+budgetID.String(), map[string]interface{}{
			"limit": "80000",
		})
		c.SetParamNames("id")
		c.SetParamValues(budgetID.String())

		s.NoError(handler.Update(c))
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *BudgetHandlerSuite) TestDelete() {
	s.Run("deletes the budget", func() {
		budgetID := uuid.New()
		svc := &stubBudgetService{
			deleteFn: func(userID, id uuid.UUID) error {
				s.Equal(budgetID, id)
				return nil
			},
		}
		handler := NewBudgetHandler(svc)

		c, rec := s.newContext(http.MethodDelete, "/budgets/"+budgetID.String(), nil)
		c.SetParamNames("id")
		c.SetParamValues(budgetID.String())

		s.NoError(handler.Delete(c))
		s.Equal(http.StatusOK, rec.Code)
	})
}
