package services

import (
	"testing"

	"budget-tracker/internal/database"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StatsServiceSuite struct {
	suite.Suite
	db      *database.DB
	service StatsServiceInterface
	user    *models.User
}

func (s *StatsServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.service = NewStatsService(
		repositories.NewTransactionRepository(s.db.DB),
		repositories.NewUserRepository(s.db.DB),
	)
	s.user = database.CreateTestUser(s.T(), s.db, "stats@example.com")
}

func (s *StatsServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *StatsServiceSuite) TestGetCategoryInsights() {
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 1200)
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 800)
	database.CreateTestExpense(s.T(), s.db, s.user, "transport", 500)
	database.CreateTestIncome(s.T(), s.db, s.user, "salary", 250000)

	insights, err := s.service.GetCategoryInsights(s.user.ID, models.TransactionTypeExpense)
	s.Require().NoError(err)
	s.Require().Len(insights, 2)

	// Ordered by total, largest first
	s.Equal("food", insights[0].Category)
	s.True(insights[0].Total.Equal(decimal.NewFromInt(2000)))
	s.Equal(int64(2), insights[0].Count)
	s.Equal("transport", insights[1].Category)
}

func (s *StatsServiceSuite) TestGetCategoryInsights_InvalidType() {
	_, err := s.service.GetCategoryInsights(s.user.ID, "transfer")
	s.ErrorIs(err, models.ErrInvalidTransactionType)
}

func (s *StatsServiceSuite) TestGetLedgerSummary() {
	database.CreateTestIncome(s.T(), s.db, s.user, "salary", 250000)
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 40000)

	summary, currency, err := s.service.GetLedgerSummary(s.user.ID)
	s.Require().NoError(err)

	s.Equal(models.DefaultCurrency, currency)
	s.True(summary.TotalIncome.Equal(decimal.NewFromInt(250000)))
	s.True(summary.TotalExpense.Equal(decimal.NewFromInt(40000)))
	s.True(summary.Balance.Equal(decimal.NewFromInt(210000)))
}

func (s *StatsServiceSuite) TestGetMonthlySpend_ClampsWindow() {
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 1000)

	spend, err := s.service.GetMonthlySpend(s.user.ID, 0)
	s.Require().NoError(err)
	s.NotEmpty(spend)

	_, err = s.service.GetMonthlySpend(s.user.ID, 500)
	s.NoError(err)
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}
