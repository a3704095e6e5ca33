package repositories

import (
	"testing"

	"budget-tracker/internal/database"
	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestTransactionRepository(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

type TransactionRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo TransactionRepositoryInterface
	user *models.User
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "tx@example.com")
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *TransactionRepositorySuite) TestTransactionRepository_Create_NormalizesCategory() {
	tx := &models.Transaction{
		UserID:   s.user.ID,
		Type:     models.TransactionTypeExpense,
		Category: "  Food  ",
		Amount:   decimal.NewFromInt(100),
	}

	err := s.repo.Create(tx)
	s.NoError(err)
	s.NotEqual(uuid.Nil, tx.ID)
	s.Equal("food", tx.Category)
	s.False(tx.Date.IsZero())
}

func (s *TransactionRepositorySuite) TestTransactionRepository_GetByUserID_Filters() {
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 100)
	database.CreateTestExpense(s.T(), s.db, s.user, "transport", 50)
	database.CreateTestIncome(s.T(), s.db, s.user, "salary", 1000)

	all, total, err := s.repo.GetByUserID(s.user.ID, TransactionFilters{}, 0, 10)
	s.NoError(err)
	s.Equal(int64(3), total)
	s.Len(all, 3)

	expenses, total, err := s.repo.GetByUserID(s.user.ID, TransactionFilters{Type: models.TransactionTypeExpense}, 0, 10)
	s.NoError(err)
	s.Equal(int64(2), total)
	s.Len(expenses, 2)

	// Category filter is normalized before matching
	food, total, err := s.repo.GetByUserID(s.user.ID, TransactionFilters{Category: "Food"}, 0, 10)
	s.NoError(err)
	s.Equal(int64(1), total)
	s.Len(food, 1)
	s.Equal("food", food[0].Category)
}

func (s *TransactionRepositorySuite) TestTransactionRepository_SumExpensesByCategory() {
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 2000)
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 3500)
	// Income and other categories must not count toward spend
	database.CreateTestIncome(s.T(), s.db, s.user, "food", 9999)
	database.CreateTestExpense(s.T(), s.db, s.user, "transport", 700)

	sum, err := s.repo.SumExpensesByCategory(s.user.ID, "food")
	s.NoError(err)
	s.True(sum.Equal(decimal.NewFromInt(5500)), "expected 5500, got %s", sum)
}

func (s *TransactionRepositorySuite) TestTransactionRepository_SumExpensesByCategory_CaseInsensitive() {
	database.CreateTestExpense(s.T(), s.db, s.user, "Food", 2000)

	sum, err := s.repo.SumExpensesByCategory(s.user.ID, "FOOD")
	s.NoError(err)
	s.True(sum.Equal(decimal.NewFromInt(2000)), "expected 2000, got %s", sum)
}

func (s *TransactionRepositorySuite) TestTransactionRepository_SumExpensesByCategory_MixedCaseRow() {
	tx := database.CreateTestExpense(s.T(), s.db, s.user, "food", 6000)

	// Rows written before category normalization existed are stored as-is;
	// rewrite the column directly so the gorm hooks cannot renormalize it.
	s.NoError(s.db.DB.Exec("UPDATE transactions SET category = ? WHERE id = ?", "Food", tx.ID).Error)

	sum, err := s.repo.SumExpensesByCategory(s.user.ID, "food")
	s.NoError(err)
	s.True(sum.Equal(decimal.NewFromInt(6000)), "expected 6000, got %s", sum)
}

func (s *TransactionRepositorySuite) TestTransactionRepository_SumExpensesByCategory_Empty() {
	sum, err := s.repo.SumExpensesByCategory(s.user.ID, "food")
	s.NoError(err)
	s.True(sum.IsZero())
}

func (s *TransactionRepositorySuite) TestTransactionRepository_SumExpensesByCategory_IsolatedPerUser() {
	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	database.CreateTestExpense(s.T(), s.db, other, "food", 4000)
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 1000)

	sum, err := s.repo.SumExpensesByCategory(s.user.ID, "food")
	s.NoError(err)
	s.True(sum.Equal(decimal.NewFromInt(1000)), "expected 1000, got %s", sum)
}

func (s *TransactionRepositorySuite) TestTransactionRepository_GetCategoryInsights() {
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 2000)
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 1000)
	database.CreateTestExpense(s.T(), s.db, s.user, "transport", 500)

	insights, err := s.repo.GetCategoryInsights(s.user.ID, models.TransactionTypeExpense)
	s.NoError(err)
	s.Len(insights, 2)
	s.Equal("food", insights[0].Category)
	s.True(insights[0].Total.Equal(decimal.NewFromInt(3000)))
	s.Equal(int64(2), insights[0].Count)
}

func (s *TransactionRepositorySuite) TestTransactionRepository_GetLedgerSummary() {
	database.CreateTestIncome(s.T(), s.db, s.user, "salary", 5000)
	database.CreateTestExpense(s.T(), s.db, s.user, "food", 1200)

	summary, err := s.repo.GetLedgerSummary(s.user.ID)
	s.NoError(err)
	s.True(summary.TotalIncome.Equal(decimal.NewFromInt(5000)))
	s.True(summary.TotalExpense.Equal(decimal.NewFromInt(1200)))
	s.True(summary.Balance.Equal(decimal.NewFromInt(3800)))
}

func (s *TransactionRepositorySuite) TestTransactionRepository_Delete() {
	tx := database.CreateTestExpense(s.T(), s.db, s.user, "food", 100)

	// Deleting with the wrong owner must not remove the row
	err := s.repo.Delete(tx.ID, uuid.New())
	s.Equal(ErrTransactionNotFound, err)

	err = s.repo.Delete(tx.ID, s.user.ID)
	s.NoError(err)

	_, err = s.repo.GetByID(tx.ID)
	s.Equal(ErrTransactionNotFound, err)
}
