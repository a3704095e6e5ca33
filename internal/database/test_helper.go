package database

import (
	"fmt"
	"testing"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleCustomer,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

func CreateTestAdminUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		FirstName:    "Admin",
		LastName:     "User",
		Role:         models.RoleAdmin,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test admin user: %v", err)
	}

	return user
}

func CreateTestBudget(t *testing.T, db *DB, user *models.User, category string, limit float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:    user.ID,
		Category:  category,
		Limit:     decimal.NewFromFloat(limit),
		Period:    models.BudgetPeriodMonthly,
		StartDate: time.Now().UTC().AddDate(0, 0, -1),
		IsActive:  true,
	}

	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}

	return budget
}

func CreateTestExpense(t *testing.T, db *DB, user *models.User, category string, amount float64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      user.ID,
		Type:        models.TransactionTypeExpense,
		Category:    category,
		Amount:      decimal.NewFromFloat(amount),
		Description: "test expense",
		Date:        time.Now().UTC(),
	}

	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return tx
}

func CreateTestIncome(t *testing.T, db *DB, user *models.User, category string, amount float64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   user.ID,
		Type:     models.TransactionTypeIncome,
		Category: category,
		Amount:   decimal.NewFromFloat(amount),
		Date:     time.Now().UTC(),
	}

	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return tx
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"notifications",
		"budgets",
		"transactions",
		"blacklisted_tokens",
		"refresh_tokens",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
