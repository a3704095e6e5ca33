package services

import (
	"time"

	"budget-tracker/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SampleDataGeneratorInterface produces realistic ledger entries for
// development environments.
type SampleDataGeneratorInterface interface {
	GenerateTransactions(userID uuid.UUID, days, count int) []*models.Transaction
}

type sampleCategory struct {
	name      string
	minAmount float64
	maxAmount float64
}

type sampleDataGenerator struct {
	faker      *gofakeit.Faker
	categories []sampleCategory
}

const (
	salaryIntervalDays = 14
	expenseShare       = 0.85
)

// NewSampleDataGenerator creates a generator backed by a randomly seeded faker
func NewSampleDataGenerator() SampleDataGeneratorInterface {
	return &sampleDataGenerator{
		faker: gofakeit.New(0),
		categories: []sampleCategory{
			{"groceries", 500, 25000},
			{"dining", 800, 15000},
			{"transport", 300, 8000},
			{"entertainment", 1000, 12000},
			{"utilities", 2000, 30000},
			{"shopping", 1500, 60000},
			{"healthcare", 1000, 40000},
			{"education", 5000, 50000},
			{"others", 500, 10000},
		},
	}
}

// GenerateTransactions produces a mixed set of income and expense entries
// spread over the trailing window. Salary deposits land every two weeks so
// summaries stay plausible.
func (g *sampleDataGenerator) GenerateTransactions(userID uuid.UUID, days, count int) []*models.Transaction {
	if count <= 0 {
		return []*models.Transaction{}
	}
	if days < 1 {
		days = 1
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	transactions := make([]*models.Transaction, 0, count)

	// Bi-weekly salary deposits anchor the window
	for payday := start.Add(salaryIntervalDays * 24 * time.Hour); payday.Before(end) && len(transactions) < count; payday = payday.Add(salaryIntervalDays * 24 * time.Hour) {
		transactions = append(transactions, &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Type:        models.TransactionTypeIncome,
			Category:    "salary",
			Amount:      decimal.NewFromFloat(g.faker.Price(150000, 600000)).Round(2),
			Description: "Salary - " + g.faker.Company(),
			Date:        time.Date(payday.Year(), payday.Month(), payday.Day(), 9, 0, 0, 0, time.UTC),
		})
	}

	for len(transactions) < count {
		transactions = append(transactions, g.randomEntry(userID, start, end))
	}

	return transactions
}

func (g *sampleDataGenerator) randomEntry(userID uuid.UUID, start, end time.Time) *models.Transaction {
	date := g.randomTimestamp(start, end)

	if g.faker.Float64Range(0, 1) > expenseShare {
		return &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Type:        models.TransactionTypeIncome,
			Category:    "freelance",
			Amount:      decimal.NewFromFloat(g.faker.Price(5000, 100000)).Round(2),
			Description: g.faker.JobTitle() + " work for " + g.faker.Company(),
			Date:        date,
		}
	}

	category := g.categories[g.faker.IntRange(0, len(g.categories)-1)]
	return &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        models.TransactionTypeExpense,
		Category:    category.name,
		Amount:      decimal.NewFromFloat(g.faker.Price(category.minAmount, category.maxAmount)).Round(2),
		Description: category.name + " at " + g.faker.Company(),
		Date:        date,
	}
}

func (g *sampleDataGenerator) randomTimestamp(start, end time.Time) time.Time {
	window := end.Sub(start)
	offset := time.Duration(g.faker.IntRange(0, int(window/time.Minute))) * time.Minute
	ts := start.Add(offset)

	// Keep activity inside waking hours
	hour := g.faker.IntRange(7, 22)
	return time.Date(ts.Year(), ts.Month(), ts.Day(), hour, g.faker.IntRange(0, 59), g.faker.IntRange(0, 59), 0, time.UTC)
}
