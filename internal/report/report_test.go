package report_test

import (
	"strings"
	"testing"
	"time"

	"spendlens/internal/models"
	"spendlens/internal/report"
	"spendlens/internal/settings"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(category string, amount float64, day int) models.Transaction {
	return models.Transaction{
		ID:       models.NewTransactionID(),
		Date:     time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromFloat(amount),
		Category: category,
	}
}

func TestGenerate_TotalsAndOrdering(t *testing.T) {
	txns := []models.Transaction{
		txn(models.CategoryGroceries, 120.00, 3),
		txn(models.CategoryGroceries, 80.00, 10),
		txn(models.CategoryRestaurants, 45.50, 5),
		txn("", 12.00, 7),
	}

	rep := report.Generate(txns, settings.Default())
	assert.Equal(t, 4, rep.Count)
	assert.True(t, rep.Total.Equal(decimal.NewFromFloat(257.50)))
	assert.True(t, rep.From.Equal(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rep.To.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))

	require.Len(t, rep.Categories, 3)
	assert.Equal(t, models.CategoryGroceries, rep.Categories[0].CategoryID, "largest spend first")
	assert.True(t, rep.Categories[0].Total.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, models.CategoryRestaurants, rep.Categories[1].CategoryID)
	assert.Equal(t, models.CategoryUncategorized, rep.Categories[2].CategoryID, "uncategorized sorts last")
}

func TestGenerate_BudgetRemaining(t *testing.T) {
	cfg := settings.Default()
	cfg.Budgets[models.CategoryGroceries] = decimal.NewFromInt(300)

	rep := report.Generate([]models.Transaction{
		txn(models.CategoryGroceries, 220.00, 3),
	}, cfg)

	require.Len(t, rep.Categories, 1)
	summary := rep.Categories[0]
	assert.True(t, summary.HasBudget)
	assert.True(t, summary.Budget.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.Remaining.Equal(decimal.NewFromInt(80)))
}

func TestGenerate_RenamedCategoryDisplayName(t *testing.T) {
	cfg := settings.Default()
	cfg.CategoryOverrides = []models.CategoryOverride{
		{CategoryID: models.CategoryShopping, Name: "Retail Therapy"},
	}

	rep := report.Generate([]models.Transaction{
		txn(models.CategoryShopping, 60.00, 3),
	}, cfg)

	require.Len(t, rep.Categories, 1)
	assert.Equal(t, "Retail Therapy", rep.Categories[0].Name)
}

func TestGenerate_Empty(t *testing.T) {
	rep := report.Generate(nil, settings.Default())
	assert.Zero(t, rep.Count)
	assert.Empty(t, rep.Categories)
}

func TestWrite_Table(t *testing.T) {
	cfg := settings.Default()
	cfg.Budgets[models.CategoryGroceries] = decimal.NewFromInt(300)
	rep := report.Generate([]models.Transaction{
		txn(models.CategoryGroceries, 220.00, 3),
		txn(models.CategoryRestaurants, 45.50, 5),
	}, cfg)

	var buf strings.Builder
	require.NoError(t, report.Write(&buf, rep, "USD"))

	out := buf.String()
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "220.00 USD")
	assert.Contains(t, out, "80.00 USD")
	assert.Contains(t, out, "Restaurants")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "265.50 USD")
}
