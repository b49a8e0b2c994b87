package categorizer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendlens/internal/categorizer"
	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/textutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(description string, amount float64) models.Transaction {
	return models.Transaction{
		ID:           models.NewTransactionID(),
		Date:         time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		PurchaseDate: time.Date(2026, 1, 4, 19, 30, 0, 0, time.UTC),
		Description:  description,
		Amount:       decimal.NewFromFloat(amount),
		Merchant:     textutils.NormalizeMerchant(description),
		Category:     models.CategoryUncategorized,
	}
}

func TestCategorize_BuiltinRules(t *testing.T) {
	c := categorizer.New(nil, nil, nil, nil, logging.NewMockLogger())

	tests := []struct {
		description string
		expected    string
	}{
		{"NETFLIX.COM 888-638-3549", models.CategoryEntertainment},
		{"STARBUCKS #4521", models.CategoryRestaurants},
		{"WHOLE FOODS MARKET", models.CategoryGroceries},
		{"SHELL OIL #57", models.CategoryTransport},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			result := c.Categorize(context.Background(), txn(tt.description, 20))
			assert.Equal(t, tt.expected, result.CategoryID)
			assert.Equal(t, categorizer.StageBuiltin, result.Stage)
		})
	}
}

func TestCategorize_FallbackUncategorized(t *testing.T) {
	c := categorizer.New(nil, nil, nil, nil, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("COMPLETELY UNKNOWN MERCHANT XQZ", 12))
	assert.Equal(t, models.CategoryUncategorized, result.CategoryID)
	assert.Equal(t, categorizer.StageFallback, result.Stage)
}

func TestCategorize_Deterministic(t *testing.T) {
	c := categorizer.New(nil, nil, nil, nil, logging.NewMockLogger())
	sample := txn("NETFLIX.COM", 19.99)

	first := c.Categorize(context.Background(), sample)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Categorize(context.Background(), sample))
	}
}

func TestCategorize_LearnedPatternBeatsBuiltin(t *testing.T) {
	learned := []models.LearnedPattern{{
		MerchantPattern: "NETFLIX",
		CategoryID:      models.CategorySubscriptions,
		Confidence:      0.9,
		Occurrences:     5,
	}}
	c := categorizer.New(nil, learned, nil, nil, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("NETFLIX.COM", 19.99))
	assert.Equal(t, models.CategorySubscriptions, result.CategoryID)
	assert.Equal(t, categorizer.StageLearned, result.Stage)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestCategorize_LowConfidenceLearnedPatternIgnored(t *testing.T) {
	learned := []models.LearnedPattern{{
		MerchantPattern: "NETFLIX",
		CategoryID:      models.CategorySubscriptions,
		Confidence:      0.4, // below the 0.7 gate
	}}
	c := categorizer.New(nil, learned, nil, nil, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("NETFLIX.COM", 19.99))
	assert.Equal(t, models.CategoryEntertainment, result.CategoryID)
	assert.Equal(t, categorizer.StageBuiltin, result.Stage)
}

func TestCategorize_CustomRulePriorityOrder(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := []models.CategorizationRule{
		{ID: "low", Pattern: "market", MatchType: models.MatchContains, Priority: 1,
			CategoryID: models.CategoryShopping, CreatedAt: created},
		{ID: "high", Pattern: "market", MatchType: models.MatchContains, Priority: 10,
			CategoryID: models.CategoryGroceries, CreatedAt: created},
	}
	c := categorizer.New(nil, nil, rules, nil, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("CORNER MARKET 42", 30))
	assert.Equal(t, models.CategoryGroceries, result.CategoryID)
	assert.Equal(t, "high", result.RuleID)
	assert.Equal(t, categorizer.StageCustomRule, result.Stage)
}

func TestCategorize_EqualPriorityOrderedByCreation(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rules := []models.CategorizationRule{
		{ID: "newer", Pattern: "market", MatchType: models.MatchContains, Priority: 5,
			CategoryID: models.CategoryShopping, CreatedAt: newer},
		{ID: "older", Pattern: "market", MatchType: models.MatchContains, Priority: 5,
			CategoryID: models.CategoryGroceries, CreatedAt: older},
	}
	c := categorizer.New(nil, nil, rules, nil, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("CORNER MARKET 42", 30))
	assert.Equal(t, "older", result.RuleID)
}

func TestCategorize_CustomRuleAmountBounds(t *testing.T) {
	min := decimal.NewFromInt(50)
	rules := []models.CategorizationRule{
		{ID: "big-grocery", Pattern: "market", MatchType: models.MatchContains,
			MinAmount: &min, Priority: 5, CategoryID: models.CategoryGroceries},
	}
	c := categorizer.New(nil, nil, rules, nil, logging.NewMockLogger())

	below := c.Categorize(context.Background(), txn("CORNER MARKET 42", 30))
	assert.NotEqual(t, categorizer.StageCustomRule, below.Stage)

	above := c.Categorize(context.Background(), txn("CORNER MARKET 42", 80))
	assert.Equal(t, models.CategoryGroceries, above.CategoryID)
}

func TestCategorize_CustomRuleExcludePatterns(t *testing.T) {
	rules := []models.CategorizationRule{
		{ID: "amazon", Pattern: "amazon", MatchType: models.MatchContains,
			ExcludePatterns: []string{"prime video"}, Priority: 5,
			CategoryID: models.CategoryShopping},
	}
	c := categorizer.New(nil, nil, rules, nil, logging.NewMockLogger())

	excluded := c.Categorize(context.Background(), txn("AMAZON PRIME VIDEO", 8.99))
	assert.NotEqual(t, categorizer.StageCustomRule, excluded.Stage)

	matched := c.Categorize(context.Background(), txn("AMAZON MARKETPLACE ORDER", 42))
	assert.Equal(t, models.CategoryShopping, matched.CategoryID)
	assert.Equal(t, categorizer.StageCustomRule, matched.Stage)
}

func TestCategorize_InvalidRegexRuleSkipped(t *testing.T) {
	logger := logging.NewMockLogger()
	rules := []models.CategorizationRule{
		{ID: "broken", Pattern: "([unclosed", IsRegex: true, Priority: 10,
			CategoryID: models.CategoryShopping},
	}
	c := categorizer.New(nil, nil, rules, nil, logger)

	result := c.Categorize(context.Background(), txn("NETFLIX.COM", 19.99))
	// The broken rule must not block the pipeline.
	assert.Equal(t, models.CategoryEntertainment, result.CategoryID)
	assert.NotEmpty(t, logger.Entries())
}

func TestCategorize_SplitRuleConditions(t *testing.T) {
	split := []models.SplitCategorizationRule{{
		ID:              "amazon-split",
		MerchantPattern: "amazon",
		Conditions: []models.SplitCondition{
			{Field: models.ConditionAmount, Operator: models.OpLessThan, Value: "20",
				CategoryID: models.CategoryEntertainment},
		},
		DefaultCategoryID: models.CategoryShopping,
	}}
	c := categorizer.New(split, nil, nil, nil, logging.NewMockLogger())

	small := c.Categorize(context.Background(), txn("AMAZON DIGITAL SVCS", 9.99))
	assert.Equal(t, models.CategoryEntertainment, small.CategoryID)
	assert.Equal(t, categorizer.StageSplitRule, small.Stage)

	large := c.Categorize(context.Background(), txn("AMAZON MARKETPLACE", 120))
	assert.Equal(t, models.CategoryShopping, large.CategoryID)
	assert.Equal(t, categorizer.StageSplitRule, large.Stage)
}

func TestCategorize_SplitRulePrecedesEverything(t *testing.T) {
	split := []models.SplitCategorizationRule{{
		ID:                "netflix-split",
		MerchantPattern:   "netflix",
		DefaultCategoryID: models.CategoryUtilities,
	}}
	learned := []models.LearnedPattern{{
		MerchantPattern: "NETFLIX", CategoryID: models.CategorySubscriptions, Confidence: 0.9,
	}}
	c := categorizer.New(split, learned, nil, nil, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("NETFLIX.COM", 19.99))
	assert.Equal(t, models.CategoryUtilities, result.CategoryID)
	assert.Equal(t, categorizer.StageSplitRule, result.Stage)
}

type stubAI struct {
	category string
	err      error
	calls    int
}

func (s *stubAI) Categorize(ctx context.Context, txn models.Transaction) (string, error) {
	s.calls++
	return s.category, s.err
}

func TestCategorize_AIFallback(t *testing.T) {
	ai := &stubAI{category: models.CategoryTravel}
	c := categorizer.New(nil, nil, nil, ai, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("LOCAL HARBOR FERRY", 450))
	assert.Equal(t, models.CategoryTravel, result.CategoryID)
	assert.Equal(t, categorizer.StageAI, result.Stage)
	assert.Equal(t, 1, ai.calls)
}

func TestCategorize_AIErrorFallsThrough(t *testing.T) {
	ai := &stubAI{err: errors.New("quota exceeded")}
	c := categorizer.New(nil, nil, nil, ai, logging.NewMockLogger())

	result := c.Categorize(context.Background(), txn("OBSCURE MERCHANT", 10))
	assert.Equal(t, models.CategoryUncategorized, result.CategoryID)
	assert.Equal(t, categorizer.StageFallback, result.Stage)
}

func TestCategorize_AINotCalledWhenRuleMatches(t *testing.T) {
	ai := &stubAI{category: models.CategoryTravel}
	c := categorizer.New(nil, nil, nil, ai, logging.NewMockLogger())

	_ = c.Categorize(context.Background(), txn("NETFLIX.COM", 19.99))
	assert.Zero(t, ai.calls, "AI fallback must only run when no rule matches")
}

func TestCategorizeAll(t *testing.T) {
	c := categorizer.New(nil, nil, nil, nil, logging.NewMockLogger())
	batch := []models.Transaction{
		txn("NETFLIX.COM", 19.99),
		txn("UNKNOWN PLACE XQZ", 5),
	}

	out := c.CategorizeAll(context.Background(), batch)
	require.Len(t, out, 2)
	assert.Equal(t, models.CategoryEntertainment, out[0].Category)
	assert.Equal(t, models.CategoryUncategorized, out[1].Category)
	// Input slice is not mutated.
	assert.Equal(t, models.CategoryUncategorized, batch[0].Category)
}
