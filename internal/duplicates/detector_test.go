package duplicates_test

import (
	"testing"
	"time"

	"spendlens/internal/duplicates"
	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/textutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charge(description string, amount float64, day int) models.Transaction {
	return models.Transaction{
		ID:          models.NewTransactionID(),
		Date:        time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      decimal.NewFromFloat(amount),
		Merchant:    textutils.NormalizeMerchant(description),
	}
}

func TestFindAgainstExisting_ExactDuplicate(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	existing := []models.Transaction{charge("NETFLIX.COM", 19.99, 4)}
	incoming := []models.Transaction{charge("NETFLIX.COM", 19.99, 4)}

	candidates := detector.FindAgainstExisting(incoming, existing)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.TierExact, candidates[0].Tier)
	assert.Equal(t, 1.0, candidates[0].Confidence)
}

func TestFindAgainstExisting_DifferentAmountNoMatch(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	existing := []models.Transaction{charge("NETFLIX.COM", 19.99, 4)}
	incoming := []models.Transaction{charge("NETFLIX.COM", 15.49, 4)}

	assert.Empty(t, detector.FindAgainstExisting(incoming, existing))
}

func TestFindAgainstExisting_SubCentAmountLikelyNotExact(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	// Within the one-cent tolerance the pair still surfaces, but the exact
	// tier is reserved for strictly equal amounts.
	existing := []models.Transaction{charge("NETFLIX.COM", 19.99, 4)}
	incoming := []models.Transaction{charge("NETFLIX.COM", 19.995, 4)}

	candidates := detector.FindAgainstExisting(incoming, existing)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.TierLikely, candidates[0].Tier)
	assert.Equal(t, 0.95, candidates[0].Confidence)
}

func TestFindAgainstExisting_NextDayMerchantAlias(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	// Same merchant after normalization, posted one day apart.
	existing := []models.Transaction{charge("STARBUCKS #4521", 5.75, 4)}
	incoming := []models.Transaction{charge("STARBUCKS #7789", 5.75, 5)}

	candidates := detector.FindAgainstExisting(incoming, existing)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.TierPossible, candidates[0].Tier)
	assert.Equal(t, 0.75, candidates[0].Confidence)
}

func TestFindAgainstExisting_TwoDaysApartNoMatch(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	existing := []models.Transaction{charge("STARBUCKS", 5.75, 4)}
	incoming := []models.Transaction{charge("STARBUCKS", 5.75, 6)}

	assert.Empty(t, detector.FindAgainstExisting(incoming, existing))
}

func TestFindWithinBatch_DifferentStoreNumbersNeverExact(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	// Two Starbucks visits at different stores on the same day for the same
	// amount: a likely duplicate for review, but never "exact".
	batch := []models.Transaction{
		charge("STARBUCKS #4521", 5.75, 4),
		charge("STARBUCKS #7789", 5.75, 4),
	}

	candidates := detector.FindWithinBatch(batch)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.TierLikely, candidates[0].Tier)
	assert.Equal(t, 0.95, candidates[0].Confidence)
	assert.False(t, candidates[0].Legitimate)
}

func TestFindWithinBatch_IdenticalDescriptionsAreExact(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	batch := []models.Transaction{
		charge("STARBUCKS #4521", 5.75, 4),
		charge("STARBUCKS #4521", 5.75, 4),
	}

	candidates := detector.FindWithinBatch(batch)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.TierExact, candidates[0].Tier)
}

func TestFindWithinBatch_KnownServicePairFlaggedLegitimate(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	// Two same-day OpenAI recharges are expected usage, not an error.
	batch := []models.Transaction{
		charge("OPENAI CHATGPT SUBSCR", 20.00, 4),
		charge("OPENAI CHATGPT SUBSCR", 20.00, 4),
	}

	candidates := detector.FindWithinBatch(batch)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].Legitimate)
}

func TestFindWithinBatch_DifferentDaysNotGrouped(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	batch := []models.Transaction{
		charge("STARBUCKS", 5.75, 4),
		charge("STARBUCKS", 5.75, 6),
	}

	assert.Empty(t, detector.FindWithinBatch(batch))
}

func TestFindAgainstExisting_GreedyFirstMatchOnly(t *testing.T) {
	detector := duplicates.NewDetector(logging.NewMockLogger())

	existing := []models.Transaction{
		charge("NETFLIX.COM", 19.99, 4),
		charge("NETFLIX.COM", 19.99, 4),
	}
	incoming := []models.Transaction{charge("NETFLIX.COM", 19.99, 4)}

	// One incoming transaction pairs with at most one existing entry.
	candidates := detector.FindAgainstExisting(incoming, existing)
	assert.Len(t, candidates, 1)
}
