package categorizer_test

import (
	"testing"
	"time"

	"spendlens/internal/categorizer"
	"spendlens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var learnTime = time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)

func TestLearnPattern_NewMerchant(t *testing.T) {
	patterns := categorizer.LearnPattern(nil, "STARBUCKS #4521", models.CategoryRestaurants, learnTime)

	require.Len(t, patterns, 1)
	assert.Equal(t, "STARBUCKS", patterns[0].MerchantPattern, "pattern stores the normalized merchant")
	assert.Equal(t, models.CategoryRestaurants, patterns[0].CategoryID)
	assert.Equal(t, 0.5, patterns[0].Confidence)
	assert.Equal(t, 1, patterns[0].Occurrences)
	assert.Equal(t, learnTime, patterns[0].LastUsed)
}

func TestLearnPattern_ConfirmationBoostsConfidence(t *testing.T) {
	patterns := categorizer.LearnPattern(nil, "STARBUCKS", models.CategoryRestaurants, learnTime)

	patterns = categorizer.LearnPattern(patterns, "STARBUCKS #9999", models.CategoryRestaurants, learnTime)
	require.Len(t, patterns, 1)
	assert.InDelta(t, 0.6, patterns[0].Confidence, 0.0001)
	assert.Equal(t, 2, patterns[0].Occurrences)
}

func TestLearnPattern_ConfidenceCappedAtOne(t *testing.T) {
	patterns := []models.LearnedPattern{{
		MerchantPattern: "NETFLIX", CategoryID: models.CategoryEntertainment,
		Confidence: 0.95, Occurrences: 10,
	}}

	patterns = categorizer.LearnPattern(patterns, "NETFLIX", models.CategoryEntertainment, learnTime)
	assert.Equal(t, 1.0, patterns[0].Confidence)
	assert.Equal(t, 11, patterns[0].Occurrences)
}

func TestLearnPattern_OverwriteYoungPattern(t *testing.T) {
	patterns := []models.LearnedPattern{{
		MerchantPattern: "COSTCO", CategoryID: models.CategoryShopping,
		Confidence: 0.6, Occurrences: 2,
	}}

	patterns = categorizer.LearnPattern(patterns, "COSTCO", models.CategoryGroceries, learnTime)
	require.Len(t, patterns, 1)
	assert.Equal(t, models.CategoryGroceries, patterns[0].CategoryID)
	assert.Equal(t, 0.5, patterns[0].Confidence, "overwrite resets confidence")
	assert.Equal(t, 1, patterns[0].Occurrences)
}

func TestLearnPattern_EstablishedPatternDecaysInstead(t *testing.T) {
	patterns := []models.LearnedPattern{{
		MerchantPattern: "COSTCO", CategoryID: models.CategoryShopping,
		Confidence: 0.9, Occurrences: 5,
	}}

	patterns = categorizer.LearnPattern(patterns, "COSTCO", models.CategoryGroceries, learnTime)
	require.Len(t, patterns, 1)
	assert.Equal(t, models.CategoryShopping, patterns[0].CategoryID, "established category is kept")
	assert.InDelta(t, 0.72, patterns[0].Confidence, 0.0001)
	assert.Equal(t, 5, patterns[0].Occurrences)
}

func TestLearnPattern_EmptyMerchantIgnored(t *testing.T) {
	patterns := categorizer.LearnPattern(nil, "  ", models.CategoryShopping, learnTime)
	assert.Empty(t, patterns)
}
