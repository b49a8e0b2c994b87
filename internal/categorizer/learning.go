package categorizer

import (
	"strings"
	"time"

	"spendlens/internal/models"
	"spendlens/internal/textutils"
)

// Pattern-learning policy constants.
const (
	confirmBoost       = 0.1
	initialConfidence  = 0.5
	contradictionDecay = 0.8
	// overwriteThreshold is the occurrence count at and above which an
	// established pattern resists a single contradicting correction.
	overwriteThreshold = 3
)

// LearnPattern records a manual recategorization into the learned-pattern
// set and returns the updated set. Policy:
//   - repeat confirmation of the same category: confidence += 0.1, capped at 1.0
//   - category change with fewer than 3 prior occurrences: overwrite the
//     category and reset confidence to 0.5
//   - category change with 3+ prior occurrences: keep the original category
//     and multiply confidence by 0.8, so one noisy correction does not
//     destroy an established pattern
//
// Confidence always stays within [0, 1].
func LearnPattern(patterns []models.LearnedPattern, merchant, categoryID string, now time.Time) []models.LearnedPattern {
	normalized := textutils.NormalizeMerchant(merchant)
	if normalized == "" {
		return patterns
	}

	for i := range patterns {
		if !strings.EqualFold(textutils.NormalizeMerchant(patterns[i].MerchantPattern), normalized) {
			continue
		}

		p := &patterns[i]
		switch {
		case p.CategoryID == categoryID:
			p.Confidence = clampConfidence(p.Confidence + confirmBoost)
			p.Occurrences++
		case p.Occurrences < overwriteThreshold:
			p.CategoryID = categoryID
			p.Confidence = initialConfidence
			p.Occurrences = 1
		default:
			p.Confidence = clampConfidence(p.Confidence * contradictionDecay)
		}
		p.LastUsed = now
		return patterns
	}

	return append(patterns, models.LearnedPattern{
		MerchantPattern: normalized,
		CategoryID:      categoryID,
		Confidence:      initialConfidence,
		Occurrences:     1,
		LastUsed:        now,
	})
}

func clampConfidence(c float64) float64 {
	if c > 1.0 {
		return 1.0
	}
	if c < 0.0 {
		return 0.0
	}
	return c
}
