// Package duplicates flags near-identical transactions, both against an
// existing ledger (cross-batch) and within a single import (intra-batch).
package duplicates

import (
	"spendlens/internal/dateutils"
	"spendlens/internal/fuzzy"
	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/subscriptions"

	"github.com/shopspring/decimal"
)

// Confidence tiers of the match cascade.
const (
	exactConfidence        = 1.0
	likelyConfidence       = 0.95
	possibleConfidence     = 0.8
	aliasNextDayConfidence = 0.75
	fuzzyNextDayConfidence = 0.7

	likelySimilarity   = 0.8
	possibleSimilarity = 0.6

	// SurfaceThreshold is the minimum confidence at which a candidate is
	// shown to the user.
	SurfaceThreshold = 0.7
)

// amountTolerance treats amounts within one cent as equal.
var amountTolerance = decimal.NewFromFloat(0.01)

// Detector finds duplicate transaction candidates.
type Detector struct {
	matcher *fuzzy.Matcher
	logger  logging.Logger
}

// NewDetector creates a duplicate detector. A nil logger uses the default.
func NewDetector(logger logging.Logger) *Detector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Detector{
		matcher: fuzzy.NewMatcher(fuzzy.DefaultLevenshteinWeight, fuzzy.DefaultJaccardWeight),
		logger:  logger,
	}
}

// FindAgainstExisting scans the existing ledger for the best match of each
// newly parsed transaction. Matching is greedy: the first qualifying
// existing transaction wins, a deliberate simplification over globally
// optimal assignment that can mispair when several near-duplicates share a
// window.
func (d *Detector) FindAgainstExisting(newTxns, existing []models.Transaction) []models.DuplicateCandidate {
	var candidates []models.DuplicateCandidate

	for _, txn := range newTxns {
		for _, old := range existing {
			tier, confidence, ok := d.classifyPair(&txn, &old)
			if !ok || confidence <= SurfaceThreshold {
				continue
			}
			candidates = append(candidates, models.DuplicateCandidate{
				New:        txn,
				Existing:   old,
				Tier:       tier,
				Confidence: confidence,
			})
			break
		}
	}

	d.logger.WithField(logging.FieldCount, len(candidates)).Debug("Cross-batch duplicate scan complete")
	return candidates
}

// FindWithinBatch compares transactions inside one import. Pairs are only
// compared when they share a (day, amount) group. Same-day pairs where both
// descriptions match a known subscription service are flagged legitimate:
// split recharges for streaming or AI services are expected, not errors.
func (d *Detector) FindWithinBatch(txns []models.Transaction) []models.DuplicateCandidate {
	groups := make(map[string][]models.Transaction)
	for _, txn := range txns {
		key := txn.DayKey() + "|" + txn.Amount.StringFixed(2)
		groups[key] = append(groups[key], txn)
	}

	var candidates []models.DuplicateCandidate
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				tier, confidence, ok := d.classifyPair(&group[i], &group[j])
				if !ok || confidence <= SurfaceThreshold {
					continue
				}
				legitimate := isKnownServicePair(&group[i], &group[j])
				candidates = append(candidates, models.DuplicateCandidate{
					New:        group[i],
					Existing:   group[j],
					Tier:       tier,
					Confidence: confidence,
					Legitimate: legitimate,
				})
			}
		}
	}

	d.logger.WithField(logging.FieldCount, len(candidates)).Debug("Intra-batch duplicate scan complete")
	return candidates
}

// classifyPair runs the fixed decision cascade shared by both modes.
func (d *Detector) classifyPair(a, b *models.Transaction) (models.MatchTier, float64, bool) {
	if !sameAmount(a.Amount, b.Amount) {
		return "", 0, false
	}

	dayDistance := dateutils.DaysBetween(a.Date, b.Date)

	if dayDistance == 0 {
		// The exact tier demands strict amount equality; the one-cent
		// tolerance only feeds the fuzzy tiers below.
		if a.Description == b.Description && a.Amount.Equal(b.Amount) {
			return models.TierExact, exactConfidence, true
		}
		similarity := d.matcher.Similarity(a.Description, b.Description)
		if similarity > likelySimilarity {
			return models.TierLikely, likelyConfidence, true
		}
		if similarity > possibleSimilarity {
			return models.TierPossible, possibleConfidence, true
		}
		return "", 0, false
	}

	if dayDistance == 1 {
		if a.Merchant != "" && a.Merchant == b.Merchant {
			return models.TierPossible, aliasNextDayConfidence, true
		}
		if d.matcher.Similarity(a.Description, b.Description) > possibleSimilarity {
			return models.TierPossible, fuzzyNextDayConfidence, true
		}
	}

	return "", 0, false
}

func sameAmount(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountTolerance)
}

func isKnownServicePair(a, b *models.Transaction) bool {
	_, okA := subscriptions.MatchKnownService(a.Description)
	_, okB := subscriptions.MatchKnownService(b.Description)
	return okA && okB
}
