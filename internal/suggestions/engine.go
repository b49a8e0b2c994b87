// Package suggestions ranks candidate categories for an unclassified
// transaction using learned patterns, similar-merchant history and
// amount-pattern correlation.
package suggestions

import (
	"math"
	"sort"

	"spendlens/internal/fuzzy"
	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/textutils"
)

// Reason identifies the signal source behind a suggestion.
type Reason string

const (
	// ReasonLearnedExact is a learned-pattern exact match.
	ReasonLearnedExact Reason = "learned-exact"
	// ReasonLearnedFuzzy is a learned-pattern fuzzy match.
	ReasonLearnedFuzzy Reason = "learned-fuzzy"
	// ReasonSimilarMerchant comes from categorized history of similar merchants.
	ReasonSimilarMerchant Reason = "similar-merchant"
	// ReasonAmountPattern comes from amount-correlated history.
	ReasonAmountPattern Reason = "amount-pattern"
)

// Signal weights and thresholds.
const (
	similarMerchantThreshold = 0.7
	similarityWeight         = 0.7
	frequencyWeight          = 0.3
	frequencyCap             = 5
	amountTolerance          = 0.15
	// amountSignalScale discounts amount-only evidence, which is weak on its own.
	amountSignalScale = 0.7
)

// Suggestion is one ranked category candidate.
type Suggestion struct {
	CategoryID string
	Confidence float64
	Reason     Reason
}

// Config bounds the result list and tunes the similarity blend.
// Zero weights fall back to the fuzzy package defaults.
type Config struct {
	MinConfidence     float64
	MaxResults        int
	LevenshteinWeight float64
	JaccardWeight     float64
}

// DefaultConfig returns the stock suggestion bounds.
func DefaultConfig() Config {
	return Config{MinConfidence: 0.3, MaxResults: 3}
}

// Engine produces category suggestions from transaction history and
// learned patterns.
type Engine struct {
	config  Config
	matcher *fuzzy.Matcher
	logger  logging.Logger
}

// NewEngine creates a suggestion engine. A nil logger uses the default.
func NewEngine(config Config, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if config.MaxResults <= 0 {
		config = DefaultConfig()
	}
	return &Engine{
		config:  config,
		matcher: fuzzy.NewMatcher(config.LevenshteinWeight, config.JaccardWeight),
		logger:  logger,
	}
}

// Suggest ranks candidate categories for the transaction. history should
// contain already-categorized transactions; learned the current pattern
// set. Results are deduplicated per category keeping the best entry,
// filtered by the minimum confidence, exact-match reasons first, and
// capped to the configured maximum.
func (e *Engine) Suggest(txn models.Transaction, history []models.Transaction,
	learned []models.LearnedPattern) []Suggestion {

	var candidates []Suggestion
	candidates = append(candidates, e.learnedSignals(txn, learned)...)
	candidates = append(candidates, e.similarMerchantSignals(txn, history)...)
	candidates = append(candidates, e.amountSignals(txn, history)...)

	best := make(map[string]Suggestion)
	for _, s := range candidates {
		if s.Confidence < e.config.MinConfidence {
			continue
		}
		if cur, ok := best[s.CategoryID]; !ok || s.Confidence > cur.Confidence {
			best[s.CategoryID] = s
		}
	}

	results := make([]Suggestion, 0, len(best))
	for _, s := range best {
		results = append(results, s)
	}
	sort.SliceStable(results, func(i, j int) bool {
		// Exact learned matches always sort first.
		ei := results[i].Reason == ReasonLearnedExact
		ej := results[j].Reason == ReasonLearnedExact
		if ei != ej {
			return ei
		}
		return results[i].Confidence > results[j].Confidence
	})

	if len(results) > e.config.MaxResults {
		results = results[:e.config.MaxResults]
	}
	return results
}

func (e *Engine) learnedSignals(txn models.Transaction, learned []models.LearnedPattern) []Suggestion {
	var out []Suggestion
	normMerchant := txn.Merchant
	for _, p := range learned {
		normPattern := textutils.NormalizeMerchant(p.MerchantPattern)
		if normPattern == "" {
			continue
		}
		if normPattern == normMerchant {
			out = append(out, Suggestion{CategoryID: p.CategoryID, Confidence: p.Confidence, Reason: ReasonLearnedExact})
			continue
		}
		if e.matcher.Similarity(p.MerchantPattern, txn.Merchant) >= similarMerchantThreshold {
			out = append(out, Suggestion{CategoryID: p.CategoryID, Confidence: p.Confidence * 0.9, Reason: ReasonLearnedFuzzy})
		}
	}
	return out
}

// similarMerchantSignals scores categories seen on fuzzy-similar merchants,
// weighting average similarity at 0.7 and occurrence frequency at 0.3 with
// the frequency contribution capped at 5 occurrences.
func (e *Engine) similarMerchantSignals(txn models.Transaction, history []models.Transaction) []Suggestion {
	type bucket struct {
		totalSimilarity float64
		count           int
	}
	buckets := make(map[string]*bucket)

	for _, h := range history {
		if h.Category == "" || h.Category == models.CategoryUncategorized {
			continue
		}
		similarity := e.matcher.Similarity(txn.Merchant, h.Merchant)
		if similarity < similarMerchantThreshold {
			continue
		}
		b, ok := buckets[h.Category]
		if !ok {
			b = &bucket{}
			buckets[h.Category] = b
		}
		b.totalSimilarity += similarity
		b.count++
	}

	var out []Suggestion
	for category, b := range buckets {
		avgSimilarity := b.totalSimilarity / float64(b.count)
		frequency := float64(b.count)
		if frequency > frequencyCap {
			frequency = frequencyCap
		}
		confidence := similarityWeight*avgSimilarity + frequencyWeight*(frequency/frequencyCap)
		out = append(out, Suggestion{CategoryID: category, Confidence: confidence, Reason: ReasonSimilarMerchant})
	}
	return out
}

// amountSignals scores categories whose historical charges fall within 15%
// of the transaction amount. The whole signal is scaled by 0.7: amount
// alone is weak evidence. A zero amount or empty history yields nothing,
// guarding the division below.
func (e *Engine) amountSignals(txn models.Transaction, history []models.Transaction) []Suggestion {
	amount := txn.GetAmountAsFloat()
	if amount <= 0 {
		return nil
	}

	matches := make(map[string]int)
	total := 0
	for _, h := range history {
		if h.Category == "" || h.Category == models.CategoryUncategorized {
			continue
		}
		if math.Abs(h.GetAmountAsFloat()-amount)/amount <= amountTolerance {
			matches[h.Category]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	var out []Suggestion
	for category, count := range matches {
		accuracy := float64(count) / float64(total)
		frequency := float64(count)
		if frequency > frequencyCap {
			frequency = frequencyCap
		}
		confidence := amountSignalScale * (0.6*accuracy + 0.4*(frequency/frequencyCap))
		out = append(out, Suggestion{CategoryID: category, Confidence: confidence, Reason: ReasonAmountPattern})
	}
	return out
}
