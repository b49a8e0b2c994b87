package subscriptions

import (
	"math"
	"sort"
	"time"

	"spendlens/internal/dateutils"
	"spendlens/internal/models"
)

// AnalyzerConfig tunes the statistical recurring-pattern analyzer.
type AnalyzerConfig struct {
	// MinimumOccurrences is the charge count required before a merchant is
	// considered for pattern analysis.
	MinimumOccurrences int
	// MaxAmountCV rejects merchants whose amount coefficient of variation
	// (stddev / mean) exceeds this bound; too irregular to be a subscription.
	MaxAmountCV float64
	// MinConfidence drops analyzer detections scoring below it.
	MinConfidence float64
}

// DefaultAnalyzerConfig returns the stock analyzer tuning.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinimumOccurrences: 3,
		MaxAmountCV:        0.3,
		MinConfidence:      0.5,
	}
}

// frequencyBand describes the interval range that maps to a billing
// frequency, with a cap on interval spread.
type frequencyBand struct {
	frequency models.BillingFrequency
	minDays   float64
	maxDays   float64
	maxStddev float64
}

var frequencyBands = []frequencyBand{
	{models.FrequencyWeekly, 6, 8, 2},
	{models.FrequencyBiweekly, 13, 15, 3},
	{models.FrequencyMonthly, 28, 32, 5},
	{models.FrequencyQuarterly, 85, 97, 8},
	{models.FrequencySemiAnnual, 175, 190, 12},
	{models.FrequencyAnnual, 350, 380, 20},
}

// intervalStats is the outcome of interval analysis for one merchant.
type intervalStats struct {
	intervals []float64
	mean      float64
	stddev    float64
	frequency models.BillingFrequency
}

// analyzeIntervals computes inter-charge day intervals for date-sorted
// transactions and classifies the billing frequency.
func analyzeIntervals(dates []time.Time) intervalStats {
	intervals := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		intervals = append(intervals, float64(dateutils.DaysBetween(dates[i-1], dates[i])))
	}

	mean := meanOf(intervals)
	stddev := stddevOf(intervals, mean)

	frequency := models.FrequencyIrregular
	for _, band := range frequencyBands {
		if mean >= band.minDays && mean <= band.maxDays && stddev < band.maxStddev {
			frequency = band.frequency
			break
		}
	}

	return intervalStats{intervals: intervals, mean: mean, stddev: stddev, frequency: frequency}
}

// confidenceScore is 0.9 times the fraction of intervals landing within
// ±15% of the frequency's expected interval, plus an occurrence-count
// bonus of up to 0.1, capped at 1.0.
func confidenceScore(stats intervalStats, occurrences int) float64 {
	expected, ok := models.FrequencyDays[stats.frequency]
	if !ok {
		// Irregular cadence earns no regularity score.
		return 0
	}

	within := 0
	tolerance := float64(expected) * 0.15
	for _, interval := range stats.intervals {
		if math.Abs(interval-float64(expected)) <= tolerance {
			within++
		}
	}
	regularity := float64(within) / float64(len(stats.intervals))

	bonus := float64(occurrences) * 0.02
	if bonus > 0.1 {
		bonus = 0.1
	}

	score := 0.9*regularity + bonus
	if score > 1.0 {
		return 1.0
	}
	return score
}

// sortedDates extracts transaction dates in ascending order.
func sortedDates(txns []models.Transaction) []time.Time {
	dates := make([]time.Time, len(txns))
	for i, t := range txns {
		dates[i] = t.Date
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		sumSq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
