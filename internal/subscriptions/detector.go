package subscriptions

import (
	"sort"
	"time"

	"spendlens/internal/logging"
	"spendlens/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// knownServiceConfidence is the fixed score for known-service detections.
const knownServiceConfidence = 0.95

// Detector runs both subscription passes and merges their results.
type Detector struct {
	config AnalyzerConfig
	extra  []compiledService
	logger logging.Logger
}

// NewDetector creates a subscription detector. extraServices supplements
// the built-in provider table (typically loaded from a user YAML file).
func NewDetector(config AnalyzerConfig, extraServices []KnownService, logger logging.Logger) *Detector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if config.MinimumOccurrences <= 0 {
		config = DefaultAnalyzerConfig()
	}
	return &Detector{
		config: config,
		extra:  compileServices(extraServices),
		logger: logger,
	}
}

// Detect runs the known-service matcher and the pattern analyzer over the
// transactions and merges results. Known-service entries take precedence;
// the analyzer skips merchants a known service already claimed.
func (d *Detector) Detect(txns []models.Transaction) []models.Subscription {
	known, claimed := d.detectKnownServices(txns)
	analyzed := d.detectByPattern(txns, claimed)

	subs := append(known, analyzed...)
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })

	d.logger.WithField(logging.FieldCount, len(subs)).Info("Subscription detection complete")
	return subs
}

// detectKnownServices groups transactions by matching provider and builds
// one subscription per matched service. Returns the set of merchant names
// the pass claimed so the analyzer can skip them.
func (d *Detector) detectKnownServices(txns []models.Transaction) ([]models.Subscription, map[string]bool) {
	byService := make(map[string][]models.Transaction)
	services := make(map[string]KnownService)
	claimed := make(map[string]bool)

	for _, txn := range txns {
		service, ok := d.matchService(txn.Description)
		if !ok {
			continue
		}
		byService[service.ID] = append(byService[service.ID], txn)
		services[service.ID] = service
		claimed[txn.Merchant] = true
	}

	var subs []models.Subscription
	for id, group := range byService {
		service := services[id]
		sub := d.buildSubscription(group, service.Frequency, models.DetectionKnownService, knownServiceConfidence)
		sub.Name = service.Name
		sub.ServiceID = service.ID
		sub.MerchantPattern = service.Pattern
		sub.CategoryID = service.CategoryID

		d.logger.WithFields(
			logging.Field{Key: "service", Value: service.ID},
			logging.Field{Key: logging.FieldFrequency, Value: string(sub.Frequency)},
			logging.Field{Key: logging.FieldCount, Value: len(group)},
		).Debug("Known service matched")
		subs = append(subs, sub)
	}
	return subs, claimed
}

func (d *Detector) matchService(description string) (KnownService, bool) {
	if s, ok := MatchKnownService(description); ok {
		return s, true
	}
	for _, s := range d.extra {
		if s.regex.MatchString(description) {
			return s.KnownService, true
		}
	}
	return KnownService{}, false
}

// detectByPattern is the statistical pass: group by normalized merchant,
// require a minimum occurrence count, reject irregular amounts, classify
// the charge interval and gate on confidence.
func (d *Detector) detectByPattern(txns []models.Transaction, claimed map[string]bool) []models.Subscription {
	byMerchant := make(map[string][]models.Transaction)
	for _, txn := range txns {
		if txn.Merchant == "" || claimed[txn.Merchant] {
			continue
		}
		byMerchant[txn.Merchant] = append(byMerchant[txn.Merchant], txn)
	}

	var subs []models.Subscription
	for merchant, group := range byMerchant {
		if len(group) < d.config.MinimumOccurrences {
			continue
		}

		amounts := make([]float64, len(group))
		for i, t := range group {
			amounts[i] = t.GetAmountAsFloat()
		}
		amountMean := meanOf(amounts)
		amountStddev := stddevOf(amounts, amountMean)
		if amountMean <= 0 || amountStddev/amountMean > d.config.MaxAmountCV {
			continue
		}

		stats := analyzeIntervals(sortedDates(group))
		confidence := confidenceScore(stats, len(group))
		if confidence < d.config.MinConfidence {
			continue
		}

		sub := d.buildSubscription(group, stats.frequency, models.DetectionPatternAnalysis, confidence)
		sub.Name = merchant
		sub.MerchantPattern = merchant

		d.logger.WithFields(
			logging.Field{Key: logging.FieldMerchant, Value: merchant},
			logging.Field{Key: logging.FieldFrequency, Value: string(sub.Frequency)},
			logging.Field{Key: logging.FieldConfidence, Value: confidence},
		).Debug("Recurring pattern detected")
		subs = append(subs, sub)
	}
	return subs
}

// buildSubscription fills the fields every detection shares: amount
// statistics, the most recent charge as anchor, and the projected next
// charge at lastCharge + frequencyDays.
func (d *Detector) buildSubscription(group []models.Transaction, frequency models.BillingFrequency,
	method models.DetectionMethod, confidence float64) models.Subscription {

	amounts := make([]float64, len(group))
	ids := make([]string, len(group))
	last := group[0]
	for i, t := range group {
		amounts[i] = t.GetAmountAsFloat()
		ids[i] = t.ID
		if t.Date.After(last.Date) {
			last = t
		}
	}
	amountMean := meanOf(amounts)
	amountStddev := stddevOf(amounts, amountMean)

	next := last.Date
	if days, ok := models.FrequencyDays[frequency]; ok {
		next = last.Date.AddDate(0, 0, days)
	}

	return models.Subscription{
		ID:             uuid.New().String(),
		Frequency:      frequency,
		Amount:         decimal.NewFromFloat(amountMean).Round(2),
		AmountVariance: amountStddev,
		BillingDay:     last.Date.Day(),
		LastCharge:     last.Date,
		NextCharge:     next,
		Status:         models.SubscriptionActive,
		CategoryID:     models.CategorySubscriptions,
		Method:         method,
		Confidence:     confidence,
		TransactionIDs: ids,
	}
}

// UpcomingRenewal pairs a subscription with its distance to the next charge.
type UpcomingRenewal struct {
	Subscription models.Subscription
	DaysUntil    int
}

// UpcomingRenewals returns active subscriptions whose next charge falls
// within the given day window, sorted ascending by days-until.
func UpcomingRenewals(subs []models.Subscription, windowDays int, now time.Time) []UpcomingRenewal {
	var upcoming []UpcomingRenewal
	for _, sub := range subs {
		if sub.Status != models.SubscriptionActive {
			continue
		}
		days := int(sub.NextCharge.Sub(now).Hours() / 24)
		if days < 0 || days > windowDays {
			continue
		}
		upcoming = append(upcoming, UpcomingRenewal{Subscription: sub, DaysUntil: days})
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].DaysUntil < upcoming[j].DaysUntil })
	return upcoming
}
