package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingFrequency classifies a subscription's charge cadence.
type BillingFrequency string

const (
	// FrequencyWeekly bills every 7 days.
	FrequencyWeekly BillingFrequency = "weekly"
	// FrequencyBiweekly bills every 14 days.
	FrequencyBiweekly BillingFrequency = "biweekly"
	// FrequencyMonthly bills every month.
	FrequencyMonthly BillingFrequency = "monthly"
	// FrequencyQuarterly bills every three months.
	FrequencyQuarterly BillingFrequency = "quarterly"
	// FrequencySemiAnnual bills twice a year.
	FrequencySemiAnnual BillingFrequency = "semiannual"
	// FrequencyAnnual bills once a year.
	FrequencyAnnual BillingFrequency = "annual"
	// FrequencyIrregular marks a cadence that fits no band.
	FrequencyIrregular BillingFrequency = "irregular"
)

// FrequencyDays maps each billing frequency to its nominal interval in days,
// used to project the next expected charge date.
var FrequencyDays = map[BillingFrequency]int{
	FrequencyWeekly:     7,
	FrequencyBiweekly:   14,
	FrequencyMonthly:    30,
	FrequencyQuarterly:  91,
	FrequencySemiAnnual: 182,
	FrequencyAnnual:     365,
}

// SubscriptionStatus is the lifecycle state of a detected subscription.
type SubscriptionStatus string

const (
	// SubscriptionActive is a subscription currently billing.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionPaused is temporarily suspended by the user.
	SubscriptionPaused SubscriptionStatus = "paused"
	// SubscriptionCancelled has been cancelled by the user.
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	// SubscriptionPending is detected but not yet confirmed.
	SubscriptionPending SubscriptionStatus = "pending"
)

// DetectionMethod records which detector produced a subscription.
type DetectionMethod string

const (
	// DetectionKnownService matched a hardcoded provider pattern.
	DetectionKnownService DetectionMethod = "known-service"
	// DetectionPatternAnalysis came from statistical interval analysis.
	DetectionPatternAnalysis DetectionMethod = "pattern-analysis"
)

// Subscription is a detected recurring charge. Created by detection and
// mutated by user actions; never auto-deleted, only user-removable.
type Subscription struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	MerchantPattern string             `json:"merchantPattern"`
	ServiceID       string             `json:"serviceId,omitempty"` // Set for known-service detections
	Frequency       BillingFrequency   `json:"frequency"`
	Amount          decimal.Decimal    `json:"amount"`
	AmountVariance  float64            `json:"amountVariance"`
	BillingDay      int                `json:"billingDay"` // Expected day of month
	LastCharge      time.Time          `json:"lastCharge"`
	NextCharge      time.Time          `json:"nextCharge"`
	Status          SubscriptionStatus `json:"status"`
	CategoryID      string             `json:"categoryId"`
	Method          DetectionMethod    `json:"method"`
	Confidence      float64            `json:"confidence"`
	TransactionIDs  []string           `json:"transactionIds"`
}
