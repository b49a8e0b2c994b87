// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementDateLayout is the date format used by bank statement exports (e.g. "04 Jan 2026").
const StatementDateLayout = "02 Jan 2006"

// Transaction represents a single parsed statement entry. The record is
// immutable once parsed, except for Category which the user may override.
type Transaction struct {
	ID           string
	Date         time.Time
	PurchaseDate time.Time
	Description  string          // Raw statement description
	Amount       decimal.Decimal // Always non-negative
	Merchant     string          // Normalized display name
	Location     string          // Optional, extracted from description
	Category     string          // Current classification, mutable
}

// NewTransactionID generates a unique identifier for a transaction record.
func NewTransactionID() string {
	return uuid.New().String()
}

// ParseAmount parses a string amount into a decimal.Decimal.
// Currency symbols, spaces and thousand separators are stripped, and the
// result is normalized to a non-negative value.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, "€", "")
	amount = strings.ReplaceAll(amount, "£", "")
	amount = strings.ReplaceAll(amount, "'", "")
	amount = strings.ReplaceAll(amount, ",", "")

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec.Abs()
}

// GetAmountAsFloat returns the Amount as a float64 for statistical
// calculations. Use decimal operations for anything financial.
func (t *Transaction) GetAmountAsFloat() float64 {
	f, _ := t.Amount.Float64()
	return f
}

// SameDay reports whether the transaction posted on the same calendar day as other.
func (t *Transaction) SameDay(other *Transaction) bool {
	return t.Date.Year() == other.Date.Year() &&
		t.Date.YearDay() == other.Date.YearDay()
}

// DayKey returns a grouping key for the posting day (YYYY-MM-DD).
func (t *Transaction) DayKey() string {
	return t.Date.Format("2006-01-02")
}

