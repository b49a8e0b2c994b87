// Package report summarizes categorized transactions into per-category
// spending totals with optional budget comparison.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/settings"

	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// CategorySummary aggregates spending for one category.
type CategorySummary struct {
	CategoryID string
	Name       string
	Count      int
	Total      decimal.Decimal
	Budget     decimal.Decimal
	HasBudget  bool
	Remaining  decimal.Decimal
}

// Report is the result of summarizing a set of transactions.
type Report struct {
	From       time.Time
	To         time.Time
	Categories []CategorySummary
	Total      decimal.Decimal
	Count      int
}

// Generate builds a spending report from categorized transactions.
// Categories are resolved through the user's overrides so renamed or
// hidden defaults display correctly, and budgets come from settings.
func Generate(transactions []models.Transaction, cfg settings.Settings) Report {
	names := make(map[string]string)
	for _, cat := range settings.ResolveCategories(cfg) {
		names[cat.ID] = cat.Name
	}

	byCategory := make(map[string]*CategorySummary)
	var report Report
	for _, txn := range transactions {
		if report.From.IsZero() || txn.Date.Before(report.From) {
			report.From = txn.Date
		}
		if txn.Date.After(report.To) {
			report.To = txn.Date
		}

		categoryID := txn.Category
		if categoryID == "" {
			categoryID = models.CategoryUncategorized
		}
		summary, ok := byCategory[categoryID]
		if !ok {
			name := names[categoryID]
			if name == "" {
				name = categoryID
			}
			summary = &CategorySummary{CategoryID: categoryID, Name: name}
			byCategory[categoryID] = summary
		}
		summary.Count++
		summary.Total = summary.Total.Add(txn.Amount)
		report.Total = report.Total.Add(txn.Amount)
		report.Count++
	}

	for id, summary := range byCategory {
		if budget, ok := cfg.Budgets[id]; ok && budget.IsPositive() {
			summary.Budget = budget
			summary.HasBudget = true
			summary.Remaining = budget.Sub(summary.Total)
		}
		report.Categories = append(report.Categories, *summary)
	}

	// Largest spend first, uncategorized last.
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if (a.CategoryID == models.CategoryUncategorized) != (b.CategoryID == models.CategoryUncategorized) {
			return b.CategoryID == models.CategoryUncategorized
		}
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Name < b.Name
	})

	log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: report.Count},
		logging.Field{Key: "categories", Value: len(report.Categories)},
	).Debug("Generated spending report")
	return report
}

// Write renders the report as an aligned text table.
func Write(w io.Writer, report Report, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if report.Count > 0 {
		fmt.Fprintf(tw, "Period:\t%s – %s\n\n",
			report.From.Format("02 Jan 2006"), report.To.Format("02 Jan 2006"))
	}
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tTOTAL\tBUDGET\tREMAINING")
	for _, c := range report.Categories {
		budget, remaining := "-", "-"
		if c.HasBudget {
			budget = fmt.Sprintf("%s %s", c.Budget.StringFixed(2), currency)
			remaining = fmt.Sprintf("%s %s", c.Remaining.StringFixed(2), currency)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s %s\t%s\t%s\n",
			c.Name, c.Count, c.Total.StringFixed(2), currency, budget, remaining)
	}
	fmt.Fprintf(tw, "\nTOTAL\t%d\t%s %s\t\t\n", report.Count, report.Total.StringFixed(2), currency)

	return tw.Flush()
}
