// Package report handles spending report commands
package report

import (
	"fmt"
	"os"
	"time"

	"spendlens/cmd/root"
	"spendlens/internal/common"
	"spendlens/internal/dateutils"
	"spendlens/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize spending by category",
	Long: `Aggregate ledger transactions into per-category totals, compared
against any monthly budgets configured in settings. An optional date range
restricts the report period.`,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.From, "from", "", "Start date (inclusive)")
	Cmd.Flags().StringVar(&root.To, "to", "", "End date (inclusive)")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Report command called")

	ledger, err := common.ReadLedger(root.SharedFlags.Ledger)
	if err != nil {
		return err
	}
	userCfg := root.Store.LoadSettings()

	from, to, err := parseRange(root.From, root.To)
	if err != nil {
		return err
	}
	filtered := ledger[:0:0]
	for _, txn := range ledger {
		if !from.IsZero() && txn.Date.Before(from) {
			continue
		}
		if !to.IsZero() && txn.Date.After(to) {
			continue
		}
		filtered = append(filtered, txn)
	}

	summary := report.Generate(filtered, userCfg)
	return report.Write(os.Stdout, summary, userCfg.Preferences.Currency)
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromStr != "" {
		parsed, _, err := dateutils.ParseDate(fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid --from date %q: %w", fromStr, err)
		}
		from = parsed
	}
	if toStr != "" {
		parsed, _, err := dateutils.ParseDate(toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid --to date %q: %w", toStr, err)
		}
		// Make the end bound inclusive of the whole day.
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
