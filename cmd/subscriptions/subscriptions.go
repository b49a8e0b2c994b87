// Package subscriptions handles recurring-charge detection commands
package subscriptions

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"spendlens/cmd/root"
	"spendlens/internal/common"
	"spendlens/internal/subscriptions"

	"github.com/spf13/cobra"
)

// Cmd represents the subscriptions command
var Cmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Detect recurring subscriptions in the ledger",
	Long: `Scan the ledger for recurring charges, matching known services first
and then analyzing charge intervals statistically. Detected subscriptions are
saved to settings and upcoming renewals within the window are listed.`,
	RunE: subscriptionsFunc,
}

func init() {
	Cmd.Flags().IntVarP(&root.WindowDays, "window", "w", 0, "Upcoming-renewal window in days (default from config)")
}

func subscriptionsFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Subscriptions command called")

	ledger, err := common.ReadLedger(root.SharedFlags.Ledger)
	if err != nil {
		return err
	}
	userCfg := root.Store.LoadSettings()

	extraServices, err := root.Store.LoadKnownServices()
	if err != nil {
		root.Log.Warnf("Ignoring user services file: %v", err)
		extraServices = nil
	}

	analyzerCfg := subscriptions.AnalyzerConfig{
		MinimumOccurrences: userCfg.Subscription.MinimumOccurrences,
		MaxAmountCV:        userCfg.Subscription.MaxAmountCV,
		MinConfidence:      userCfg.Subscription.MinConfidence,
	}

	detector := subscriptions.NewDetector(analyzerCfg, extraServices, root.Log)
	detected := detector.Detect(ledger)

	userCfg.Subscriptions = detected
	if err := root.Store.SaveSettings(userCfg); err != nil {
		return err
	}

	if len(detected) == 0 {
		fmt.Println("No subscriptions detected.")
		return nil
	}

	currency := userCfg.Preferences.Currency
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFREQUENCY\tAMOUNT\tNEXT CHARGE\tCONFIDENCE\tMETHOD")
	for _, sub := range detected {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%.0f%%\t%s\n",
			sub.Name, sub.Frequency, sub.Amount.StringFixed(2), currency,
			sub.NextCharge.Format("02 Jan 2006"), sub.Confidence*100, sub.Method)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	window := root.WindowDays
	if window <= 0 {
		window = root.Cfg.Subscriptions.RenewalWindowDays
	}
	renewals := subscriptions.UpcomingRenewals(detected, window, time.Now())
	if len(renewals) > 0 {
		fmt.Printf("\nRenewing within %d days:\n", window)
		for _, r := range renewals {
			fmt.Printf("  %s in %d days (%s %s)\n",
				r.Subscription.Name, r.DaysUntil, r.Subscription.Amount.StringFixed(2), currency)
		}
	}
	return nil
}
