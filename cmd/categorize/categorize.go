// Package categorize handles transaction categorization commands
package categorize

import (
	"context"
	"fmt"
	"time"

	"spendlens/cmd/root"
	"spendlens/internal/categorizer"
	"spendlens/internal/common"
	"spendlens/internal/models"
	"spendlens/internal/settings"
	"spendlens/internal/textutils"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize ledger transactions, or teach a merchant's category",
	Long: `Re-run the classification pipeline over the ledger. By default only
uncategorized transactions are touched; --all reclassifies everything.

With --merchant and --category the assignment is recorded as a learned
pattern so future imports of the same merchant classify automatically.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Merchant, "merchant", "m", "", "Merchant to assign a category to")
	Cmd.Flags().StringVarP(&root.Category, "category", "c", "", "Category id to assign")
	Cmd.Flags().BoolVarP(&root.All, "all", "a", false, "Reclassify all transactions, not just uncategorized ones")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Categorize command called")

	if (root.Merchant == "") != (root.Category == "") {
		return fmt.Errorf("--merchant and --category must be used together")
	}

	ledger, err := common.ReadLedger(root.SharedFlags.Ledger)
	if err != nil {
		return err
	}
	userCfg := root.Store.LoadSettings()

	if root.Merchant != "" {
		return teachMerchant(ledger, userCfg)
	}

	classifier := root.BuildCategorizer(userCfg)
	ctx := context.Background()

	changed := 0
	for i := range ledger {
		if !root.All && ledger[i].Category != "" && ledger[i].Category != models.CategoryUncategorized {
			continue
		}
		result := classifier.Categorize(ctx, ledger[i])
		if result.CategoryID != ledger[i].Category {
			ledger[i].Category = result.CategoryID
			changed++
		}
	}

	if err := common.WriteLedger(root.SharedFlags.Ledger, ledger); err != nil {
		return err
	}
	root.Log.Infof("Reclassified %d transactions", changed)
	return nil
}

// teachMerchant records a user assignment as a learned pattern and applies
// it to every matching ledger entry.
func teachMerchant(ledger []models.Transaction, userCfg settings.Settings) error {
	validCategory := false
	for _, cat := range settings.ResolveCategories(userCfg) {
		if cat.ID == root.Category {
			validCategory = true
			break
		}
	}
	if !validCategory {
		return fmt.Errorf("unknown category id %q (see 'spendlens categories list')", root.Category)
	}

	userCfg.LearnedPatterns = categorizer.LearnPattern(
		userCfg.LearnedPatterns, root.Merchant, root.Category, time.Now())
	if err := root.Store.SaveSettings(userCfg); err != nil {
		return err
	}

	normalized := textutils.NormalizeMerchant(root.Merchant)
	applied := 0
	for i := range ledger {
		if textutils.NormalizeMerchant(ledger[i].Merchant) == normalized {
			ledger[i].Category = root.Category
			applied++
		}
	}
	if err := common.WriteLedger(root.SharedFlags.Ledger, ledger); err != nil {
		return err
	}

	root.Log.Infof("Learned %s -> %s and recategorized %d ledger entries",
		root.Merchant, root.Category, applied)
	return nil
}
