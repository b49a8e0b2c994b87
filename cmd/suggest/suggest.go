// Package suggest handles category suggestion commands
package suggest

import (
	"fmt"

	"spendlens/cmd/root"
	"spendlens/internal/common"
	"spendlens/internal/models"
	"spendlens/internal/settings"
	"spendlens/internal/suggestions"
	"spendlens/internal/textutils"

	"github.com/spf13/cobra"
)

// Cmd represents the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest categories for a transaction description",
	Long: `Rank likely categories for a charge using learned patterns, the
categorized history of similar merchants and amount correlation.`,
	RunE: suggestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Description, "description", "d", "", "Transaction description to classify")
	Cmd.Flags().StringVarP(&root.Amount, "amount", "a", "", "Transaction amount (optional)")
	if err := Cmd.MarkFlagRequired("description"); err != nil {
		panic(err)
	}
}

func suggestFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Suggest command called")

	ledger, err := common.ReadLedger(root.SharedFlags.Ledger)
	if err != nil {
		return err
	}
	userCfg := root.Store.LoadSettings()

	txn := models.Transaction{
		Description: root.Description,
		Merchant:    textutils.NormalizeMerchant(root.Description),
		Amount:      models.ParseAmount(root.Amount),
	}

	engine := suggestions.NewEngine(suggestions.Config{
		MinConfidence:     userCfg.Suggestion.MinConfidence,
		MaxResults:        userCfg.Suggestion.MaxResults,
		LevenshteinWeight: root.Cfg.Fuzzy.LevenshteinWeight,
		JaccardWeight:     root.Cfg.Fuzzy.JaccardWeight,
	}, root.Log)

	results := engine.Suggest(txn, ledger, userCfg.LearnedPatterns)
	if len(results) == 0 {
		fmt.Println("No suggestions; not enough history for this merchant.")
		return nil
	}

	names := make(map[string]string)
	for _, cat := range settings.ResolveCategories(userCfg) {
		names[cat.ID] = cat.Name
	}

	for i, s := range results {
		name := names[s.CategoryID]
		if name == "" {
			name = s.CategoryID
		}
		fmt.Printf("%d. %s (%.0f%% via %s)\n", i+1, name, s.Confidence*100, s.Reason)
	}
	return nil
}
