// Package ingest handles importing bank statement CSV files into the ledger
package ingest

import (
	"context"
	"fmt"

	"spendlens/cmd/root"
	"spendlens/internal/batch"
	"spendlens/internal/common"
	"spendlens/internal/csvparser"
	"spendlens/internal/dateutils"
	"spendlens/internal/duplicates"
	"spendlens/internal/logging"
	"spendlens/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import bank statement CSVs into the categorized ledger",
	Long: `Parse one or more bank statement CSV exports, categorize each
transaction, skip exact duplicates of already-imported charges and append
the rest to the ledger. Likely and possible duplicates are imported but
reported for review.`,
	RunE: ingestFunc,
}

// InputDir imports every CSV in a directory instead of a single file.
var InputDir string

func init() {
	Cmd.Flags().StringVarP(&InputDir, "dir", "d", "", "Directory of statement CSV files to import")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Ingest command called")

	if root.SharedFlags.Input == "" && InputDir == "" {
		return fmt.Errorf("an input statement file or directory is required (use --input or --dir)")
	}

	newTxns, err := parseInput()
	if err != nil {
		return err
	}
	root.Log.WithField(logging.FieldCount, len(newTxns)).Info("Parsed statement input")

	userCfg := root.Store.LoadSettings()
	classifier := root.BuildCategorizer(userCfg)
	newTxns = classifier.CategorizeAll(context.Background(), newTxns)

	existing, err := common.ReadLedger(root.SharedFlags.Ledger)
	if err != nil {
		return err
	}

	detector := duplicates.NewDetector(root.Log)

	exactIDs := make(map[string]bool)
	for _, candidate := range detector.FindAgainstExisting(newTxns, existing) {
		if candidate.Tier == models.TierExact {
			exactIDs[candidate.New.ID] = true
			continue
		}
		root.Log.WithFields(
			logging.Field{Key: "tier", Value: string(candidate.Tier)},
			logging.Field{Key: "description", Value: candidate.New.Description},
		).Warnf("Potential duplicate of an existing charge (confidence %.2f)", candidate.Confidence)
	}

	for _, candidate := range detector.FindWithinBatch(newTxns) {
		if candidate.Legitimate {
			continue
		}
		root.Log.WithFields(
			logging.Field{Key: "tier", Value: string(candidate.Tier)},
			logging.Field{Key: "description", Value: candidate.New.Description},
		).Warnf("Two similar charges in this statement (confidence %.2f)", candidate.Confidence)
	}

	imported := 0
	for _, txn := range newTxns {
		if exactIDs[txn.ID] {
			continue
		}
		existing = append(existing, txn)
		imported++
	}

	if err := common.WriteLedger(root.SharedFlags.Ledger, existing); err != nil {
		return err
	}

	root.Log.Infof("Imported %d of %d transactions (%d exact duplicates skipped)",
		imported, len(newTxns), len(newTxns)-imported)
	return nil
}

// parseInput reads the statement input, either a single validated file or
// every CSV in a directory.
func parseInput() ([]models.Transaction, error) {
	parser := csvparser.NewParser(dateutils.SystemClock{})

	if InputDir != "" {
		importer := batch.NewImporter(parser.ParseFile, root.Log)
		files, err := importer.FindStatements(InputDir)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no CSV files found in %s", InputDir)
		}
		return importer.ImportAll(files), nil
	}

	ok, err := parser.ValidateFormat(root.SharedFlags.Input)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s does not look like a statement CSV", root.SharedFlags.Input)
	}
	return parser.ParseFile(root.SharedFlags.Input)
}
