// Package categories handles category management commands
package categories

import (
	"fmt"
	"os"
	"text/tabwriter"

	"spendlens/cmd/root"
	"spendlens/internal/settings"

	"github.com/spf13/cobra"
)

// Cmd represents the categories command group
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage spending categories",
	Long: `List, delete and restore spending categories. Deleting a default
category hides it; restore brings it back as it was before the delete,
keeping any rename or recolor.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective categories",
	RunE:  listFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <category-id>",
	Short: "Delete a default category",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <category-id>",
	Short: "Restore a deleted default category",
	Args:  cobra.ExactArgs(1),
	RunE:  restoreFunc,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(restoreCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	userCfg := root.Store.LoadSettings()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, cat := range settings.ResolveCategories(userCfg) {
		fmt.Fprintf(tw, "%s\t%s\n", cat.ID, cat.Name)
	}
	return tw.Flush()
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	userCfg := root.Store.LoadSettings()

	updated, err := settings.DeleteDefaultCategory(userCfg, args[0])
	if err != nil {
		return err
	}
	if err := root.Store.SaveSettings(updated); err != nil {
		return err
	}
	root.Log.Infof("Deleted category %s", args[0])
	return nil
}

func restoreFunc(cmd *cobra.Command, args []string) error {
	userCfg := root.Store.LoadSettings()

	updated, err := settings.RestoreDefaultCategory(userCfg, args[0])
	if err != nil {
		return err
	}
	if err := root.Store.SaveSettings(updated); err != nil {
		return err
	}
	root.Log.Infof("Restored category %s", args[0])
	return nil
}
