package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zeiterfassung/importer"
	"zeiterfassung/reconcile"
)

var (
	importInputs        []string
	importFormat        string
	importDryRun        bool
	importReconcileMode string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import entries from CSV/Excel files",
	Long: `Read rows with a date, a start and an end time from CSV or Excel files
and add them as new entries.

Headers are matched case-insensitively: Datum/Date, Von/From/Start, Bis/To/End.
A title row above the header is skipped, so sheets written by "export" can be
imported again. Rows without a date (such as the total row) are skipped.
All rows are stored as one batch and pushed once.

After the import, exact duplicates can be removed automatically (see
"reconcile"). --reconcile auto follows import.auto_reconcile_after_import.

When --format is omitted, format is inferred from each input file extension.`,
	Example: `
  # Import an exported month
  zeiterfassung import -i "Stunden - März 2025.xlsx"

  # Import several CSV files
  zeiterfassung import -i ./jan.csv -i ./feb.csv --format csv

  # Only check what would be imported
  zeiterfassung import -i ./jan.csv --dry-run

  # Re-import a month and drop the repeated rows
  zeiterfassung import -i "Stunden - März 2025.xlsx" --reconcile on
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importDryRun {
			result, err := importer.Run(importInputs, importFormat)
			if err != nil {
				return err
			}
			printImportResult(result, 0)
			return nil
		}

		return withApplication(func(app *application) error {
			shouldReconcile, err := resolveReconcileMode(importReconcileMode, app.config.Import.AutoReconcileAfterImport)
			if err != nil {
				return err
			}

			result, err := importer.Import(app.entries, importInputs, importFormat)
			if err != nil {
				return err
			}
			printImportResult(result, len(result.Created))

			if shouldReconcile {
				reconcileResult, removed, err := reconcile.RemoveDuplicates(app.entries)
				if err != nil {
					return err
				}
				printReconcileResult(os.Stdout, reconcileResult, removed)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Read and map the files without storing entries")
	importCmd.Flags().StringVar(&importReconcileMode, "reconcile", "auto", "Remove duplicates after import: auto|on|off")

	_ = importCmd.MarkFlagRequired("input")
}

func printImportResult(result *importer.Result, persisted int) {
	fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d\n",
		result.FilesProcessed,
		result.RowsRead,
		result.RowsMapped,
		result.RowsSkipped,
		persisted,
	)
}

func resolveReconcileMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid reconcile mode %q (supported: auto|on|off)", mode)
	}
}
