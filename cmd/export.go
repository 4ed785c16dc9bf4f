package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"zeiterfassung/output"
	"zeiterfassung/worklog"
)

var (
	exportFormat string
	exportMonth  string
	exportOutput string
)

var errEmptyMonth = errors.New("keine Einträge für diesen Monat")

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one month as Excel sheet or CSV",
	Long: `Export the entries of a month in ascending order with a running hour
total and a closing total row (hours and net wage).

The Excel sheet carries the company name as title, German column headers and
CHF currency formatting. Without --output the file is written to the current
directory as "Stunden - <Monat> <Jahr>.<ext>".

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export the current month to Excel
  zeiterfassung export

  # Export March 2025 as CSV to a custom path
  zeiterfassung export --month 2025-03 --output ./maerz.csv

  # Force Excel format independent of extension
  zeiterfassung export --month 2025-03 --format excel --output ./report.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := resolveMonth(exportMonth, time.Now())
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" && exportOutput != "" {
			format = detectExportFormat(exportOutput)
		}

		return withApplication(func(app *application) error {
			path, rows, err := exportMonthFile(
				app.entries.List(),
				key,
				app.settings.Current().HourlyWage,
				app.config.Remote.CompanyName,
				format,
				exportOutput,
			)
			if err != nil {
				return err
			}
			fmt.Printf("Export completed. Month: %s, Rows: %d, File: %s\n", key.Label(), rows, path)
			return nil
		})
	},
}

// exportMonthFile writes the month to path, or to the default file name in the
// working directory when path is empty.
func exportMonthFile(entries []worklog.Entry, key output.MonthKey, wage float64, title, format, path string) (string, int, error) {
	writer, err := output.WriterForFormat(format)
	if err != nil {
		return "", 0, err
	}

	summary := output.BuildMonthSummary(entries, key.Year, key.Month, wage)
	if len(summary.Entries) == 0 {
		return "", 0, fmt.Errorf("export %s: %w", key, errEmptyMonth)
	}

	if strings.TrimSpace(path) == "" {
		path = output.ExportFileName(summary, writer.Extension())
	}

	export := output.BuildExportRows(summary, title)
	if err := output.WriteFile(path, writer, export); err != nil {
		return "", 0, err
	}
	return path, len(export.Rows), nil
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "excel"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportMonth, "month", "m", "", "Month YYYY-MM (default: current month)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: excel|csv (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: \"Stunden - <Monat> <Jahr>.<ext>\")")
}
