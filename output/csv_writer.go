package output

import (
	"encoding/csv"
	"fmt"
	"io"
)

type CSVWriter struct{}

func (w *CSVWriter) Extension() string   { return "csv" }
func (w *CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

func (w *CSVWriter) Write(out io.Writer, export MonthExport) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(headerLabels); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range export.Rows {
		record := []string{
			row.Date.Format("02.01.2006"),
			row.From,
			row.To,
			fmt.Sprintf("%.2f", row.Hours),
			fmt.Sprintf("%.2f", row.RunningTotal),
			fmt.Sprintf("%.2f", row.Pay),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	total := []string{"", "", "", totalLabel, fmt.Sprintf("%.2f", export.TotalHours), fmt.Sprintf("%.2f", export.TotalPay)}
	if err := writer.Write(total); err != nil {
		return fmt.Errorf("write csv total: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
