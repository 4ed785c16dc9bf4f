package output

import (
	"fmt"
	"sort"
	"time"

	"zeiterfassung/internal/timeutil"
	"zeiterfassung/worklog"
)

// ExportRow is one spreadsheet line. Numeric values are already rounded to two
// decimals and clock values converted to day fractions.
type ExportRow struct {
	Date         time.Time
	From         string
	To           string
	FromFraction float64
	ToFraction   float64
	Hours        float64
	RunningTotal float64
	Pay          float64
}

type MonthExport struct {
	Title      string
	SheetName  string
	Rows       []ExportRow
	TotalHours float64
	TotalPay   float64
}

// BuildExportRows orders the month's entries oldest first and accumulates the
// running total.
func BuildExportRows(summary MonthSummary, title string) MonthExport {
	entries := make([]worklog.Entry, len(summary.Entries))
	copy(entries, summary.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return timeutil.ClockOrder(entries[i].From) < timeutil.ClockOrder(entries[j].From)
	})

	rows := make([]ExportRow, 0, len(entries))
	running := 0.0
	for _, entry := range entries {
		hours := timeutil.CalcDuration(entry.From, entry.To)
		running += hours
		rows = append(rows, ExportRow{
			Date:         exportDate(entry.Date),
			From:         entry.From,
			To:           entry.To,
			FromFraction: timeutil.DayFraction(entry.From),
			ToFraction:   timeutil.DayFraction(entry.To),
			Hours:        timeutil.Round2(hours),
			RunningTotal: timeutil.Round2(running),
			Pay:          timeutil.Round2(hours * summary.Wage),
		})
	}

	return MonthExport{
		Title:      title,
		SheetName:  summary.Label,
		Rows:       rows,
		TotalHours: timeutil.Round2(running),
		TotalPay:   timeutil.Round2(running * summary.Wage),
	}
}

// ExportFileName returns e.g. "Stunden - März 2024.xlsx".
func ExportFileName(summary MonthSummary, extension string) string {
	return fmt.Sprintf("Stunden - %s.%s", summary.Label, extension)
}

// exportDate keeps the calendar day in UTC so spreadsheet serial numbers do not
// shift with the local offset.
func exportDate(value string) time.Time {
	day, err := timeutil.ParseDate(value)
	if err != nil {
		return time.Time{}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
