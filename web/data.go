package web

import (
	"fmt"
	"time"

	"zeiterfassung/gateway"
	"zeiterfassung/internal/timeutil"
	"zeiterfassung/output"
)

var weekdayShort = [...]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}

type DayRow struct {
	Date    string
	Label   string
	Hours   float64
	Pay     float64
	Entries []EntryRow
}

type EntryRow struct {
	ID        string
	Date      string
	From      string
	To        string
	Hours     float64
	Pay       float64
	Overnight bool
	Selected  bool
}

type MonthOption struct {
	Key      string
	Label    string
	Selected bool
}

// BuildDayRows groups a month summary by day, keeping its newest-first order.
func BuildDayRows(summary output.MonthSummary, selection gateway.State) []DayRow {
	rows := make([]DayRow, 0, len(summary.Entries))
	index := make(map[string]int, len(summary.Entries))

	for _, entry := range summary.Entries {
		pos, ok := index[entry.Date]
		if !ok {
			rows = append(rows, DayRow{Date: entry.Date, Label: dayLabel(entry.Date)})
			pos = len(rows) - 1
			index[entry.Date] = pos
		}

		day := &rows[pos]
		day.Hours += entry.Hours
		day.Pay += entry.Hours * summary.Wage
		day.Entries = append(day.Entries, EntryRow{
			ID:        entry.ID,
			Date:      entry.Date,
			From:      entry.From,
			To:        entry.To,
			Hours:     entry.Hours,
			Pay:       entry.Hours * summary.Wage,
			Overnight: entry.To <= entry.From,
			Selected:  selection.IsSelected(entry.ID),
		})
	}
	return rows
}

func BuildMonthOptions(months []output.MonthKey, current output.MonthKey) []MonthOption {
	options := make([]MonthOption, 0, len(months))
	for _, key := range months {
		options = append(options, MonthOption{
			Key:      key.String(),
			Label:    key.Label(),
			Selected: key == current,
		})
	}
	return options
}

// dayLabel renders "Mo 04.03." for 2024-03-04.
func dayLabel(date string) string {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %s", weekdayShort[day.Weekday()], day.Format("02.01."))
}

func formatHours(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatMoney(value float64) string {
	return fmt.Sprintf("%.2f CHF", value)
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("02.01.2006 15:04")
}
