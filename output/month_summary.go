package output

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"zeiterfassung/internal/timeutil"
	"zeiterfassung/worklog"
)

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthKey identifies a calendar month. Its text form is "YYYY-MM".
type MonthKey struct {
	Year  int
	Month time.Month
}

type MonthSummary struct {
	Year       int             `json:"year"`
	Month      time.Month      `json:"month"`
	Label      string          `json:"label"`
	Wage       float64         `json:"wage"`
	Entries    []worklog.Entry `json:"entries"`
	TotalHours float64         `json:"totalHours"`
	TotalPay   float64         `json:"totalPay"`
}

func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return month.String()
	}
	return monthNames[month-1]
}

func MonthOf(value time.Time) MonthKey {
	return MonthKey{Year: value.Year(), Month: value.Month()}
}

// ParseMonthKey accepts "YYYY-MM".
func ParseMonthKey(value string) (MonthKey, error) {
	yearRaw, monthRaw, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return MonthKey{}, fmt.Errorf("parse month %q: expected YYYY-MM", value)
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil || len(yearRaw) != 4 {
		return MonthKey{}, fmt.Errorf("parse month %q: invalid year", value)
	}
	month, err := strconv.Atoi(monthRaw)
	if err != nil || month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("parse month %q: invalid month", value)
	}
	return MonthKey{Year: year, Month: time.Month(month)}, nil
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label renders the month the way it appears in titles and file names,
// e.g. "März 2024".
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", MonthName(k.Month), k.Year)
}

func (k MonthKey) Previous() MonthKey {
	return MonthOf(time.Date(k.Year, k.Month-1, 1, 0, 0, 0, 0, time.Local))
}

func (k MonthKey) Next() MonthKey {
	return MonthOf(time.Date(k.Year, k.Month+1, 1, 0, 0, 0, 0, time.Local))
}

func (k MonthKey) before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// BuildMonthSummary filters entries to the given local calendar month, orders
// them newest first and totals hours and pay.
func BuildMonthSummary(entries []worklog.Entry, year int, month time.Month, wage float64) MonthSummary {
	selected := make([]worklog.Entry, 0, len(entries))
	totalHours := 0.0
	for _, entry := range entries {
		day, err := timeutil.ParseDate(entry.Date)
		if err != nil {
			continue
		}
		if day.Year() != year || day.Month() != month {
			continue
		}
		selected = append(selected, entry)
		totalHours += timeutil.CalcDuration(entry.From, entry.To)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Date != selected[j].Date {
			return selected[i].Date > selected[j].Date
		}
		return timeutil.ClockOrder(selected[i].From) > timeutil.ClockOrder(selected[j].From)
	})

	return MonthSummary{
		Year:       year,
		Month:      month,
		Label:      MonthKey{Year: year, Month: month}.Label(),
		Wage:       wage,
		Entries:    selected,
		TotalHours: totalHours,
		TotalPay:   totalHours * wage,
	}
}

func (s MonthSummary) Key() MonthKey {
	return MonthKey{Year: s.Year, Month: s.Month}
}

// AvailableMonths lists every month that has entries plus the month of now,
// newest first.
func AvailableMonths(entries []worklog.Entry, now time.Time) []MonthKey {
	seen := map[MonthKey]struct{}{MonthOf(now): {}}
	for _, entry := range entries {
		day, err := timeutil.ParseDate(entry.Date)
		if err != nil {
			continue
		}
		seen[MonthOf(day)] = struct{}{}
	}

	months := make([]MonthKey, 0, len(seen))
	for key := range seen {
		months = append(months, key)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[j].before(months[i])
	})
	return months
}
