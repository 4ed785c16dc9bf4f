package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	minutesPerDay = 24 * 60
)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func StartOfMonth(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), 1, 0, 0, 0, 0, value.Location())
}

// ParseDate parses a plain calendar date as a local wall-clock date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed, nil
}

// ParseClockMinutes parses "H:MM" or "HH:MM" into minutes after midnight.
func ParseClockMinutes(value string) (int, error) {
	hourRaw, minuteRaw, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("parse clock %q: missing ':'", value)
	}
	hour, err := strconv.Atoi(hourRaw)
	if err != nil {
		return 0, fmt.Errorf("parse clock hour %q: %w", value, err)
	}
	minute, err := strconv.Atoi(minuteRaw)
	if err != nil {
		return 0, fmt.Errorf("parse clock minute %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", value)
	}
	return hour*60 + minute, nil
}

// CalcDuration returns the hours between two clock values. An end at or before
// the start crosses midnight; missing or malformed values yield 0.
func CalcDuration(from, to string) float64 {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return 0
	}
	start, err := ParseClockMinutes(from)
	if err != nil {
		return 0
	}
	end, err := ParseClockMinutes(to)
	if err != nil {
		return 0
	}
	if end <= start {
		end += minutesPerDay
	}
	return float64(end-start) / 60
}

// NormalizeDate strips an embedded time-of-day from a date-time value.
func NormalizeDate(value string) string {
	if datePart, _, ok := strings.Cut(value, "T"); ok {
		return datePart
	}
	return value
}

// NormalizeClock keeps only the HH:MM part of a date-time value and pads a
// single-digit hour.
func NormalizeClock(value string) string {
	_, clockPart, ok := strings.Cut(value, "T")
	if !ok {
		return PadClock(value)
	}
	if len(clockPart) > 1 && clockPart[1] == ':' && isDigit(clockPart[0]) {
		clockPart = "0" + clockPart
	}
	if len(clockPart) > 5 {
		clockPart = clockPart[:5]
	}
	return clockPart
}

// PadClock turns "H:MM" into "0H:MM". Anything else is returned unchanged.
func PadClock(value string) string {
	if len(value) == 4 && value[1] == ':' && isDigit(value[0]) && isDigit(value[2]) && isDigit(value[3]) {
		return "0" + value
	}
	return value
}

// ClockOrder returns the minutes after midnight of a clock value for sorting.
// Malformed values sort before every valid time.
func ClockOrder(value string) int {
	minutes, err := ParseClockMinutes(value)
	if err != nil {
		return -1
	}
	return minutes
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// DayFraction converts a clock value into the fraction of a day used by
// spreadsheet time cells. Malformed values yield 0.
func DayFraction(clock string) float64 {
	minutes, err := ParseClockMinutes(clock)
	if err != nil {
		return 0
	}
	return float64(minutes) / minutesPerDay
}

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
