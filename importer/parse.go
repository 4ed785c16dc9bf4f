package importer

import (
	"fmt"
	"strings"
	"time"

	"zeiterfassung/internal/timeutil"
)

var dateLayouts = []string{
	timeutil.DateLayout,
	"02.01.2006",
	"2.1.2006",
}

// parseDate accepts ISO and German dates. An embedded time component is
// dropped.
func parseDate(raw string) (string, error) {
	value := timeutil.NormalizeDate(strings.TrimSpace(raw))
	if datePart, _, ok := strings.Cut(value, " "); ok {
		value = datePart
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed.Format(timeutil.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unsupported date format: %q", raw)
}

// parseClock accepts H:MM, HH:MM and HH:MM:SS and returns HH:MM.
func parseClock(raw string) (string, error) {
	value := timeutil.NormalizeClock(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("missing time")
	}
	if strings.Count(value, ":") == 2 {
		value = value[:strings.LastIndex(value, ":")]
	}

	minutes, err := timeutil.ParseClockMinutes(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}
