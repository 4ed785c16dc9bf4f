package importer

import (
	"fmt"

	"zeiterfassung/worklog"
)

var (
	dateHeaders = []string{"date", "datum"}
	fromHeaders = []string{"from", "von", "start"}
	toHeaders   = []string{"to", "bis", "end"}
)

// MapRecord turns one row into a draft. Blank rows and rows without a date,
// such as the total row of an exported sheet, are skipped.
func MapRecord(record Record) (worklog.Draft, bool, error) {
	if record.Blank() {
		return worklog.Draft{}, false, nil
	}
	rawDate := record.Get(dateHeaders...)
	if rawDate == "" {
		return worklog.Draft{}, false, nil
	}

	date, err := parseDate(rawDate)
	if err != nil {
		return worklog.Draft{}, false, fmt.Errorf("row %d: %w", record.Row, err)
	}
	from, err := parseClock(record.Get(fromHeaders...))
	if err != nil {
		return worklog.Draft{}, false, fmt.Errorf("row %d: from: %w", record.Row, err)
	}
	to, err := parseClock(record.Get(toHeaders...))
	if err != nil {
		return worklog.Draft{}, false, fmt.Errorf("row %d: to: %w", record.Row, err)
	}

	return worklog.Draft{Date: date, From: from, To: to}, true, nil
}
