package web

import (
	"testing"
	"time"

	"zeiterfassung/gateway"
	"zeiterfassung/output"
	"zeiterfassung/worklog"
)

func TestBuildDayRows_GroupsNewestFirst(t *testing.T) {
	t.Parallel()

	entries := []worklog.Entry{
		worklog.Normalize(worklog.Entry{ID: "a", Date: "2024-03-04", From: "07:00", To: "12:00"}),
		worklog.Normalize(worklog.Entry{ID: "b", Date: "2024-03-04", From: "13:00", To: "16:00"}),
		worklog.Normalize(worklog.Entry{ID: "c", Date: "2024-03-01", From: "22:00", To: "02:00"}),
	}
	summary := output.BuildMonthSummary(entries, 2024, time.March, 40)

	rows := BuildDayRows(summary, gateway.State{MultiSelect: true, Selected: []string{"b"}})
	if len(rows) != 2 {
		t.Fatalf("expected 2 day rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Date != "2024-03-04" || first.Label != "Mo 04.03." {
		t.Fatalf("unexpected first day: %+v", first)
	}
	if first.Hours != 8 || first.Pay != 320 {
		t.Fatalf("unexpected day totals: hours=%v pay=%v", first.Hours, first.Pay)
	}
	if first.Entries[0].ID != "b" || !first.Entries[0].Selected || first.Entries[1].Selected {
		t.Fatalf("unexpected entry order or selection: %+v", first.Entries)
	}

	if !rows[1].Entries[0].Overnight || rows[1].Hours != 4 {
		t.Fatalf("expected overnight entry of 4h, got %+v", rows[1])
	}
}

func TestBuildMonthOptions_MarksCurrent(t *testing.T) {
	t.Parallel()

	months := []output.MonthKey{{Year: 2024, Month: time.May}, {Year: 2024, Month: time.March}}
	options := BuildMonthOptions(months, output.MonthKey{Year: 2024, Month: time.March})
	if len(options) != 2 || options[0].Selected || !options[1].Selected {
		t.Fatalf("unexpected options: %+v", options)
	}
	if options[0].Label != "Mai 2024" || options[1].Key != "2024-03" {
		t.Fatalf("unexpected option labels: %+v", options)
	}
}
