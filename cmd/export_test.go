package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zeiterfassung/output"
	"zeiterfassung/worklog"
)

func exportEntries() []worklog.Entry {
	return []worklog.Entry{
		worklog.Normalize(worklog.Entry{ID: "a", Date: "2025-03-01", From: "08:00", To: "12:00"}),
		worklog.Normalize(worklog.Entry{ID: "b", Date: "2025-03-15", From: "13:00", To: "17:30"}),
	}
}

func TestExportMonthFile_CSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "maerz.csv")
	key := output.MonthKey{Year: 2025, Month: time.March}
	written, rows, err := exportMonthFile(exportEntries(), key, 38, "Zimmerei", detectExportFormat(path), path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if written != path || rows != 2 {
		t.Fatalf("unexpected result: path=%q rows=%d", written, rows)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(content), "Total,8.50,323.00") {
		t.Fatalf("expected total row, got:\n%s", content)
	}
}

func TestExportMonthFile_DefaultNameInWorkingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	key := output.MonthKey{Year: 2025, Month: time.March}
	written, _, err := exportMonthFile(exportEntries(), key, 38, "Zimmerei", "", "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if written != "Stunden - März 2025.xlsx" {
		t.Fatalf("unexpected default file name: %q", written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Fatalf("expected export file: %v", err)
	}
}

func TestExportMonthFile_EmptyMonth(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	key := output.MonthKey{Year: 2025, Month: time.June}
	_, _, err := exportMonthFile(exportEntries(), key, 38, "Zimmerei", "", path)
	if !errors.Is(err, errEmptyMonth) {
		t.Fatalf("expected empty month error, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("no file must be written for an empty month")
	}
}

func TestExportMonthFile_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	key := output.MonthKey{Year: 2025, Month: time.March}
	if _, _, err := exportMonthFile(exportEntries(), key, 38, "Zimmerei", "pdf", ""); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestDetectExportFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"./maerz.csv":  "csv",
		"./maerz.CSV":  "csv",
		"./maerz.xlsx": "excel",
		"./maerz.out":  "excel",
	}
	for path, want := range tests {
		if got := detectExportFormat(path); got != want {
			t.Fatalf("%s: expected %q, got %q", path, want, got)
		}
	}
}
