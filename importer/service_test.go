package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"zeiterfassung/output"
	"zeiterfassung/worklog"
)

type recordingCreator struct {
	batches [][]worklog.Draft
	err     error
}

func (c *recordingCreator) CreateMany(drafts []worklog.Draft) ([]worklog.Entry, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.batches = append(c.batches, drafts)
	created := make([]worklog.Entry, 0, len(drafts))
	for i, draft := range drafts {
		created = append(created, draft.Apply(worklog.Entry{ID: string(rune('a' + i))}))
	}
	return created, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_CSVWithAliases(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "hours.csv", "Datum,Von,Bis,Notiz\n01.03.2024,07:00,12:00,x\n2024-03-02,13:00,16:30,\n,,,\n")

	result, err := Run([]string{path}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.FilesProcessed != 1 || result.RowsRead != 3 || result.RowsMapped != 2 || result.RowsSkipped != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	want := []worklog.Draft{
		{Date: "2024-03-01", From: "07:00", To: "12:00"},
		{Date: "2024-03-02", From: "13:00", To: "16:30"},
	}
	for i := range want {
		if result.Drafts[i] != want[i] {
			t.Fatalf("draft %d: want %+v, got %+v", i, want[i], result.Drafts[i])
		}
	}
}

func TestRun_ReimportsExportedCSV(t *testing.T) {
	t.Parallel()

	entries := []worklog.Entry{
		worklog.Normalize(worklog.Entry{ID: "a", Date: "2024-03-01", From: "08:00", To: "12:00"}),
		worklog.Normalize(worklog.Entry{ID: "b", Date: "2024-03-15", From: "13:00", To: "17:30"}),
	}
	export := output.BuildExportRows(output.BuildMonthSummary(entries, 2024, time.March, 40), "Zimmerei")
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := output.WriteFile(path, &output.CSVWriter{}, export); err != nil {
		t.Fatalf("export: %v", err)
	}

	result, err := Run([]string{path}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RowsMapped != 2 || result.RowsSkipped != 1 {
		t.Fatalf("expected 2 mapped rows and the total row skipped, got %+v", result)
	}
	if result.Drafts[1] != (worklog.Draft{Date: "2024-03-15", From: "13:00", To: "17:30"}) {
		t.Fatalf("unexpected draft: %+v", result.Drafts[1])
	}
}

func TestRun_ExcelHeaderBelowTitle(t *testing.T) {
	t.Parallel()

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	rows := [][]any{
		{"Zimmerei"},
		{"Date", "Start", "End"},
		{"2024-04-02", "06:30", "15:00"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "hours.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = file.Close()

	result, err := Run([]string{path}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Drafts) != 1 || result.Drafts[0] != (worklog.Draft{Date: "2024-04-02", From: "06:30", To: "15:00"}) {
		t.Fatalf("unexpected drafts: %+v", result.Drafts)
	}
	if result.Drafts[0].Validate() != nil {
		t.Fatalf("mapped draft must be valid")
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Run([]string{"hours.txt"}, ""); err == nil {
		t.Fatalf("expected unsupported extension error")
	}

	noHeader := writeFile(t, "plain.csv", "a,b,c\n1,2,3\n")
	if _, err := Run([]string{noHeader}, ""); err == nil {
		t.Fatalf("expected missing header error")
	}

	badDate := writeFile(t, "bad.csv", "Date,From,To\n31/02/2024,07:00,08:00\n")
	if _, err := Run([]string{badDate}, "csv"); err == nil {
		t.Fatalf("expected row error for bad date")
	}
}

func TestImport_StoresOneBatch(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "hours.csv", "date,from,to\n2024-03-01,07:00,12:00\n2024-03-02,07:00,09:00\n")
	creator := &recordingCreator{}

	result, err := Import(creator, []string{path}, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(creator.batches) != 1 || len(creator.batches[0]) != 2 {
		t.Fatalf("expected a single batch of 2, got %+v", creator.batches)
	}
	if len(result.Created) != 2 || result.Created[1].Hours != 2 {
		t.Fatalf("unexpected created entries: %+v", result.Created)
	}

	failing := &recordingCreator{err: errors.New("disk full")}
	if _, err := Import(failing, []string{path}, ""); err == nil {
		t.Fatalf("expected store error")
	}
}
