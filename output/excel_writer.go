package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	formatDate     = "dd.mm.yyyy"
	formatTime     = "hh:mm"
	formatHours    = "0.00"
	formatCurrency = `#,##0.00 "CHF"`

	borderThin  = 1
	borderThick = 5
)

var columnWidths = map[string]float64{
	"A": 12,
	"B": 10,
	"C": 10,
	"D": 10,
	"E": 12,
	"F": 15,
}

type ExcelWriter struct{}

func (w *ExcelWriter) Extension() string { return "xlsx" }
func (w *ExcelWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

type excelStyles struct {
	title      int
	header     int
	date       int
	clock      int
	hours      int
	currency   int
	totalEmpty int
	totalLabel int
	totalHours int
	totalPay   int
}

func (w *ExcelWriter) Write(out io.Writer, export MonthExport) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if export.SheetName != "" {
		if err := file.SetSheetName(sheet, export.SheetName); err != nil {
			return fmt.Errorf("rename excel sheet: %w", err)
		}
		sheet = export.SheetName
	}

	styles, err := newExcelStyles(file)
	if err != nil {
		return err
	}

	if err := setCell(file, sheet, 1, 1, export.Title, styles.title); err != nil {
		return err
	}
	if err := file.MergeCell(sheet, "A1", "D1"); err != nil {
		return fmt.Errorf("merge excel title: %w", err)
	}

	for col, header := range headerLabels {
		if err := setCell(file, sheet, col+1, 2, header, styles.header); err != nil {
			return err
		}
	}

	for i, row := range export.Rows {
		line := i + 3
		values := []any{row.Date, row.FromFraction, row.ToFraction, row.Hours, row.RunningTotal, row.Pay}
		styleIDs := []int{styles.date, styles.clock, styles.clock, styles.hours, styles.hours, styles.currency}
		for col, value := range values {
			if err := setCell(file, sheet, col+1, line, value, styleIDs[col]); err != nil {
				return err
			}
		}
	}

	totalLine := len(export.Rows) + 3
	totals := []any{"", "", "", totalLabel, export.TotalHours, export.TotalPay}
	totalStyles := []int{styles.totalEmpty, styles.totalEmpty, styles.totalEmpty, styles.totalLabel, styles.totalHours, styles.totalPay}
	for col, value := range totals {
		if err := setCell(file, sheet, col+1, totalLine, value, totalStyles[col]); err != nil {
			return err
		}
	}

	for col, width := range columnWidths {
		if err := file.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set excel column width %s: %w", col, err)
		}
	}

	if err := file.Write(out); err != nil {
		return fmt.Errorf("write excel output: %w", err)
	}
	return nil
}

func setCell(file *excelize.File, sheet string, col, row int, value any, styleID int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("excel cell name: %w", err)
	}
	if err := file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set excel value %s: %w", cell, err)
	}
	if err := file.SetCellStyle(sheet, cell, cell, styleID); err != nil {
		return fmt.Errorf("set excel style %s: %w", cell, err)
	}
	return nil
}

func newExcelStyles(file *excelize.File) (excelStyles, error) {
	var firstErr error
	newStyle := func(style excelize.Style) int {
		if firstErr != nil {
			return 0
		}
		id, err := file.NewStyle(&style)
		if err != nil {
			firstErr = fmt.Errorf("create excel style: %w", err)
		}
		return id
	}
	numFmt := func(format string) *string { return &format }

	thickTop := []excelize.Border{{Type: "top", Color: "000000", Style: borderThick}}
	thinBox := []excelize.Border{
		{Type: "top", Color: "000000", Style: borderThin},
		{Type: "bottom", Color: "000000", Style: borderThin},
		{Type: "left", Color: "000000", Style: borderThin},
		{Type: "right", Color: "000000", Style: borderThin},
	}
	bold := &excelize.Font{Bold: true}
	right := &excelize.Alignment{Horizontal: "right"}

	styles := excelStyles{
		title: newStyle(excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}),
		header: newStyle(excelize.Style{
			Font:      bold,
			Border:    thinBox,
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}),
		date: newStyle(excelize.Style{
			CustomNumFmt: numFmt(formatDate),
			Alignment:    &excelize.Alignment{Horizontal: "left"},
		}),
		clock: newStyle(excelize.Style{
			CustomNumFmt: numFmt(formatTime),
			Alignment:    &excelize.Alignment{Horizontal: "center"},
		}),
		hours:      newStyle(excelize.Style{CustomNumFmt: numFmt(formatHours), Alignment: right}),
		currency:   newStyle(excelize.Style{CustomNumFmt: numFmt(formatCurrency), Alignment: right}),
		totalEmpty: newStyle(excelize.Style{Border: thickTop}),
		totalLabel: newStyle(excelize.Style{Font: bold, Border: thickTop, Alignment: right}),
		totalHours: newStyle(excelize.Style{Font: bold, Border: thickTop, Alignment: right, CustomNumFmt: numFmt(formatHours)}),
		totalPay:   newStyle(excelize.Style{Font: bold, Border: thickTop, Alignment: right, CustomNumFmt: numFmt(formatCurrency)}),
	}
	if firstErr != nil {
		return excelStyles{}, firstErr
	}
	return styles, nil
}
