package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var headerLabels = []string{"Datum", "Von", "Bis", "Stunden", "Total", "Lohn netto"}

const totalLabel = "Total"

type Writer interface {
	Write(w io.Writer, export MonthExport) error
	Extension() string
	ContentType() string
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "", "excel", "xlsx":
		return &ExcelWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile creates path and writes the export into it.
func WriteFile(path string, writer Writer, export MonthExport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	if err := writer.Write(file, export); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
