package importer

import (
	"fmt"
	"slices"
)

// headerScanRows bounds how far down a sheet the header row is searched. An
// exported month sheet has a title row above the header.
const headerScanRows = 5

type Reader interface {
	Read(path string) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// recordsFromRows finds the header row and turns every following row into a
// Record keyed by normalized header.
func recordsFromRows(rows [][]string) ([]Record, error) {
	headerIndex := -1
	for i, row := range rows {
		if i >= headerScanRows {
			break
		}
		if isHeaderRow(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, fmt.Errorf("no header row with a date column found")
	}

	headers := rows[headerIndex]
	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeHeader(header)
	}

	records := make([]Record, 0, len(rows)-headerIndex-1)
	for i, row := range rows[headerIndex+1:] {
		values := make(map[string]string, len(normalizedHeaders))
		for col, header := range normalizedHeaders {
			if col < len(row) {
				values[header] = row[col]
			} else {
				values[header] = ""
			}
		}
		records = append(records, Record{Row: headerIndex + i + 2, Values: values})
	}
	return records, nil
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if slices.Contains(dateHeaders, normalizeHeader(cell)) {
			return true
		}
	}
	return false
}
