package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"zeiterfassung/worklog"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Drafts         []worklog.Draft
	Created        []worklog.Entry
}

// Creator stores a batch of drafts at once.
type Creator interface {
	CreateMany(drafts []worklog.Draft) ([]worklog.Entry, error)
}

// Run reads every file and maps its rows to drafts. Nothing is stored.
func Run(paths []string, format string) (*Result, error) {
	result := &Result{Drafts: make([]worklog.Draft, 0, 64)}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			draft, ok, mapErr := MapRecord(record)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", filepath.Base(path), mapErr)
			}
			if !ok {
				result.RowsSkipped++
				continue
			}
			result.RowsMapped++
			result.Drafts = append(result.Drafts, draft)
		}
	}
	return result, nil
}

// Import maps the files and stores all drafts as one batch.
func Import(store Creator, paths []string, format string) (*Result, error) {
	result, err := Run(paths, format)
	if err != nil {
		return nil, err
	}
	created, err := store.CreateMany(result.Drafts)
	if err != nil {
		return nil, fmt.Errorf("store imported entries: %w", err)
	}
	result.Created = created
	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
