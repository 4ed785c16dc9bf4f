package importer

import (
	"strings"
)

// Record is one data row keyed by normalized header. Row is the 1-based line
// or sheet row number.
type Record struct {
	Row    int
	Values map[string]string
}

var headerReplacer = strings.NewReplacer("_", "", "-", "", " ", "", ".", "", ":", "")

// Get returns the first non-empty value among the header aliases.
func (r Record) Get(aliases ...string) string {
	for _, alias := range aliases {
		if value := strings.TrimSpace(r.Values[normalizeHeader(alias)]); value != "" {
			return value
		}
	}
	return ""
}

// Blank reports a row without any value, such as a spacer line.
func (r Record) Blank() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(input string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(input)))
}
