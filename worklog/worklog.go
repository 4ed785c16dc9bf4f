package worklog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"zeiterfassung/internal/timeutil"
)

const DefaultHourlyWage = 38.0

var (
	ErrInvalidEntry    = errors.New("invalid entry")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Entry is one logged work session. Hours is derived from From/To.
type Entry struct {
	ID    string  `json:"id"`
	Date  string  `json:"date"`
	From  string  `json:"from"`
	To    string  `json:"to"`
	Hours float64 `json:"hours"`
}

// Draft carries the user-editable fields of an entry.
type Draft struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	From string `json:"from" validate:"required,datetime=15:04"`
	To   string `json:"to" validate:"required,datetime=15:04"`
}

type Settings struct {
	ScriptURL  string  `json:"scriptUrl" validate:"omitempty,url"`
	HourlyWage float64 `json:"hourlyWage" validate:"gte=0"`
}

var validate = validator.New()

func DefaultSettings() Settings {
	return Settings{HourlyWage: DefaultHourlyWage}
}

// Validate rejects drafts with missing or malformed date/from/to.
func (d Draft) Validate() error {
	d = d.trimmed()
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEntry, describe(err))
	}
	return nil
}

// Apply writes the draft fields into entry and recomputes hours.
func (d Draft) Apply(entry Entry) Entry {
	d = d.trimmed()
	entry.Date = d.Date
	entry.From = d.From
	entry.To = d.To
	entry.Hours = timeutil.CalcDuration(entry.From, entry.To)
	return entry
}

func (d Draft) trimmed() Draft {
	return Draft{
		Date: strings.TrimSpace(d.Date),
		From: timeutil.PadClock(strings.TrimSpace(d.From)),
		To:   timeutil.PadClock(strings.TrimSpace(d.To)),
	}
}

func (s Settings) Validate() error {
	s.ScriptURL = strings.TrimSpace(s.ScriptURL)
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, describe(err))
	}
	return nil
}

// Normalize strips embedded date-time suffixes that older remote payloads
// carried and recomputes hours from the cleaned clock values.
func Normalize(entry Entry) Entry {
	entry.Date = timeutil.NormalizeDate(entry.Date)
	entry.From = timeutil.NormalizeClock(entry.From)
	entry.To = timeutil.NormalizeClock(entry.To)
	entry.Hours = timeutil.CalcDuration(entry.From, entry.To)
	return entry
}

func NormalizeAll(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, Normalize(entry))
	}
	return out
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must match %s", field, fieldErr.Param()))
		case "url":
			parts = append(parts, field+" must be a valid URL")
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be >= %s", field, fieldErr.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fieldErr.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
