package worklog

import (
	"errors"
	"strings"
	"testing"
)

func TestDraftValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		draft   Draft
		wantErr string
	}{
		{name: "complete", draft: Draft{Date: "2024-03-01", From: "08:00", To: "12:00"}},
		{name: "surrounding spaces", draft: Draft{Date: " 2024-03-01 ", From: "08:00 ", To: " 12:00"}},
		{name: "missing date", draft: Draft{From: "08:00", To: "12:00"}, wantErr: "date is required"},
		{name: "missing from", draft: Draft{Date: "2024-03-01", To: "12:00"}, wantErr: "from is required"},
		{name: "missing to", draft: Draft{Date: "2024-03-01", From: "08:00"}, wantErr: "to is required"},
		{name: "bad date", draft: Draft{Date: "01.03.2024", From: "08:00", To: "12:00"}, wantErr: "date must match"},
		{name: "bad clock", draft: Draft{Date: "2024-03-01", From: "8h", To: "12:00"}, wantErr: "from must match"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.draft.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidEntry) {
				t.Fatalf("expected ErrInvalidEntry, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected %q in %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestDraftApply_RecomputesHours(t *testing.T) {
	t.Parallel()

	entry := Entry{ID: "a", Date: "2024-03-01", From: "08:00", To: "09:00", Hours: 1}
	got := Draft{Date: "2024-03-02", From: "22:00", To: "06:00"}.Apply(entry)

	if got.ID != "a" {
		t.Fatalf("apply must keep id, got %q", got.ID)
	}
	if got.Date != "2024-03-02" || got.From != "22:00" || got.To != "06:00" {
		t.Fatalf("unexpected fields: %+v", got)
	}
	if got.Hours != 8 {
		t.Fatalf("expected 8 hours, got %v", got.Hours)
	}
}

func TestDraftApply_PadsSingleDigitHours(t *testing.T) {
	t.Parallel()

	draft := Draft{Date: "2024-03-02", From: "8:00", To: "9:30"}
	if err := draft.Validate(); err != nil {
		t.Fatalf("single-digit hour must be accepted: %v", err)
	}
	got := draft.Apply(Entry{ID: "a"})
	if got.From != "08:00" || got.To != "09:30" {
		t.Fatalf("expected padded clocks, got %q - %q", got.From, got.To)
	}
	if got.Hours != 1.5 {
		t.Fatalf("expected 1.5 hours, got %v", got.Hours)
	}

	pulled := Normalize(Entry{ID: "b", Date: "2024-03-02", From: "7:15", To: "12:00"})
	if pulled.From != "07:15" {
		t.Fatalf("expected normalized clock 07:15, got %q", pulled.From)
	}
}

func TestNormalize_StripsEmbeddedTimeComponents(t *testing.T) {
	t.Parallel()

	got := Normalize(Entry{
		ID:    "x",
		Date:  "2024-03-01T00:00:00Z",
		From:  "1899-12-30T08:00:00.000Z",
		To:    "1899-12-30T12:30:00.000Z",
		Hours: 0,
	})

	if got.Date != "2024-03-01" {
		t.Fatalf("expected plain date, got %q", got.Date)
	}
	if got.From != "08:00" || got.To != "12:30" {
		t.Fatalf("unexpected clocks: %q - %q", got.From, got.To)
	}
	if got.Hours != 4.5 {
		t.Fatalf("expected recomputed hours 4.5, got %v", got.Hours)
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings must validate: %v", err)
	}
	if DefaultSettings().HourlyWage != 38 {
		t.Fatalf("unexpected default wage: %v", DefaultSettings().HourlyWage)
	}
	if err := (Settings{ScriptURL: "https://script.google.com/macros/s/abc/exec", HourlyWage: 40}).Validate(); err != nil {
		t.Fatalf("expected valid settings: %v", err)
	}

	err := Settings{HourlyWage: -1}.Validate()
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings for negative wage, got %v", err)
	}
	err = Settings{ScriptURL: "not a url", HourlyWage: 1}.Validate()
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings for bad url, got %v", err)
	}
}
