package classify

import (
	"testing"

	"zeiterfassung/worklog"
)

func entry(id, date, from, to string) worklog.Entry {
	return worklog.Normalize(worklog.Entry{ID: id, Date: date, From: from, To: to})
}

func TestEntries_AddedRemovedChanged(t *testing.T) {
	t.Parallel()

	local := []worklog.Entry{
		entry("keep", "2025-03-03", "07:00", "12:00"),
		entry("edit", "2025-03-04", "07:00", "12:00"),
		entry("gone", "2025-03-05", "07:00", "12:00"),
	}
	remote := []worklog.Entry{
		entry("keep", "2025-03-03", "07:00", "12:00"),
		entry("edit", "2025-03-04", "07:00", "16:30"),
		entry("new-b", "2025-03-07", "08:00", "09:00"),
		entry("new-a", "2025-03-06", "08:00", "09:00"),
	}

	diff := Entries(local, remote)
	if diff.Empty() {
		t.Fatalf("expected differences")
	}
	if diff.Unchanged != 1 {
		t.Fatalf("expected 1 unchanged, got %d", diff.Unchanged)
	}
	if len(diff.Added) != 2 || diff.Added[0].ID != "new-a" || diff.Added[1].ID != "new-b" {
		t.Fatalf("unexpected added entries: %+v", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].ID != "gone" {
		t.Fatalf("unexpected removed entries: %+v", diff.Removed)
	}
	if len(diff.Changed) != 1 || diff.Changed[0].Remote.To != "16:30" || diff.Changed[0].Local.To != "12:00" {
		t.Fatalf("unexpected changed entries: %+v", diff.Changed)
	}
}

func TestEntries_NormalizesRemoteBeforeComparing(t *testing.T) {
	t.Parallel()

	local := []worklog.Entry{entry("a", "2025-03-10", "07:00", "11:30")}
	remote := []worklog.Entry{{
		ID:   "a",
		Date: "2025-03-10T00:00:00.000Z",
		From: "1899-12-30T07:00:00.000Z",
		To:   "1899-12-30T11:30:00.000Z",
	}}

	diff := Entries(local, remote)
	if !diff.Empty() || diff.Unchanged != 1 {
		t.Fatalf("expected identical lists after normalization, got %+v", diff)
	}
}

func TestEntries_EmptyRemoteRemovesEverything(t *testing.T) {
	t.Parallel()

	local := []worklog.Entry{
		entry("b", "2025-03-02", "07:00", "08:00"),
		entry("a", "2025-03-01", "07:00", "08:00"),
	}

	diff := Entries(local, nil)
	if len(diff.Removed) != 2 || diff.Removed[0].ID != "a" {
		t.Fatalf("unexpected removed entries: %+v", diff.Removed)
	}
	if len(diff.Added) != 0 || len(diff.Changed) != 0 {
		t.Fatalf("unexpected diff: %+v", diff)
	}
}
