// Package classify compares the local entry list with a remote collection.
package classify

import (
	"sort"

	"zeiterfassung/worklog"
)

type Change struct {
	Local  worklog.Entry
	Remote worklog.Entry
}

// Diff describes what replacing local with remote would do, matched by id.
type Diff struct {
	// Added exist only remotely.
	Added []worklog.Entry
	// Removed exist only locally and would be lost.
	Removed   []worklog.Entry
	Changed   []Change
	Unchanged int
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Entries compares both lists after normalizing remote. Results are ordered by
// date, then start time, then id.
func Entries(local, remote []worklog.Entry) Diff {
	localByID := make(map[string]worklog.Entry, len(local))
	for _, entry := range local {
		localByID[entry.ID] = entry
	}

	diff := Diff{}
	seen := make(map[string]struct{}, len(remote))
	for _, candidate := range worklog.NormalizeAll(remote) {
		seen[candidate.ID] = struct{}{}
		existing, ok := localByID[candidate.ID]
		if !ok {
			diff.Added = append(diff.Added, candidate)
			continue
		}
		if equivalent(existing, candidate) {
			diff.Unchanged++
			continue
		}
		diff.Changed = append(diff.Changed, Change{Local: existing, Remote: candidate})
	}

	for _, entry := range local {
		if _, ok := seen[entry.ID]; !ok {
			diff.Removed = append(diff.Removed, entry)
		}
	}

	sortEntries(diff.Added)
	sortEntries(diff.Removed)
	sort.SliceStable(diff.Changed, func(i, j int) bool {
		return less(diff.Changed[i].Local, diff.Changed[j].Local)
	})
	return diff
}

func equivalent(a, b worklog.Entry) bool {
	return a.Date == b.Date && a.From == b.From && a.To == b.To
}

func sortEntries(entries []worklog.Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
}

func less(a, b worklog.Entry) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.From != b.From {
		return a.From < b.From
	}
	return a.ID < b.ID
}
