// Package reconcile finds entries that overlap in time or repeat each other,
// typically after an import or a pull.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"zeiterfassung/internal/timeutil"
	"zeiterfassung/worklog"
)

type Overlap struct {
	First  worklog.Entry
	Second worklog.Entry
	// Minutes both entries share.
	Minutes int
}

type Result struct {
	EntriesChecked int
	DaysProcessed  int
	Overlaps       []Overlap
	// Duplicates repeat date, from and to of an earlier entry in list order.
	Duplicates []worklog.Entry
	// Skipped counts entries whose date or clock values cannot be parsed.
	Skipped int
}

// Store is the entry list the duplicates are removed from.
type Store interface {
	List() []worklog.Entry
	DeleteMany(ids []string) (int, error)
}

type interval struct {
	entry worklog.Entry
	start int64
	end   int64
}

// Check inspects entries without modifying them. An entry that ends before
// it starts runs into the next day and can overlap entries of that day.
func Check(entries []worklog.Entry) Result {
	result := Result{EntriesChecked: len(entries)}
	if len(entries) == 0 {
		return result
	}

	days := make(map[string]struct{}, len(entries))
	seen := make(map[string]struct{}, len(entries))
	intervals := make([]interval, 0, len(entries))
	for _, entry := range entries {
		key := entryKey(entry)
		if _, ok := seen[key]; ok {
			result.Duplicates = append(result.Duplicates, entry)
			continue
		}
		seen[key] = struct{}{}

		in, ok := toInterval(entry)
		if !ok {
			result.Skipped++
			continue
		}
		days[entry.Date] = struct{}{}
		intervals = append(intervals, in)
	}
	result.DaysProcessed = len(days)
	result.Overlaps = findOverlaps(intervals)
	return result
}

// DuplicateIDs lists the ids of every duplicate in result.
func (r Result) DuplicateIDs() []string {
	ids := make([]string, 0, len(r.Duplicates))
	for _, entry := range r.Duplicates {
		ids = append(ids, entry.ID)
	}
	return ids
}

// RemoveDuplicates deletes every duplicate from store as one batch. The first
// entry of each group stays.
func RemoveDuplicates(store Store) (Result, int, error) {
	result := Check(store.List())
	if len(result.Duplicates) == 0 {
		return result, 0, nil
	}

	removed, err := store.DeleteMany(result.DuplicateIDs())
	if err != nil {
		return result, 0, fmt.Errorf("remove duplicate entries: %w", err)
	}
	return result, removed, nil
}

func findOverlaps(intervals []interval) []Overlap {
	if len(intervals) < 2 {
		return nil
	}

	sorted := append([]interval(nil), intervals...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		if sorted[i].end != sorted[j].end {
			return sorted[i].end < sorted[j].end
		}
		return sorted[i].entry.ID < sorted[j].entry.ID
	})

	overlaps := make([]Overlap, 0)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].start >= sorted[i].end {
				break
			}
			shared := min(sorted[i].end, sorted[j].end) - sorted[j].start
			overlaps = append(overlaps, Overlap{
				First:   sorted[i].entry,
				Second:  sorted[j].entry,
				Minutes: int(shared),
			})
		}
	}
	return overlaps
}

// toInterval places entry on an absolute minute axis. Calendar days are
// counted in UTC so daylight saving changes do not shift clock values.
func toInterval(entry worklog.Entry) (interval, bool) {
	day, err := time.Parse(timeutil.DateLayout, entry.Date)
	if err != nil {
		return interval{}, false
	}
	from, err := timeutil.ParseClockMinutes(entry.From)
	if err != nil {
		return interval{}, false
	}
	to, err := timeutil.ParseClockMinutes(entry.To)
	if err != nil {
		return interval{}, false
	}
	if to <= from {
		to += 24 * 60
	}

	start := day.Unix()/60 + int64(from)
	return interval{entry: entry, start: start, end: start + int64(to-from)}, true
}

func entryKey(entry worklog.Entry) string {
	return entry.Date + "|" + entry.From + "|" + entry.To
}
