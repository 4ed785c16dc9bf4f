// Package entrystore owns the canonical list of time entries and keeps its
// durable copy in sync with every mutation.
package entrystore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"zeiterfassung/internal/log"
	"zeiterfassung/worklog"
)

// Durable is the local durable copy of the entry list.
type Durable interface {
	LoadEntries() ([]worklog.Entry, bool, error)
	SaveEntries(entries []worklog.Entry) error
}

// Pusher receives the full entry list after each successful mutation.
// Implementations must not block.
type Pusher interface {
	Dispatch(entries []worklog.Entry)
}

type Options struct {
	Logger *log.Logger
	NewID  func() string
}

type Store struct {
	mu      sync.Mutex
	entries []worklog.Entry

	durable Durable
	pusher  Pusher
	newID   func() string
	logger  *log.Logger
}

func New(durable Durable, pusher Pusher, options Options) *Store {
	newID := options.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := options.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		entries: []worklog.Entry{},
		durable: durable,
		pusher:  pusher,
		newID:   newID,
		logger:  logger,
	}
}

// Load replaces the in-memory list with the normalized durable copy. A missing
// record or a failed read leaves the in-memory list untouched.
func (s *Store) Load() error {
	loaded, found, err := s.durable.LoadEntries()
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	if !found {
		s.logger.Debug("no durable entries record")
		return nil
	}

	s.mu.Lock()
	s.entries = worklog.NormalizeAll(loaded)
	count := len(s.entries)
	s.mu.Unlock()

	s.logger.Info("entries loaded", "count", count)
	return nil
}

func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) List() []worklog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Get(id string) (worklog.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.entries[idx], true
	}
	return worklog.Entry{}, false
}

// Create validates the draft, appends a new entry with a fresh id, persists and
// dispatches a push.
func (s *Store) Create(draft worklog.Draft) (worklog.Entry, error) {
	created, err := s.CreateMany([]worklog.Draft{draft})
	if err != nil {
		return worklog.Entry{}, err
	}
	return created[0], nil
}

// CreateMany validates every draft before touching the list, then appends all
// of them with a single persist and a single push.
func (s *Store) CreateMany(drafts []worklog.Draft) ([]worklog.Entry, error) {
	for i, draft := range drafts {
		if err := draft.Validate(); err != nil {
			if len(drafts) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("draft %d: %w", i+1, err)
		}
	}
	if len(drafts) == 0 {
		return []worklog.Entry{}, nil
	}

	created := make([]worklog.Entry, 0, len(drafts))
	err := s.mutate(func(entries []worklog.Entry) ([]worklog.Entry, bool) {
		for _, draft := range drafts {
			entry := draft.Apply(worklog.Entry{ID: s.newID()})
			created = append(created, entry)
			entries = append(entries, entry)
		}
		return entries, true
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces date/from/to of the entry with the given id. An unknown id is
// a no-op and reports false, even when the draft is invalid.
func (s *Store) Update(id string, draft worklog.Draft) (worklog.Entry, bool, error) {
	if _, ok := s.Get(id); !ok {
		return worklog.Entry{}, false, nil
	}
	if err := draft.Validate(); err != nil {
		return worklog.Entry{}, false, err
	}

	var updated worklog.Entry
	found := false
	err := s.mutate(func(entries []worklog.Entry) ([]worklog.Entry, bool) {
		idx := slices.IndexFunc(entries, func(e worklog.Entry) bool { return e.ID == id })
		if idx < 0 {
			return entries, false
		}
		updated = draft.Apply(entries[idx])
		entries[idx] = updated
		found = true
		return entries, true
	})
	if err != nil {
		return worklog.Entry{}, false, err
	}
	return updated, found, nil
}

func (s *Store) Delete(id string) (bool, error) {
	removed, err := s.DeleteMany([]string{id})
	return removed > 0, err
}

// DeleteMany removes every entry whose id is listed and reports how many were
// removed.
func (s *Store) DeleteMany(ids []string) (int, error) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	removed := 0
	err := s.mutate(func(entries []worklog.Entry) ([]worklog.Entry, bool) {
		kept := entries[:0]
		for _, entry := range entries {
			if _, ok := drop[entry.ID]; ok {
				removed++
				continue
			}
			kept = append(kept, entry)
		}
		return kept, true
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Replace overwrites the whole list, used when the remote mirror returned a
// collection. Entries with an empty or repeated id get a fresh one. No push is
// dispatched.
func (s *Store) Replace(entries []worklog.Entry) error {
	normalized := worklog.NormalizeAll(entries)
	if reassigned := s.uniqueIDs(normalized); reassigned > 0 {
		s.logger.Warn("remote entries with empty or duplicate ids", "reassigned", reassigned)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.entries
	s.entries = normalized
	if err := s.persistLocked(); err != nil {
		s.entries = previous
		return err
	}
	s.logger.Info("entries replaced from remote", "count", len(normalized))
	return nil
}

// mutate runs fn on a copy of the list. When fn reports a change the copy is
// persisted and becomes current; a failed persist leaves the previous list in
// place so memory never diverges from disk.
func (s *Store) mutate(fn func(entries []worklog.Entry) ([]worklog.Entry, bool)) error {
	s.mu.Lock()

	previous := s.entries
	next, changed := fn(slices.Clone(previous))
	if !changed {
		s.mu.Unlock()
		return nil
	}

	s.entries = next
	if err := s.persistLocked(); err != nil {
		s.entries = previous
		s.mu.Unlock()
		return err
	}
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	if s.pusher != nil {
		s.pusher.Dispatch(snapshot)
	}
	return nil
}

// uniqueIDs gives every entry after the first one carrying an id, and every
// entry without one, a new id. It reports how many ids changed.
func (s *Store) uniqueIDs(entries []worklog.Entry) int {
	seen := make(map[string]struct{}, len(entries))
	reassigned := 0
	for i := range entries {
		_, dup := seen[entries[i].ID]
		if entries[i].ID == "" || dup {
			entries[i].ID = s.newID()
			reassigned++
		}
		seen[entries[i].ID] = struct{}{}
	}
	return reassigned
}

func (s *Store) persistLocked() error {
	if err := s.durable.SaveEntries(s.entries); err != nil {
		return fmt.Errorf("persist entries: %w", err)
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.entries, func(e worklog.Entry) bool { return e.ID == id })
}
