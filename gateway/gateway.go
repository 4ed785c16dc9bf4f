// Package gateway coordinates user-triggered mutations with the entry store and
// owns the multi-select state used for batch deletion.
package gateway

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"zeiterfassung/internal/log"
	"zeiterfassung/worklog"
)

var ErrNotConfirmed = errors.New("batch delete not confirmed")

type Store interface {
	Create(draft worklog.Draft) (worklog.Entry, error)
	Update(id string, draft worklog.Draft) (worklog.Entry, bool, error)
	Delete(id string) (bool, error)
	DeleteMany(ids []string) (int, error)
}

// Confirmer asks the user before a batch delete touches the store.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always confirms without asking.
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

type State struct {
	MultiSelect bool     `json:"multiSelect"`
	Selected    []string `json:"selected"`
}

func (s State) Count() int { return len(s.Selected) }

func (s State) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}

type Gateway struct {
	store  Store
	logger *log.Logger

	mu          sync.Mutex
	multiSelect bool
	selected    map[string]struct{}
	listeners   []func(State)
}

func New(store Store, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Discard()
	}
	return &Gateway{
		store:    store,
		logger:   logger,
		selected: map[string]struct{}{},
	}
}

func (g *Gateway) Create(draft worklog.Draft) (worklog.Entry, error) {
	entry, err := g.store.Create(draft)
	if err != nil {
		return worklog.Entry{}, err
	}
	g.logger.Debug("entry created", "id", entry.ID)
	return entry, nil
}

func (g *Gateway) Update(id string, draft worklog.Draft) (worklog.Entry, bool, error) {
	entry, found, err := g.store.Update(id, draft)
	if err != nil {
		return worklog.Entry{}, false, err
	}
	if found {
		g.logger.Debug("entry updated", "id", id)
	}
	return entry, found, nil
}

// Delete removes a single entry and drops it from the selection if present.
func (g *Gateway) Delete(id string) (bool, error) {
	removed, err := g.store.Delete(id)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	_, wasSelected := g.selected[id]
	delete(g.selected, id)
	state := g.stateLocked()
	g.mu.Unlock()

	if wasSelected {
		g.notify(state)
	}
	return removed, nil
}

// ToggleMultiSelect flips the mode. The selection is cleared either way.
func (g *Gateway) ToggleMultiSelect() State {
	g.mu.Lock()
	g.multiSelect = !g.multiSelect
	clear(g.selected)
	state := g.stateLocked()
	g.mu.Unlock()

	g.notify(state)
	return state
}

// ToggleSelection adds or removes id. Outside multi-select mode it does
// nothing and reports false.
func (g *Gateway) ToggleSelection(id string) (State, bool) {
	g.mu.Lock()
	if !g.multiSelect {
		state := g.stateLocked()
		g.mu.Unlock()
		return state, false
	}
	if _, ok := g.selected[id]; ok {
		delete(g.selected, id)
	} else {
		g.selected[id] = struct{}{}
	}
	state := g.stateLocked()
	g.mu.Unlock()

	g.notify(state)
	return state, true
}

// DeleteSelected removes every selected entry after confirmation. An empty
// selection is a no-op. Once the store accepted the delete the selection is
// cleared and multi-select mode ends, whatever the number of removed entries.
func (g *Gateway) DeleteSelected(confirmer Confirmer) (int, error) {
	g.mu.Lock()
	ids := g.selectedIDsLocked()
	g.mu.Unlock()

	if len(ids) == 0 {
		return 0, nil
	}
	if confirmer == nil || !confirmer.Confirm(DeletePrompt(len(ids))) {
		return 0, ErrNotConfirmed
	}

	removed, err := g.store.DeleteMany(ids)
	if err != nil {
		return 0, fmt.Errorf("delete selected entries: %w", err)
	}

	g.mu.Lock()
	g.multiSelect = false
	clear(g.selected)
	state := g.stateLocked()
	g.mu.Unlock()

	g.logger.Info("batch delete", "selected", len(ids), "removed", removed)
	g.notify(state)
	return removed, nil
}

func DeletePrompt(count int) string {
	return fmt.Sprintf("%d Einträge wirklich löschen?", count)
}

func (g *Gateway) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

// Subscribe registers fn for every later state change and returns a function
// that removes it.
func (g *Gateway) Subscribe(fn func(State)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
	index := len(g.listeners) - 1

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if index < len(g.listeners) {
			g.listeners[index] = nil
		}
	}
}

func (g *Gateway) notify(state State) {
	g.mu.Lock()
	listeners := make([]func(State), 0, len(g.listeners))
	for _, fn := range g.listeners {
		if fn != nil {
			listeners = append(listeners, fn)
		}
	}
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

func (g *Gateway) stateLocked() State {
	return State{MultiSelect: g.multiSelect, Selected: g.selectedIDsLocked()}
}

func (g *Gateway) selectedIDsLocked() []string {
	ids := make([]string, 0, len(g.selected))
	for id := range g.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
