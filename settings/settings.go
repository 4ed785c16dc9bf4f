package settings

import (
	"fmt"
	"strings"
	"sync"

	"zeiterfassung/worklog"
)

type Durable interface {
	LoadSettings() (worklog.Settings, bool, error)
	SaveSettings(settings worklog.Settings) error
}

// Store holds the process-wide settings. They are loaded once at startup and
// only change through Save.
type Store struct {
	mu      sync.RWMutex
	current worklog.Settings
	durable Durable
}

func NewStore(durable Durable) *Store {
	return &Store{
		current: worklog.DefaultSettings(),
		durable: durable,
	}
}

// Load reads the settings record. A missing record keeps the defaults.
func (s *Store) Load() error {
	loaded, found, err := s.durable.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return nil
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return nil
}

func (s *Store) Current() worklog.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save validates and persists the settings immediately.
func (s *Store) Save(next worklog.Settings) error {
	next.ScriptURL = strings.TrimSpace(next.ScriptURL)
	if err := next.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.durable.SaveSettings(next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.current = next
	return nil
}
