package mirror

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"zeiterfassung/internal/log"
	"zeiterfassung/worklog"
)

type SettingsSource interface {
	Current() worklog.Settings
}

// Replacer accepts a pulled collection as the new canonical list.
type Replacer interface {
	Replace(entries []worklog.Entry) error
}

type remote interface {
	Pull(ctx context.Context, settings worklog.Settings) ([]worklog.Entry, error)
	Push(ctx context.Context, entries []worklog.Entry, settings worklog.Settings) error
}

// Status is informational only. Nothing in the sync path blocks on it.
type Status struct {
	Enabled   bool      `json:"enabled"`
	LastPull  time.Time `json:"lastPull,omitzero"`
	LastPush  time.Time `json:"lastPush,omitzero"`
	LastError string    `json:"lastError,omitempty"`
	InFlight  int       `json:"inFlight"`
}

// Syncer dispatches pushes in the background and applies pulls to a target.
// Pushes and pulls are not ordered against each other.
type Syncer struct {
	client   remote
	settings SettingsSource
	logger   *log.Logger
	now      func() time.Time

	wg sync.WaitGroup

	mu     sync.Mutex
	status Status
}

func NewSyncer(client remote, settings SettingsSource, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Syncer{
		client:   client,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch sends entries to the remote without blocking the caller. Failures
// are logged and recorded in the status.
func (s *Syncer) Dispatch(entries []worklog.Entry) {
	current := s.settings.Current()
	if !Enabled(current) {
		return
	}

	snapshot := slices.Clone(entries)
	s.wg.Add(1)
	s.track(1)
	go func() {
		defer s.wg.Done()
		defer s.track(-1)

		if err := s.client.Push(context.Background(), snapshot, current); err != nil {
			s.logger.Warn("push to remote failed", "error", err)
			s.recordError(err)
			return
		}
		s.mu.Lock()
		s.status.LastPush = s.now()
		s.mu.Unlock()
		s.logger.Debug("pushed entries to remote", "count", len(snapshot))
	}()
}

// Refresh pulls the remote collection and hands it to target. Any failure
// leaves target untouched.
func (s *Syncer) Refresh(ctx context.Context, target Replacer) error {
	current := s.settings.Current()
	s.track(1)
	defer s.track(-1)

	entries, err := s.client.Pull(ctx, current)
	if err != nil {
		if !errors.Is(err, ErrDisabled) {
			s.logger.Warn("pull from remote failed", "error", err)
			s.recordError(err)
		}
		return err
	}
	if err := target.Replace(entries); err != nil {
		s.logger.Error("apply pulled entries failed", "error", err)
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	s.status.LastPull = s.now()
	s.status.LastError = ""
	s.mu.Unlock()
	s.logger.Info("pulled entries from remote", "count", len(entries))
	return nil
}

// Wait blocks until every dispatched push has finished or ctx is done.
func (s *Syncer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.status
	status.Enabled = Enabled(s.settings.Current())
	return status
}

func (s *Syncer) track(delta int) {
	s.mu.Lock()
	s.status.InFlight += delta
	s.mu.Unlock()
}

func (s *Syncer) recordError(err error) {
	s.mu.Lock()
	s.status.LastError = err.Error()
	s.mu.Unlock()
}
