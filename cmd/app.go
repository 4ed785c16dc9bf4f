package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"zeiterfassung/config"
	"zeiterfassung/entrystore"
	"zeiterfassung/gateway"
	"zeiterfassung/internal/log"
	"zeiterfassung/mirror"
	"zeiterfassung/settings"
	"zeiterfassung/storage"
)

// application is the process-wide root. Every command and the web server
// receive the same instances by reference.
type application struct {
	config   config.Config
	logger   *log.Logger
	db       *storage.SQLiteStore
	settings *settings.Store
	syncer   *mirror.Syncer
	entries  *entrystore.Store
	gateway  *gateway.Gateway
}

func openApplication() (*application, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	return newApplication(*cfg, os.Stderr)
}

func newApplication(cfg config.Config, logOutput io.Writer) (*application, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{Level: level, Component: "app", Output: logOutput})
	log.SetDefault(logger)

	db, err := storage.OpenSQLite(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	settingsStore := settings.NewStore(db)
	if err := settingsStore.Load(); err != nil {
		_ = db.Close()
		return nil, err
	}

	client := mirror.NewClient(mirror.ClientConfig{
		CompanyName: cfg.Remote.CompanyName,
		UserAgent:   cfg.Remote.UserAgent,
		Timeout:     cfg.Remote.Timeout,
	})
	syncer := mirror.NewSyncer(client, settingsStore, logger.WithComponent("mirror"))

	entries := entrystore.New(db, syncer, entrystore.Options{Logger: logger.WithComponent("store")})
	if err := entries.Load(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		settings: settingsStore,
		syncer:   syncer,
		entries:  entries,
		gateway:  gateway.New(entries, logger.WithComponent("gateway")),
	}, nil
}

// Close gives in-flight pushes up to one remote timeout to finish and closes
// the database.
func (a *application) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Remote.Timeout+time.Second)
	defer cancel()
	if err := a.syncer.Wait(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: remote push still running on exit: %v\n", err)
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// withApplication opens the application root, runs fn and closes it again.
func withApplication(fn func(app *application) error) (err error) {
	app, err := openApplication()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(app)
}
