package main

import (
	"fmt"
	"os"

	"Artfi/internal/events"
	"Artfi/internal/ledger"
	"Artfi/internal/logger"
	"Artfi/internal/storage"
)

// App is an opened data directory: storage, ledger, event sinks and the sender.
type App struct {
	cfg     *Config
	db      *storage.Storage
	ledger  *ledger.Ledger
	journal *events.Journal
	bus     *events.Bus
	sender  ledger.Address
}

// openApp opens the data directory described by cfg.
func openApp(cfg *Config) (*App, error) {
	logger.SetLevel(cfg.LogLevel)

	var err error
	cfg.PrivateKey, err = loadOrGenerateKey(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("load key:\n%w", err)
	}

	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		return nil, fmt.Errorf("create data dir:\n%w", err)
	}

	db, err := storage.New(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open storage:\n%w", err)
	}

	a := &App{
		cfg:    cfg,
		db:     db,
		bus:    events.NewBus(),
		sender: cfg.Sender(),
	}

	a.ledger = ledger.New(db, a.bus)

	if cfg.Journal {
		a.journal = events.NewJournal(db)
		a.ledger.Subscribe(a.journal)
	}

	if err := a.bus.SubscribeAsync(events.AllTopic, logEvent); err != nil {
		db.Close()
		return nil, fmt.Errorf("subscribe event log:\n%w", err)
	}

	logger.Debug("data directory opened",
		"data", cfg.DataPath,
		"sender", a.sender.String(),
		"journal", cfg.Journal,
	)

	return a, nil
}

// Close drains asynchronous event handlers and closes storage.
func (a *App) Close() error {
	a.bus.Wait()

	return a.db.Close()
}

// logEvent logs one committed event.
func logEvent(ev ledger.Event) {
	args := []any{
		"kind", ev.Kind,
		"seq", ev.Sequence,
		"object", ev.ObjectID.String(),
	}

	for _, attr := range ev.Attrs {
		args = append(args, attr.Key, attr.Value)
	}

	logger.Info("event", args...)
}
