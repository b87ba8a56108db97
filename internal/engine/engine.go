// Package engine wires the storage, event and migration components together
// for the command surface. Commands stay thin wrappers around these entry
// points.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/evermart/ordertables/internal/conf"
	"github.com/evermart/ordertables/internal/events"
	"github.com/evermart/ordertables/internal/logging"
	"github.com/evermart/ordertables/internal/mapper"
	"github.com/evermart/ordertables/internal/migration"
	"github.com/evermart/ordertables/internal/order"
	"github.com/evermart/ordertables/internal/ordertable"
	"github.com/evermart/ordertables/internal/repository"
)

// session bundles the resources a single command invocation needs.
type session struct {
	store  *repository.Store
	bus    *events.Bus
	logger *slog.Logger
	close  func()
}

// newSession opens the configured database and sets up the run logger and
// event bus. With a migration log path configured, log output additionally
// goes to a rotating file. The audit consumer is attached in debug mode.
func newSession(settings *conf.Settings) (*session, error) {
	store, err := repository.Open(settings)
	if err != nil {
		return nil, err
	}

	logger := logging.ForService("migration")
	closeLog := func() {}
	if settings.Migration.LogPath != "" {
		fileLogger, closeFn, err := logging.NewFileLogger(settings.Migration.LogPath, "migration", slog.LevelInfo)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		logger = fileLogger
		closeLog = func() { _ = closeFn() }
	}

	bus := events.NewBus(events.DefaultConfig())
	if settings.Debug {
		if err := bus.RegisterConsumer(events.NewAuditConsumer(logger)); err != nil {
			closeLog()
			_ = store.Close()
			return nil, err
		}
	}

	return &session{
		store:  store,
		bus:    bus,
		logger: logger,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = bus.Shutdown(ctx)
			closeLog()
			_ = store.Close()
		},
	}, nil
}

// Migrate runs the forward batch migration over every record type.
func Migrate(ctx context.Context, settings *conf.Settings) (*migration.Summary, error) {
	s, err := newSession(settings)
	if err != nil {
		return nil, err
	}
	defer s.close()

	driver := migration.NewDriver(s.store, s.bus, settings.Migration.BatchSize, s.logger)
	return driver.Run(ctx)
}

// Backfill runs the reverse batch migration starting at the given page.
func Backfill(ctx context.Context, settings *conf.Settings, startPage int, deleteMeta bool) (*migration.Summary, error) {
	s, err := newSession(settings)
	if err != nil {
		return nil, err
	}
	defer s.close()

	driver := migration.NewReverseDriver(s.store, s.bus, settings.Migration.BatchSize, deleteMeta, s.logger)
	return driver.Run(ctx, startPage)
}

// CountPending returns the number of records still lacking a normalized row,
// summed over every record type.
func CountPending(ctx context.Context, settings *conf.Settings) (int64, error) {
	s, err := newSession(settings)
	if err != nil {
		return 0, err
	}
	defer s.close()

	if err := s.store.EnsureSchema(); err != nil {
		return 0, err
	}
	driver := migration.NewDriver(s.store, nil, settings.Migration.BatchSize, s.logger)
	return driver.CountPending(ctx)
}

// Inspect resolves one record through the dual-read path and returns its
// column values plus whether the normalized table already held it.
func Inspect(ctx context.Context, settings *conf.Settings, recordType order.RecordType, id uint64) (map[string]string, bool, error) {
	s, err := newSession(settings)
	if err != nil {
		return nil, false, err
	}
	defer s.close()

	if err := s.store.EnsureSchema(); err != nil {
		return nil, false, err
	}

	schema, err := mapper.For(recordType)
	if err != nil {
		return nil, false, err
	}
	meta := repository.NewMetaRepository(s.store.DB)
	tables := repository.NewTableRepository(s.store.DB)
	writer := ordertable.NewWriter(schema, meta, tables, s.bus, s.logger)
	resolver := ordertable.NewResolver(schema, meta, tables, writer, settings.Migration.AutoBackfill, s.logger)

	result, err := resolver.Load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	cols, err := schema.ToColumns(result.Record)
	if err != nil {
		return nil, false, err
	}
	return cols, result.Migrated, nil
}
