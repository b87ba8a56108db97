// Package ordertable implements the dual-read and write-back engine over
// the normalized order tables: reads fall back to the legacy EAV store,
// writes upsert one row per record and emit change notifications.
package ordertable

import (
	"context"
	"log/slog"

	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/events"
	"github.com/evermart/ordertables/internal/logging"
	"github.com/evermart/ordertables/internal/mapper"
	"github.com/evermart/ordertables/internal/order"
	"github.com/evermart/ordertables/internal/repository"
)

// Writer persists domain records to their normalized table and copies rows
// back into legacy attribute storage. Both migration directions go through
// Save so there is exactly one write path.
type Writer struct {
	schema *mapper.Schema
	meta   repository.MetaRepository
	tables repository.TableRepository
	bus    *events.Bus
	logger *slog.Logger
}

// NewWriter creates a writer for one record type. The event bus may be nil;
// notifications are then skipped.
func NewWriter(schema *mapper.Schema, meta repository.MetaRepository, tables repository.TableRepository, bus *events.Bus, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = logging.ForService("ordertable")
	}
	return &Writer{
		schema: schema,
		meta:   meta,
		tables: tables,
		bus:    bus,
		logger: logger,
	}
}

// Save upserts the normalized row for the record. A missing row is inserted
// in full; an existing row is updated only in the columns journaled as
// changed. An insert that did not take effect (lost race, zero rows
// affected) is a silent no-op: the record stays unmigrated and a later pass
// retries it. A change notification fires only on a real write.
func (w *Writer) Save(ctx context.Context, rec order.Record) error {
	cols, err := w.schema.ToColumns(rec)
	if err != nil {
		return err
	}

	exists, err := w.tables.Exists(ctx, w.schema.Table(), rec.ID())
	if err != nil {
		return err
	}

	if !exists {
		written, err := w.tables.Insert(ctx, w.schema.Table(), rec.ID(), cols)
		if err != nil {
			return err
		}
		if !written {
			w.logger.Debug("insert took no effect, leaving record unmigrated",
				"record_type", string(rec.Type()),
				"record_id", rec.ID(),
			)
			return nil
		}
		w.notify(rec, cols)
		rec.MarkClean()
		return nil
	}

	// Change set: intersection of the full column mapping with the record's
	// change journal. The journal is the record's own mutation log, not a
	// diff against the database.
	changed := make(map[string]string)
	for _, col := range rec.Changed() {
		if val, ok := cols[col]; ok {
			changed[col] = val
		}
	}
	if len(changed) == 0 {
		return nil
	}

	if err := w.tables.UpdateColumns(ctx, w.schema.Table(), rec.ID(), changed); err != nil {
		return err
	}
	w.notify(rec, changed)
	rec.MarkClean()
	return nil
}

// ReverseMigrate copies the record's normalized row back into legacy
// attribute storage, then re-hydrates from legacy and runs Save so any
// divergence flows back through the shared write path. With deleteMeta set,
// every legacy attribute key in the static mapping is removed afterwards.
// Database failures come back as error values for the batch driver to act on.
func (w *Writer) ReverseMigrate(ctx context.Context, id uint64, deleteMeta bool) error {
	row, err := w.tables.GetRow(ctx, w.schema.Table(), id)
	if err != nil {
		return err
	}

	rec := w.schema.New(id)
	if err := w.schema.FromColumns(rec, row); err != nil {
		return err
	}

	attrs, err := w.schema.ToAttributes(rec)
	if err != nil {
		return err
	}
	if err := w.meta.SetAttributes(ctx, id, attrs); err != nil {
		return err
	}

	// Force a refresh from legacy rather than trusting in-memory state, then
	// let Save reconcile the row. Baseline the fresh record on the row so
	// only true divergence lands in its change journal.
	fresh := w.schema.New(id)
	if err := w.schema.FromColumns(fresh, row); err != nil {
		return err
	}
	fresh.MarkClean()

	current, err := w.meta.GetAttributes(ctx, id)
	if err != nil {
		return errors.New(err).
			Component("ordertable").
			Category(errors.CategoryRecordLoad).
			Context("record_id", id).
			Build()
	}
	if err := w.schema.FromAttributes(fresh, current); err != nil {
		return err
	}
	if err := w.Save(ctx, fresh); err != nil {
		return err
	}

	if !deleteMeta {
		return nil
	}
	for _, col := range w.schema.Columns() {
		key, ok := w.schema.MetaKey(col)
		if !ok {
			continue
		}
		if err := w.meta.DeleteAttribute(ctx, id, key); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) notify(rec order.Record, changed map[string]string) {
	if w.bus == nil {
		return
	}
	w.bus.TryPublish(events.NewRecordUpdated(rec, changed))
}
