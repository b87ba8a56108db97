// Package migration contains the batch drivers that move records between the
// legacy EAV store and the normalized tables. The forward driver is
// idempotent and resumable; pending records are discovered by anti-join, so
// every run picks up exactly the records no earlier run finished.
package migration

import (
	"context"
	"log/slog"
	"slices"

	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/events"
	"github.com/evermart/ordertables/internal/logging"
	"github.com/evermart/ordertables/internal/mapper"
	"github.com/evermart/ordertables/internal/order"
	"github.com/evermart/ordertables/internal/ordertable"
	"github.com/evermart/ordertables/internal/repository"
)

// ErrNoProgress aborts a run that fetched the same pending batch twice in a
// row. Without the guard a batch of permanently unloadable records would loop
// forever.
var ErrNoProgress = errors.NewStd("migration made no progress over a full batch")

// Summary reports what one migration run did.
type Summary struct {
	// Processed is the number of records written to their normalized table.
	Processed int
	// Migrated breaks Processed down by record type.
	Migrated map[order.RecordType]int
	// Skipped is the number of records that failed to load this run.
	Skipped int
	// Pending is the number of records still unmigrated after the run.
	Pending int64
}

func newSummary() *Summary {
	return &Summary{Migrated: make(map[order.RecordType]int)}
}

// Driver runs the forward migration for every registered record type,
// primary records before dependent ones.
type Driver struct {
	store     *repository.Store
	meta      repository.MetaRepository
	tables    repository.TableRepository
	schemas   []*mapper.Schema
	writers   map[order.RecordType]*ordertable.Writer
	batchSize int
	logger    *slog.Logger
}

// NewDriver creates a forward migration driver over all known record types.
// The event bus may be nil to suppress change notifications during bulk runs.
func NewDriver(store *repository.Store, bus *events.Bus, batchSize int, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = logging.ForService("migration")
	}
	meta := repository.NewMetaRepository(store.DB)
	tables := repository.NewTableRepository(store.DB)

	schemas := mapper.All()
	writers := make(map[order.RecordType]*ordertable.Writer, len(schemas))
	for _, schema := range schemas {
		writers[schema.RecordType()] = ordertable.NewWriter(schema, meta, tables, bus, logger)
	}
	return &Driver{
		store:     store,
		meta:      meta,
		tables:    tables,
		schemas:   schemas,
		writers:   writers,
		batchSize: batchSize,
		logger:    logger,
	}
}

// CountPending sums the pending record counts across all record types.
func (d *Driver) CountPending(ctx context.Context) (int64, error) {
	var total int64
	for _, schema := range d.schemas {
		n, err := d.meta.CountPending(ctx, schema.RecordType(), schema.Table())
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Run migrates every pending record in batches until none remain. Records
// whose legacy attributes are missing or corrupt are skipped for the rest of
// the run and stay pending for the next one. Database write failures abort
// the run.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	if err := d.store.EnsureSchema(); err != nil {
		return nil, err
	}

	pending, err := d.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	if pending == 0 {
		d.logger.Warn("no pending records, nothing to do")
		return newSummary(), nil
	}
	d.logger.Info("starting migration", "pending", pending, "batch_size", d.batchSize)

	summary := newSummary()
	for _, schema := range d.schemas {
		if err := d.migrateType(ctx, schema, summary); err != nil {
			return summary, err
		}
	}

	summary.Pending, err = d.CountPending(ctx)
	if err != nil {
		return summary, err
	}
	d.logger.Info("migration finished",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"pending", summary.Pending,
	)
	return summary, nil
}

// migrateType drains the pending set of one record type. skip holds the IDs
// that failed to load this run; they are not retried until the next run.
func (d *Driver) migrateType(ctx context.Context, schema *mapper.Schema, summary *Summary) error {
	writer := d.writers[schema.RecordType()]
	skip := make(map[uint64]struct{})
	var prev []uint64

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ids, err := d.meta.ListPendingIDs(ctx, schema.RecordType(), schema.Table(), d.batchSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if slices.Equal(ids, prev) {
			return errors.New(ErrNoProgress).
				Component("migration").
				Category(errors.CategoryMigration).
				Context("record_type", string(schema.RecordType())).
				Context("batch_size", d.batchSize).
				Build()
		}
		prev = slices.Clone(ids)

		for _, id := range ids {
			if _, skipped := skip[id]; skipped {
				continue
			}

			rec, err := d.loadLegacy(ctx, schema, id)
			if err != nil {
				d.logger.Warn("skipping record that failed to load",
					"record_type", string(schema.RecordType()),
					"record_id", id,
					"error", err,
				)
				skip[id] = struct{}{}
				summary.Skipped++
				continue
			}

			if err := writer.Save(ctx, rec); err != nil {
				return err
			}
			summary.Processed++
			summary.Migrated[schema.RecordType()]++
		}
	}
}

// loadLegacy builds a record from its legacy attributes.
func (d *Driver) loadLegacy(ctx context.Context, schema *mapper.Schema, id uint64) (order.Record, error) {
	attrs, err := d.meta.GetAttributes(ctx, id)
	if err != nil {
		return nil, err
	}
	rec := schema.New(id)
	if err := schema.FromAttributes(rec, attrs); err != nil {
		return nil, err
	}
	return rec, nil
}
