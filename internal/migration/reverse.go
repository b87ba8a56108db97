package migration

import (
	"context"
	"log/slog"

	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/events"
	"github.com/evermart/ordertables/internal/logging"
	"github.com/evermart/ordertables/internal/mapper"
	"github.com/evermart/ordertables/internal/order"
	"github.com/evermart/ordertables/internal/ordertable"
	"github.com/evermart/ordertables/internal/repository"
)

// ReverseDriver copies normalized rows back into legacy attribute storage.
// Unlike the forward driver it walks the normalized tables by plain
// limit/offset pagination, the cursor advancing by records processed.
type ReverseDriver struct {
	store      *repository.Store
	meta       repository.MetaRepository
	tables     repository.TableRepository
	schemas    []*mapper.Schema
	writers    map[order.RecordType]*ordertable.Writer
	batchSize  int
	deleteMeta bool
	logger     *slog.Logger
}

// NewReverseDriver creates a reverse migration driver over all known record
// types. With deleteMeta set, every mapped legacy attribute is removed after
// its values are copied back.
func NewReverseDriver(store *repository.Store, bus *events.Bus, batchSize int, deleteMeta bool, logger *slog.Logger) *ReverseDriver {
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
	return &ReverseDriver{
		store:      store,
		meta:       meta,
		tables:     tables,
		schemas:    schemas,
		writers:    writers,
		batchSize:  batchSize,
		deleteMeta: deleteMeta,
		logger:     logger,
	}
}

// Run copies rows back for every record type, starting at the given page of
// each table. A row that disappears between listing and processing is skipped;
// database failures abort the run.
func (d *ReverseDriver) Run(ctx context.Context, startPage int) (*Summary, error) {
	if err := d.store.EnsureSchema(); err != nil {
		return nil, err
	}

	summary := newSummary()
	for _, schema := range d.schemas {
		if err := d.reverseType(ctx, schema, startPage, summary); err != nil {
			return summary, err
		}
	}
	d.logger.Info("reverse migration finished",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"delete_meta", d.deleteMeta,
	)
	return summary, nil
}

func (d *ReverseDriver) reverseType(ctx context.Context, schema *mapper.Schema, startPage int, summary *Summary) error {
	writer := d.writers[schema.RecordType()]
	offset := startPage * d.batchSize

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ids, err := d.tables.ListMigratedIDs(ctx, schema.Table(), d.batchSize, offset)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		// The cursor advances by records actually processed, not rows listed.
		// A vanished row shrinks the table by one, so leaving it out of the
		// offset keeps the next page aligned.
		pageProcessed := 0
		for _, id := range ids {
			err := writer.ReverseMigrate(ctx, id, d.deleteMeta)
			switch {
			case err == nil:
				summary.Processed++
				pageProcessed++
			case errors.Is(err, repository.ErrRowNotFound):
				d.logger.Warn("row vanished during reverse migration, skipping",
					"record_type", string(schema.RecordType()),
					"record_id", id,
				)
				summary.Skipped++
			default:
				return err
			}
		}
		offset += pageProcessed
	}
}
