package ordertable

import (
	"context"
	"log/slog"

	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/logging"
	"github.com/evermart/ordertables/internal/mapper"
	"github.com/evermart/ordertables/internal/order"
	"github.com/evermart/ordertables/internal/repository"
)

// Resolver loads domain records with dual-read semantics: the normalized
// table is the sole source of truth once a row exists; on a miss the record
// is derived from legacy attributes and, when auto-backfill is enabled, a
// row is written through immediately. The normalized table thus behaves as
// a materialized cache over the legacy EAV store.
type Resolver struct {
	schema       *mapper.Schema
	meta         repository.MetaRepository
	tables       repository.TableRepository
	writer       *Writer
	autoBackfill bool
	logger       *slog.Logger
}

// LoadResult carries a loaded record and whether it came from (or was just
// written to) the normalized table.
type LoadResult struct {
	Record   order.Record
	Migrated bool
}

// NewResolver creates a resolver for one record type. autoBackfill controls
// the write-through-on-miss behavior; callers may disable it to make the
// normalized table strictly migration-driven.
func NewResolver(schema *mapper.Schema, meta repository.MetaRepository, tables repository.TableRepository, writer *Writer, autoBackfill bool, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.ForService("ordertable")
	}
	return &Resolver{
		schema:       schema,
		meta:         meta,
		tables:       tables,
		writer:       writer,
		autoBackfill: autoBackfill,
		logger:       logger,
	}
}

// Load resolves a record by ID. Once a normalized row exists the legacy
// attributes are never consulted.
func (r *Resolver) Load(ctx context.Context, id uint64) (*LoadResult, error) {
	row, err := r.tables.GetRow(ctx, r.schema.Table(), id)
	switch {
	case err == nil:
		rec := r.schema.New(id)
		if err := r.schema.FromColumns(rec, row); err != nil {
			return nil, err
		}
		rec.MarkClean()
		return &LoadResult{Record: rec, Migrated: true}, nil

	case errors.Is(err, repository.ErrRowNotFound):
		return r.loadFromLegacy(ctx, id)

	default:
		return nil, err
	}
}

// loadFromLegacy synthesizes the record from legacy attributes and, when
// auto-backfill is enabled, persists a normalized row immediately
// (self-healing cache: the first read after a migration gap writes through).
func (r *Resolver) loadFromLegacy(ctx context.Context, id uint64) (*LoadResult, error) {
	attrs, err := r.meta.GetAttributes(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMetaNotFound) {
			return nil, errors.Newf("record %d has no legacy attributes", id).
				Component("ordertable").
				Category(errors.CategoryRecordLoad).
				Context("record_type", string(r.schema.RecordType())).
				Build()
		}
		return nil, err
	}

	rec := r.schema.New(id)
	if err := r.schema.FromAttributes(rec, attrs); err != nil {
		return nil, errors.New(err).
			Component("ordertable").
			Category(errors.CategoryRecordLoad).
			Context("record_id", id).
			Build()
	}
	rec.MarkClean()

	if !r.autoBackfill {
		return &LoadResult{Record: rec, Migrated: false}, nil
	}

	if err := r.writer.Save(ctx, rec); err != nil {
		return nil, err
	}
	r.logger.Debug("backfilled normalized row on read miss",
		"record_type", string(r.schema.RecordType()),
		"record_id", id,
	)
	return &LoadResult{Record: rec, Migrated: true}, nil
}
