package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/evermart/ordertables/internal/errors"
)

// TableRepository is the interface to the normalized one-row-per-record
// tables. Rows are handled as column-name to string-value mappings produced
// and consumed by the row mapper; empty values are stored as NULL and NULL
// columns are omitted on read.
type TableRepository interface {
	// GetRow returns the row for the record, or ErrRowNotFound.
	GetRow(ctx context.Context, table string, id uint64) (map[string]string, error)

	// Exists reports whether a row for the record exists.
	Exists(ctx context.Context, table string, id uint64) (bool, error)

	// Insert creates a full row for the record. Returns false without error
	// when the insert did not take effect (zero rows affected or a
	// duplicate-key violation lost to a concurrent writer).
	Insert(ctx context.Context, table string, id uint64, cols map[string]string) (bool, error)

	// UpdateColumns updates only the given columns of the record's row.
	UpdateColumns(ctx context.Context, table string, id uint64, cols map[string]string) error

	// Delete removes the record's row. Deleting an absent row is not an error.
	Delete(ctx context.Context, table string, id uint64) error

	// Count returns the number of rows in the table.
	Count(ctx context.Context, table string) (int64, error)

	// ListMigratedIDs returns record IDs from the table in ascending order,
	// paginated by limit and offset.
	ListMigratedIDs(ctx context.Context, table string, limit, offset int) ([]uint64, error)
}

type gormTableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a TableRepository backed by the given database.
func NewTableRepository(db *gorm.DB) TableRepository {
	return &gormTableRepository{db: db}
}

func (r *gormTableRepository) GetRow(ctx context.Context, table string, id uint64) (map[string]string, error) {
	dest := map[string]any{}
	err := r.db.WithContext(ctx).
		Table(table).
		Where("order_id = ?", id).
		Take(&dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRowNotFound
	}
	if err != nil {
		return nil, dbError(err, "get_row", "table", table, "order_id", id)
	}

	row := make(map[string]string, len(dest))
	for col, val := range dest {
		if col == "order_id" || val == nil {
			continue
		}
		row[col] = scalarToString(val)
	}
	return row, nil
}

func (r *gormTableRepository) Exists(ctx context.Context, table string, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(table).
		Where("order_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, dbError(err, "exists", "table", table, "order_id", id)
	}
	return count > 0, nil
}

func (r *gormTableRepository) Insert(ctx context.Context, table string, id uint64, cols map[string]string) (bool, error) {
	values := make(map[string]any, len(cols)+1)
	values["order_id"] = id
	for col, val := range cols {
		if val == "" {
			values[col] = nil
			continue
		}
		values[col] = val
	}

	result := r.db.WithContext(ctx).Table(table).Create(values)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent writer; the row exists, the record
		// just was not written by us. Callers tolerate this as a no-op.
		return false, nil
	}
	if result.Error != nil {
		return false, dbError(result.Error, "insert", "table", table, "order_id", id)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormTableRepository) UpdateColumns(ctx context.Context, table string, id uint64, cols map[string]string) error {
	if len(cols) == 0 {
		return nil
	}
	values := make(map[string]any, len(cols))
	for col, val := range cols {
		if val == "" {
			values[col] = nil
			continue
		}
		values[col] = val
	}

	err := r.db.WithContext(ctx).
		Table(table).
		Where("order_id = ?", id).
		Updates(values).Error
	if err != nil {
		return dbError(err, "update_columns", "table", table, "order_id", id)
	}
	return nil
}

func (r *gormTableRepository) Delete(ctx context.Context, table string, id uint64) error {
	err := r.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE order_id = ?", table), id).Error
	if err != nil {
		return dbError(err, "delete", "table", table, "order_id", id)
	}
	return nil
}

func (r *gormTableRepository) Count(ctx context.Context, table string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(table).Count(&count).Error
	if err != nil {
		return 0, dbError(err, "count", "table", table)
	}
	return count, nil
}

func (r *gormTableRepository) ListMigratedIDs(ctx context.Context, table string, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Table(table).
		Order("order_id ASC").
		Limit(limit).
		Offset(offset).
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, dbError(err, "list_migrated", "table", table)
	}
	return ids, nil
}

// scalarToString normalizes the driver-dependent scalar types GORM scans
// into a map back to the string representation the row mapper expects.
func scalarToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
