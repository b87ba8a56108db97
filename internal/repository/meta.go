package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/evermart/ordertables/internal/order"
	"github.com/evermart/ordertables/internal/repository/entities"
)

// MetaRepository is the interface to the legacy EAV store: sparse attribute
// rows keyed by record ID, plus the anti-join queries that find records not
// yet present in a normalized table.
type MetaRepository interface {
	// GetAttributes returns every attribute of the record as a key/value
	// mapping. Returns ErrMetaNotFound when the record has no attributes.
	GetAttributes(ctx context.Context, id uint64) (map[string]string, error)

	// SetAttributes upserts the given attributes for the record.
	SetAttributes(ctx context.Context, id uint64, attrs map[string]string) error

	// DeleteAttribute removes one attribute key of the record. Deleting an
	// absent key is not an error.
	DeleteAttribute(ctx context.Context, id uint64, key string) error

	// CountPending counts records of the given type with no row in the
	// normalized table.
	CountPending(ctx context.Context, recordType order.RecordType, table string) (int64, error)

	// ListPendingIDs returns up to limit record IDs of the given type with
	// no row in the normalized table, newest first by creation date.
	ListPendingIDs(ctx context.Context, recordType order.RecordType, table string, limit int) ([]uint64, error)
}

type gormMetaRepository struct {
	db *gorm.DB
}

// NewMetaRepository creates a MetaRepository backed by the given database.
func NewMetaRepository(db *gorm.DB) MetaRepository {
	return &gormMetaRepository{db: db}
}

func (r *gormMetaRepository) GetAttributes(ctx context.Context, id uint64) (map[string]string, error) {
	var rows []entities.OrderMeta
	err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "get_attributes", "order_id", id)
	}
	if len(rows) == 0 {
		return nil, ErrMetaNotFound
	}

	attrs := make(map[string]string, len(rows))
	for i := range rows {
		attrs[rows[i].MetaKey] = rows[i].MetaValue
	}
	return attrs, nil
}

func (r *gormMetaRepository) SetAttributes(ctx context.Context, id uint64, attrs map[string]string) error {
	if len(attrs) == 0 {
		return nil
	}
	rows := make([]entities.OrderMeta, 0, len(attrs))
	for key, value := range attrs {
		rows = append(rows, entities.OrderMeta{OrderID: id, MetaKey: key, MetaValue: value})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "meta_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
		}).
		Create(&rows).Error
	if err != nil {
		return dbError(err, "set_attributes", "order_id", id)
	}
	return nil
}

func (r *gormMetaRepository) DeleteAttribute(ctx context.Context, id uint64, key string) error {
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND meta_key = ?", id, key).
		Delete(&entities.OrderMeta{}).Error
	if err != nil {
		return dbError(err, "delete_attribute", "order_id", id, "meta_key", key)
	}
	return nil
}

func (r *gormMetaRepository) CountPending(ctx context.Context, recordType order.RecordType, table string) (int64, error) {
	var count int64
	err := r.pendingQuery(ctx, recordType, table).Count(&count).Error
	if err != nil {
		return 0, dbError(err, "count_pending", "record_type", string(recordType))
	}
	return count, nil
}

func (r *gormMetaRepository) ListPendingIDs(ctx context.Context, recordType order.RecordType, table string, limit int) ([]uint64, error) {
	var ids []uint64
	err := r.pendingQuery(ctx, recordType, table).
		Order("lo.created_at DESC, lo.id DESC").
		Limit(limit).
		Pluck("lo.id", &ids).Error
	if err != nil {
		return nil, dbError(err, "list_pending", "record_type", string(recordType))
	}
	return ids, nil
}

// pendingQuery builds the anti-join between the legacy primary table and a
// normalized table: legacy records of the given type with no counterpart row.
func (r *gormMetaRepository) pendingQuery(ctx context.Context, recordType order.RecordType, table string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("legacy_orders AS lo").
		Joins(fmt.Sprintf("LEFT JOIN %s AS t ON t.order_id = lo.id", table)).
		Where("lo.record_type = ? AND t.order_id IS NULL", string(recordType))
}
