package entities

// OrderMeta is a sparse key/value attribute row of the legacy EAV store.
// The (order_id, meta_key) pair is unique so attribute writes can upsert.
type OrderMeta struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint64 `gorm:"column:order_id;uniqueIndex:idx_order_meta_key,priority:1"`
	MetaKey   string `gorm:"column:meta_key;size:191;uniqueIndex:idx_order_meta_key,priority:2"`
	MetaValue string `gorm:"column:meta_value"`
}

// TableName overrides the table name used by GORM.
func (OrderMeta) TableName() string {
	return "legacy_order_meta"
}
