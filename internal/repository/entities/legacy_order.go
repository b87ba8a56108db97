// Package entities defines the GORM models for the legacy store and the
// normalized order tables.
package entities

import "time"

// LegacyOrder is a row of the legacy primary entity table. Records of every
// tracked type live here; their attributes are scattered across OrderMeta
// rows until migrated.
type LegacyOrder struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	RecordType string    `gorm:"column:record_type;size:32;index"`
	ParentID   uint64    `gorm:"column:parent_id;index"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

// TableName overrides the table name used by GORM.
func (LegacyOrder) TableName() string {
	return "legacy_orders"
}
