package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/evermart/ordertables/internal/repository/entities"
)

// newTestStore opens an in-memory SQLite database with the full schema.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	store := &Store{DB: db}
	require.NoError(t, store.EnsureSchema())
	return store
}

// seedLegacyOrder inserts a legacy primary row plus its meta attributes.
func seedLegacyOrder(t *testing.T, store *Store, id uint64, recordType string, createdAt time.Time, attrs map[string]string) {
	t.Helper()

	require.NoError(t, store.DB.Create(&entities.LegacyOrder{
		ID:         id,
		RecordType: recordType,
		CreatedAt:  createdAt,
	}).Error)

	for key, value := range attrs {
		require.NoError(t, store.DB.Create(&entities.OrderMeta{
			OrderID:   id,
			MetaKey:   key,
			MetaValue: value,
		}).Error)
	}
}
