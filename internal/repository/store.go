// Package repository provides the storage interfaces and GORM-backed
// implementations for the legacy EAV store and the normalized order tables.
//
// All repositories return sentinel errors (ErrRowNotFound, ErrMetaNotFound)
// instead of leaking GORM errors, so callers stay independent of the
// storage backend.
package repository

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/evermart/ordertables/internal/conf"
	"github.com/evermart/ordertables/internal/repository/entities"
)

// Store wraps the GORM database handle shared by the repositories. It is an
// injected dependency, not a process-wide singleton.
type Store struct {
	DB *gorm.DB
}

// Open connects to the configured database backend. TranslateError is
// enabled so duplicate-key violations surface as gorm.ErrDuplicatedKey on
// both SQLite and MySQL.
func Open(settings *conf.Settings) (*Store, error) {
	cfg := &gorm.Config{
		Logger:         gormLogMode(settings),
		TranslateError: true,
	}

	switch {
	case settings.Database.SQLite.Enabled:
		db, err := gorm.Open(sqlite.Open(settings.Database.SQLite.Path), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		return &Store{DB: db}, nil

	case settings.Database.MySQL.Enabled:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			settings.Database.MySQL.Username, settings.Database.MySQL.Password,
			settings.Database.MySQL.Host, settings.Database.MySQL.Port,
			settings.Database.MySQL.Database)
		db, err := gorm.Open(mysql.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}
		return &Store{DB: db}, nil

	default:
		return nil, fmt.Errorf("no database backend enabled")
	}
}

func gormLogMode(settings *conf.Settings) gormlogger.Interface {
	if settings.Debug {
		return gormlogger.Default.LogMode(gormlogger.Info)
	}
	return gormlogger.Default.LogMode(gormlogger.Warn)
}

// EnsureSchema creates or updates all tables owned by the engine.
func (s *Store) EnsureSchema() error {
	return s.DB.AutoMigrate(
		&entities.LegacyOrder{},
		&entities.OrderMeta{},
		&entities.OrderRow{},
		&entities.RefundRow{},
	)
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
