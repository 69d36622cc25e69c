// Package database provides a SQL-backed implementation of cache.Cache.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/lildude/fitpal/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the database for driver ("sqlite" or "postgres") and performs
// schema migration.
func InitDB(driver, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is not set")
	}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&model.KeyValue{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

// SQLCache stores each key as one row of the key_values table.
type SQLCache struct {
	db *gorm.DB
}

func NewSQLCache(db *gorm.DB) *SQLCache {
	return &SQLCache{db: db}
}

func (sc *SQLCache) Get(ctx context.Context, key string) (string, bool, error) {
	var kv model.KeyValue
	err := sc.db.WithContext(ctx).Where("name = ?", key).First(&kv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return kv.Value, true, nil
}

func (sc *SQLCache) Set(ctx context.Context, key, value string) error {
	kv := model.KeyValue{Name: key, Value: value}
	err := sc.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (sc *SQLCache) Delete(ctx context.Context, key string) error {
	if err := sc.db.WithContext(ctx).Where("name = ?", key).Delete(&model.KeyValue{}).Error; err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// Clear removes every row.
func (sc *SQLCache) Clear(ctx context.Context) error {
	err := sc.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.KeyValue{}).Error
	if err != nil {
		return fmt.Errorf("clearing key values: %w", err)
	}
	return nil
}
