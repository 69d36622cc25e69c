// Package model holds the gorm models for the SQL-backed store.
package model

import "time"

// KeyValue is one persisted JSON value, keyed by its storage name.
type KeyValue struct {
	Name      string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}
