package database

import (
	"time"

	"gorm.io/gorm"
)

// Setting is one entry of the local key/value store.
// Values are opaque strings; the history ledger lives under a single key.
type Setting struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (Setting) TableName() string {
	return "settings"
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Setting{})
}
