package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justchokingaround/anenyong/internal/database"
)

// SettingsBackend stores values in the sqlite settings table
type SettingsBackend struct {
	db *gorm.DB
}

// NewSettingsBackend wraps an open database
func NewSettingsBackend(db *gorm.DB) *SettingsBackend {
	return &SettingsBackend{db: db}
}

// GetItem reads the key's settings row, returning ErrNotFound when there is none
func (s *SettingsBackend) GetItem(key string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database connection is nil")
	}

	var setting database.Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return setting.Value, nil
}

// SetItem upserts the key's settings row
func (s *SettingsBackend) SetItem(key, value string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&database.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the key's settings row. A missing row is not an error.
func (s *SettingsBackend) RemoveItem(key string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if err := s.db.Where("key = ?", key).Delete(&database.Setting{}).Error; err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}
