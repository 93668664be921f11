package models

import (
	"time"

	"gorm.io/gorm"
)

// Base holds the identifier and audit columns shared by every table.
type Base struct {
	UUID     string         `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	Created  time.Time      `gorm:"column:created;autoCreateTime" json:"created"`
	Modified time.Time      `gorm:"column:modified;autoUpdateTime" json:"modified"`
	Deleted  gorm.DeletedAt `gorm:"column:deleted;index" json:"deleted,omitzero"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&QuestionType{},
		&QuestionOptionType{},
		&Group{},
		&Question{},
		&QuestionOption{},
		&Survey{},
		&Answer{},
	}
}
