package persistence

import (
	"time"
)

// ItemModel represents the items table
type ItemModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Position  int       `gorm:"column:position;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (ItemModel) TableName() string {
	return "items"
}
