package models

import "time"

// EntityRecord stores one catalog item as JSON, keyed by entity name and
// the item's numeric id.
type EntityRecord struct {
	Entity    string `gorm:"type:text;primaryKey"`
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Payload   []byte `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EntityRecord) TableName() string {
	return "entity_records"
}
