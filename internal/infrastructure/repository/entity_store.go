package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/geritapp/gerit/internal/csvimport"
	"github.com/geritapp/gerit/internal/infrastructure/db/models"
)

// EntityStore persists one catalog as JSON documents in entity_records.
type EntityStore[T csvimport.Identifiable[T]] struct {
	db     *gorm.DB
	entity string
}

func NewEntityStore[T csvimport.Identifiable[T]](db *gorm.DB, entity string) *EntityStore[T] {
	return &EntityStore[T]{db: db, entity: entity}
}

// Load returns the items newest first, the order catalogs keep them in.
func (s *EntityStore[T]) Load(ctx context.Context) ([]T, error) {
	var rows []models.EntityRecord
	err := s.db.WithContext(ctx).
		Where("entity = ?", s.entity).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.entity, err)
	}

	items := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := json.Unmarshal(row.Payload, &item); err != nil {
			return nil, fmt.Errorf("decode %s %d: %w", s.entity, row.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Save upserts items in one statement.
func (s *EntityStore[T]) Save(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]models.EntityRecord, 0, len(items))
	for i, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode %s %d: %w", s.entity, item.EntityID(), err)
		}
		rows = append(rows, models.EntityRecord{
			Entity:  s.entity,
			ID:      item.EntityID(),
			Payload: payload,
			// Earlier items in a batch are newer.
			CreatedAt: now.Add(-time.Duration(i) * time.Microsecond),
			UpdatedAt: now,
		})
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", s.entity, err)
	}
	return nil
}

func (s *EntityStore[T]) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).
		Where("entity = ? AND id = ?", s.entity, id).
		Delete(&models.EntityRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", s.entity, id, err)
	}
	return nil
}
