package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM item repository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// List returns every item ordered by position
func (r *GormItemRepository) List(ctx context.Context) ([]*item.Item, error) {
	var models []ItemModel
	result := r.db.WithContext(ctx).Order("position ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list items: %w", result.Error)
	}

	items := make([]*item.Item, len(models))
	for i := range models {
		it, err := r.modelToItem(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert item model: %w", err)
		}
		items[i] = it
	}
	return items, nil
}

// Add appends the item after the current last position
func (r *GormItemRepository) Add(ctx context.Context, it *item.Item) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ItemModel{}).Where("name = ?", it.Name()).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check item name: %w", err)
		}
		if count > 0 {
			return &item.ItemExistsError{Name: it.Name()}
		}

		var last struct{ Position int }
		if err := tx.Model(&ItemModel{}).Select("COALESCE(MAX(position), 0) AS position").Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read last position: %w", err)
		}

		it.PlaceAt(last.Position + 1)
		return tx.Create(r.itemToModel(it)).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &item.ItemExistsError{Name: it.Name()}
	}
	return err
}

func (r *GormItemRepository) itemToModel(it *item.Item) *ItemModel {
	return &ItemModel{
		ID:        it.ID().String(),
		Name:      it.Name(),
		Position:  it.Position(),
		CreatedAt: it.CreatedAt(),
	}
}

func (r *GormItemRepository) modelToItem(model *ItemModel) (*item.Item, error) {
	id, err := item.NewItemIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	return item.ReconstructItem(id, model.Name, model.Position, model.CreatedAt), nil
}
