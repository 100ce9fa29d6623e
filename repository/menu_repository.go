package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
)

type menuRepository struct {
	db *gorm.DB
}

func (r *menuRepository) FindByID(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.WithContext(ctx).Preload("Category").First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Menu, error) {
	var menus []models.Menu
	if len(ids) == 0 {
		return menus, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *menuRepository) FindAvailable(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_available = ?", true).
		Order("name ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}
