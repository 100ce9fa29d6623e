package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
)

type orderRepository struct {
	db *gorm.DB
}

// Create inserts the order together with its lines in one statement batch.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads the order aggregate. Menu snapshots are loaded unscoped so
// a line keeps resolving its item even after the item is retired from the
// catalogue.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.Menu", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Table").
		Preload("Customer").
		Preload("Waiter").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("OrderItems").
		Preload("OrderItems.Menu", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Table").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *orderRepository) UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total).Error
}
