package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order from JSON to avoid recursive nesting
	Order  Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID uint  `gorm:"not null" json:"menu_id"`
	Menu   Menu  `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`

	Quantity int `gorm:"not null" json:"quantity"`

	// Price is the menu price frozen at order creation. Later menu price
	// changes never touch it; historical totals stay exact.
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Subtotal is price-at-order times quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
