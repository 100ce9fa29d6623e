package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderType distinguishes how an order reaches the restaurant. EXTERNAL
// covers delivery-platform channels; those orders carry the platform's own
// reference in ExternalOrderID.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeAway OrderType = "TAKE_AWAY"
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypeExternal OrderType = "EXTERNAL"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeAway, OrderTypeDelivery, OrderTypeExternal:
		return true
	}
	return false
}

type Order struct {
	ID     uint        `gorm:"primaryKey" json:"id"`
	Status OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Type   OrderType   `gorm:"type:varchar(20);not null" json:"type"`

	// TotalAmount is written once, after the lines are known, and always
	// equals the sum of price-at-order times quantity over the lines.
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0.00" json:"total_amount"`

	TableID         *uint     `gorm:"index" json:"table_id,omitempty"`
	Table           *Table    `gorm:"foreignKey:TableID" json:"table,omitempty"`
	CustomerID      *uint     `gorm:"index" json:"customer_id,omitempty"`
	Customer        *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	WaiterID        uint      `gorm:"not null;index" json:"waiter_id"`
	Waiter          User      `gorm:"foreignKey:WaiterID" json:"waiter"`
	ExternalOrderID *string   `gorm:"type:varchar(100)" json:"external_order_id,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Terminal reports whether the order reached a final status.
func (o *Order) Terminal() bool {
	return o.Status.Terminal()
}
