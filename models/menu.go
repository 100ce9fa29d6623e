package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryType tells how an item's availability is accounted for. TRACKED
// items carry a finite stock quantity that order creation decrements;
// UNLIMITED items are always orderable while their availability flag is on.
type InventoryType string

const (
	InventoryTracked   InventoryType = "TRACKED"
	InventoryUnlimited InventoryType = "UNLIMITED"
)

// Valid reports whether t is a known inventory type.
func (t InventoryType) Valid() bool {
	return t == InventoryTracked || t == InventoryUnlimited
}

type Menu struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CategoryID  uint            `gorm:"not null" json:"category_id"`
	Category    MenuCategory    `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null;default:true" json:"is_available"`

	// Inventory bookkeeping. The whole group is non-NULL for TRACKED items
	// and NULL for UNLIMITED ones; switching inventory type moves the item
	// between the two shapes.
	InventoryType     InventoryType `gorm:"type:varchar(10);not null;default:'UNLIMITED'" json:"inventory_type"`
	StockQty          *int          `json:"stock_qty,omitempty"`
	InitialStock      *int          `json:"initial_stock,omitempty"`
	LowStockThreshold *int          `json:"low_stock_threshold,omitempty"`
	AutoUnavailable   *bool         `json:"auto_unavailable,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tracked reports whether the item has finite, decrementable stock.
func (m *Menu) Tracked() bool {
	return m.InventoryType == InventoryTracked
}

// CurrentStock returns the stock quantity of a TRACKED item, zero if the
// stock field was never initialised.
func (m *Menu) CurrentStock() int {
	if m.StockQty == nil {
		return 0
	}
	return *m.StockQty
}

// AutoBlocks reports whether hitting zero stock must flip the item
// unavailable.
func (m *Menu) AutoBlocks() bool {
	return m.AutoUnavailable != nil && *m.AutoUnavailable
}

// BelowThreshold reports whether a TRACKED item is at or under its low-stock
// threshold.
func (m *Menu) BelowThreshold() bool {
	if !m.Tracked() || m.LowStockThreshold == nil {
		return false
	}
	return m.CurrentStock() <= *m.LowStockThreshold
}
