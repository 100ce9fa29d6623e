package models

import "time"

// AdjustmentKind records what caused a stock mutation.
type AdjustmentKind string

const (
	AdjustDailyReset     AdjustmentKind = "DAILY_RESET"
	AdjustManualAdd      AdjustmentKind = "MANUAL_ADD"
	AdjustManualRemove   AdjustmentKind = "MANUAL_REMOVE"
	AdjustOrderDeduct    AdjustmentKind = "ORDER_DEDUCT"
	AdjustOrderCancelled AdjustmentKind = "ORDER_CANCELLED"
	AdjustAutoBlocked    AdjustmentKind = "AUTO_BLOCKED"
)

// StockAdjustment is the append-only audit trail of inventory changes: one
// row per stock mutation, written in the same transaction as the mutation
// itself. Rows are never updated or deleted.
type StockAdjustment struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	MenuID uint           `gorm:"not null;index" json:"menu_id"`
	Menu   Menu           `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Kind   AdjustmentKind `gorm:"type:varchar(20);not null" json:"kind"`

	PreviousStock int `gorm:"not null" json:"previous_stock"`
	NewStock      int `gorm:"not null" json:"new_stock"`
	Delta         int `gorm:"not null" json:"delta"`

	Reason  *string `gorm:"type:varchar(255)" json:"reason,omitempty"`
	ActorID *uint   `gorm:"index" json:"actor_id,omitempty"`
	Actor   *User   `gorm:"foreignKey:ActorID" json:"-"`
	OrderID *uint   `gorm:"index" json:"order_id,omitempty"`

	// BatchID groups the per-item rows of one daily-reset run.
	BatchID *string `gorm:"type:varchar(36);index" json:"batch_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
