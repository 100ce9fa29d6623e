package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-orders/models"
)

// MenuReader is the read-only lookup the order workflows perform against the
// menu catalogue.
type MenuReader interface {
	FindByID(ctx context.Context, id uint) (*models.Menu, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Menu, error)
	FindAvailable(ctx context.Context) ([]models.Menu, error)
}

// OrderFilter narrows and pages order listings.
type OrderFilter struct {
	Status *models.OrderStatus
	Offset int
	Limit  int
}

// OrderStore persists an order and its lines as one aggregate.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) error
	UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal) error
}

// StockResetItem is one target of a daily stock reset.
type StockResetItem struct {
	MenuID            uint
	Quantity          int
	LowStockThreshold *int
}

// TypeSwitchOptions seeds the tracked-side fields when an item switches to
// TRACKED; all fields are ignored on a switch to UNLIMITED.
type TypeSwitchOptions struct {
	InitialStock      *int
	LowStockThreshold *int
	AutoUnavailable   *bool
}

// StockMutation reports one committed stock change: the item as the
// transaction left it, the audit row written for the change, and whether
// this change tripped the auto-unavailable guard.
type StockMutation struct {
	Menu        models.Menu            `json:"menu"`
	Adjustment  models.StockAdjustment `json:"adjustment"`
	AutoBlocked bool                   `json:"auto_blocked"`
}

// StockResetResult is the outcome of one daily-reset run. BatchID groups the
// per-item audit rows.
type StockResetResult struct {
	BatchID   string          `json:"batch_id"`
	Mutations []StockMutation `json:"mutations"`
}

// StockLedger owns every mutation of tracked stock. Each mutating call runs
// in a transaction holding the exclusive row lock of the menu item it
// touches, re-verifies its guard under that lock, and appends the audit row
// before committing.
type StockLedger interface {
	Add(ctx context.Context, menuID uint, qty int, reason *string, actorID *uint) (*StockMutation, error)
	Remove(ctx context.Context, menuID uint, qty int, reason *string, actorID *uint) (*StockMutation, error)
	DeductForOrder(ctx context.Context, menuID uint, qty int, orderID uint) (*StockMutation, error)
	RevertForOrder(ctx context.Context, menuID uint, qty int, orderID uint) (*StockMutation, error)
	DailyReset(ctx context.Context, items []StockResetItem, actorID *uint) (*StockResetResult, error)
	SetInventoryType(ctx context.Context, menuID uint, newType models.InventoryType, opts TypeSwitchOptions, actorID *uint) (*models.Menu, error)
	DeductionsForOrder(ctx context.Context, orderID uint) ([]models.StockAdjustment, error)
	FindLowStock(ctx context.Context) ([]models.Menu, error)
	FindOutOfStock(ctx context.Context) ([]models.Menu, error)
	History(ctx context.Context, menuID uint, offset, limit int) ([]models.StockAdjustment, int64, error)
}

// Store bundles the storage ports over one database handle. Services receive
// a Store and compose multi-port writes through Atomic.
type Store struct {
	db     *gorm.DB
	Menus  MenuReader
	Orders OrderStore
	Stock  StockLedger
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		Menus:  &menuRepository{db: db},
		Orders: &orderRepository{db: db},
		Stock:  &stockLedger{db: db},
	}
}

// Atomic runs fn against a Store bound to a single transaction: everything
// fn writes commits together or rolls back together, including every stock
// deduction of an order. A lock-wait timeout inside fn aborts the whole
// unit.
func (s *Store) Atomic(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// lockForUpdate takes the exclusive row lock stock mutations serialize on.
// SQLite has no FOR UPDATE clause; its single-writer lock already serializes
// mutations there, so the clause is only added on dialects that support it.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
