package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/realtime"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// InventoryService fronts the stock ledger for the staff-facing endpoints:
// manual corrections, the opening-hours reset, inventory type switches and
// the low-stock reads.
type InventoryService struct {
	store *repository.Store
	hub   *realtime.Hub
}

func NewInventoryService(store *repository.Store, hub *realtime.Hub) *InventoryService {
	return &InventoryService{store: store, hub: hub}
}

type StockChangeInput struct {
	Quantity int     `json:"quantity" binding:"required"`
	Reason   *string `json:"reason"`
}

type DailyResetEntry struct {
	MenuID            uint `json:"menu_item_id" binding:"required"`
	Quantity          int  `json:"quantity"`
	LowStockThreshold *int `json:"low_stock_threshold"`
}

type DailyResetInput struct {
	Items []DailyResetEntry `json:"items" binding:"required"`
}

type InventoryTypeInput struct {
	InventoryType     models.InventoryType `json:"inventory_type" binding:"required"`
	InitialStock      *int                 `json:"initial_stock"`
	LowStockThreshold *int                 `json:"low_stock_threshold"`
	AutoUnavailable   *bool                `json:"auto_unavailable"`
}

// translateStockErr maps ledger guard failures onto the API taxonomy.
func translateStockErr(menuID uint, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound("menu item")
	case errors.Is(err, repository.ErrStockNotTracked):
		return invalidInventoryOp("menu item %d does not track stock", menuID)
	case errors.Is(err, repository.ErrInsufficientStock):
		return insufficientStock([]uint{menuID})
	case errors.Is(err, repository.ErrInventoryTypeUnchanged):
		return invalidInventoryOp("menu item %d already has the requested inventory type", menuID)
	}
	return err
}

// AddStock replenishes a tracked item and publishes the resulting state.
func (s *InventoryService) AddStock(ctx context.Context, menuID uint, in StockChangeInput, actorID *uint) (*repository.StockMutation, error) {
	if in.Quantity <= 0 {
		return nil, validation("quantity must be positive")
	}
	mut, err := s.store.Stock.Add(ctx, menuID, in.Quantity, in.Reason, actorID)
	if err != nil {
		return nil, translateStockErr(menuID, err)
	}
	utils.InfoLogger.Printf("stock add: menu %d %d -> %d",
		menuID, mut.Adjustment.PreviousStock, mut.Adjustment.NewStock)
	publishStockEvents(s.hub, *mut)
	return mut, nil
}

// RemoveStock writes off stock, for spoilage and miscounts. It can never
// push the quantity below zero.
func (s *InventoryService) RemoveStock(ctx context.Context, menuID uint, in StockChangeInput, actorID *uint) (*repository.StockMutation, error) {
	if in.Quantity <= 0 {
		return nil, validation("quantity must be positive")
	}
	mut, err := s.store.Stock.Remove(ctx, menuID, in.Quantity, in.Reason, actorID)
	if err != nil {
		return nil, translateStockErr(menuID, err)
	}
	utils.InfoLogger.Printf("stock remove: menu %d %d -> %d",
		menuID, mut.Adjustment.PreviousStock, mut.Adjustment.NewStock)
	publishStockEvents(s.hub, *mut)
	return mut, nil
}

// DailyReset restocks the targeted items to their opening quantities in one
// batch. The whole batch commits or none of it does.
func (s *InventoryService) DailyReset(ctx context.Context, in DailyResetInput, actorID *uint) (*repository.StockResetResult, error) {
	if len(in.Items) == 0 {
		return nil, validation("reset must target at least one item")
	}
	seen := make(map[uint]bool, len(in.Items))
	items := make([]repository.StockResetItem, 0, len(in.Items))
	for _, entry := range in.Items {
		if entry.Quantity < 0 {
			return nil, validation("quantity for menu item %d must not be negative", entry.MenuID)
		}
		if entry.LowStockThreshold != nil && *entry.LowStockThreshold < 0 {
			return nil, validation("threshold for menu item %d must not be negative", entry.MenuID)
		}
		if seen[entry.MenuID] {
			return nil, validation("menu item %d targeted twice", entry.MenuID)
		}
		seen[entry.MenuID] = true
		items = append(items, repository.StockResetItem{
			MenuID:            entry.MenuID,
			Quantity:          entry.Quantity,
			LowStockThreshold: entry.LowStockThreshold,
		})
	}

	result, err := s.store.Stock.DailyReset(ctx, items, actorID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, notFound("menu item")
		case errors.Is(err, repository.ErrStockNotTracked):
			return nil, invalidInventoryOp("%s", err.Error())
		}
		return nil, err
	}

	utils.InfoLogger.Printf("daily reset batch %s: %d items", result.BatchID, len(result.Mutations))
	for _, mut := range result.Mutations {
		publishStockEvents(s.hub, mut)
	}
	return result, nil
}

// SetInventoryType switches an item between TRACKED and UNLIMITED.
func (s *InventoryService) SetInventoryType(ctx context.Context, menuID uint, in InventoryTypeInput, actorID *uint) (*models.Menu, error) {
	if !in.InventoryType.Valid() {
		return nil, validation("unknown inventory type %q", in.InventoryType)
	}
	if in.InitialStock != nil && *in.InitialStock < 0 {
		return nil, validation("initial stock must not be negative")
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return nil, validation("threshold must not be negative")
	}

	menu, err := s.store.Stock.SetInventoryType(ctx, menuID, in.InventoryType, repository.TypeSwitchOptions{
		InitialStock:      in.InitialStock,
		LowStockThreshold: in.LowStockThreshold,
		AutoUnavailable:   in.AutoUnavailable,
	}, actorID)
	if err != nil {
		return nil, translateStockErr(menuID, err)
	}
	utils.InfoLogger.Printf("menu %d inventory type set to %s", menuID, in.InventoryType)
	return menu, nil
}

// LowStock lists tracked items at or under their threshold.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.Menu, error) {
	return s.store.Stock.FindLowStock(ctx)
}

// OutOfStock lists tracked items with nothing left.
func (s *InventoryService) OutOfStock(ctx context.Context) ([]models.Menu, error) {
	return s.store.Stock.FindOutOfStock(ctx)
}

// History pages the audit trail of one item, newest first.
func (s *InventoryService) History(ctx context.Context, menuID uint, offset, limit int) ([]models.StockAdjustment, int64, error) {
	if _, err := s.store.Menus.FindByID(ctx, menuID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, notFound("menu item")
		}
		return nil, 0, err
	}
	return s.store.Stock.History(ctx, menuID, offset, limit)
}
