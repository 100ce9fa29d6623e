package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
)

type stockLedger struct {
	db *gorm.DB
}

// syncAvailability derives availability from stock for items carrying the
// auto-unavailable flag: zero stock blocks the item, positive stock restores
// it. Reports whether this call flipped availability from on to off.
func syncAvailability(menu *models.Menu) bool {
	if !menu.AutoBlocks() {
		return false
	}
	inStock := menu.CurrentStock() > 0
	blocked := menu.IsAvailable && !inStock
	menu.IsAvailable = inStock
	return blocked
}

// applyDelta mutates the locked menu row by adj.Delta, persists the new
// state and appends the audit row. A block caused by reaching zero writes a
// second AUTO_BLOCKED marker row in the same transaction.
func applyDelta(tx *gorm.DB, menu *models.Menu, adj models.StockAdjustment) (*StockMutation, error) {
	prev := menu.CurrentStock()
	next := prev + adj.Delta
	if next < 0 {
		return nil, ErrInsufficientStock
	}

	menu.StockQty = &next
	blocked := syncAvailability(menu)
	if err := tx.Save(menu).Error; err != nil {
		return nil, err
	}

	adj.MenuID = menu.ID
	adj.PreviousStock = prev
	adj.NewStock = next
	if err := tx.Create(&adj).Error; err != nil {
		return nil, err
	}

	if blocked {
		marker := models.StockAdjustment{
			MenuID:        menu.ID,
			Kind:          models.AdjustAutoBlocked,
			PreviousStock: next,
			NewStock:      next,
			ActorID:       adj.ActorID,
			OrderID:       adj.OrderID,
			BatchID:       adj.BatchID,
		}
		if err := tx.Create(&marker).Error; err != nil {
			return nil, err
		}
	}

	return &StockMutation{Menu: *menu, Adjustment: adj, AutoBlocked: blocked}, nil
}

// lockTracked loads the menu row under an exclusive lock and verifies it
// still tracks stock. Every guard decision after this call is authoritative.
func lockTracked(tx *gorm.DB, menuID uint) (*models.Menu, error) {
	var menu models.Menu
	if err := lockForUpdate(tx).First(&menu, menuID).Error; err != nil {
		return nil, err
	}
	if !menu.Tracked() {
		return nil, ErrStockNotTracked
	}
	return &menu, nil
}

func (l *stockLedger) Add(ctx context.Context, menuID uint, qty int, reason *string, actorID *uint) (*StockMutation, error) {
	var result *StockMutation
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := lockTracked(tx, menuID)
		if err != nil {
			return err
		}
		result, err = applyDelta(tx, menu, models.StockAdjustment{
			Kind:    models.AdjustManualAdd,
			Delta:   qty,
			Reason:  reason,
			ActorID: actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *stockLedger) Remove(ctx context.Context, menuID uint, qty int, reason *string, actorID *uint) (*StockMutation, error) {
	var result *StockMutation
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := lockTracked(tx, menuID)
		if err != nil {
			return err
		}
		result, err = applyDelta(tx, menu, models.StockAdjustment{
			Kind:    models.AdjustManualRemove,
			Delta:   -qty,
			Reason:  reason,
			ActorID: actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *stockLedger) DeductForOrder(ctx context.Context, menuID uint, qty int, orderID uint) (*StockMutation, error) {
	var result *StockMutation
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := lockTracked(tx, menuID)
		if err != nil {
			return err
		}
		result, err = applyDelta(tx, menu, models.StockAdjustment{
			Kind:    models.AdjustOrderDeduct,
			Delta:   -qty,
			OrderID: &orderID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RevertForOrder puts a cancelled order's quantity back. An item that
// stopped tracking stock since the order was placed is skipped: the call
// returns a nil mutation and no error, and no audit row is written.
func (l *stockLedger) RevertForOrder(ctx context.Context, menuID uint, qty int, orderID uint) (*StockMutation, error) {
	var result *StockMutation
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var menu models.Menu
		if err := lockForUpdate(tx).First(&menu, menuID).Error; err != nil {
			return err
		}
		if !menu.Tracked() {
			return nil
		}
		var err error
		result, err = applyDelta(tx, &menu, models.StockAdjustment{
			Kind:    models.AdjustOrderCancelled,
			Delta:   qty,
			OrderID: &orderID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DailyReset runs as one transaction over every targeted item, locking rows
// in ascending menu ID order. Any untracked target aborts the whole batch.
func (l *stockLedger) DailyReset(ctx context.Context, items []StockResetItem, actorID *uint) (*StockResetResult, error) {
	batchID := uuid.NewString()
	result := &StockResetResult{BatchID: batchID}

	sorted := make([]StockResetItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MenuID < sorted[j].MenuID })

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range sorted {
			menu, err := lockTracked(tx, item.MenuID)
			if err != nil {
				return fmt.Errorf("menu %d: %w", item.MenuID, err)
			}

			prev := menu.CurrentStock()
			menu.InitialStock = &item.Quantity
			if item.LowStockThreshold != nil {
				menu.LowStockThreshold = item.LowStockThreshold
			}
			if !menu.AutoBlocks() {
				menu.IsAvailable = true
			}

			mut, err := applyDelta(tx, menu, models.StockAdjustment{
				Kind:    models.AdjustDailyReset,
				Delta:   item.Quantity - prev,
				ActorID: actorID,
				BatchID: &batchID,
			})
			if err != nil {
				return fmt.Errorf("menu %d: %w", item.MenuID, err)
			}
			result.Mutations = append(result.Mutations, *mut)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetInventoryType switches an item between TRACKED and UNLIMITED. Stock
// created or discarded by the switch goes through the audit trail like any
// other mutation.
func (l *stockLedger) SetInventoryType(ctx context.Context, menuID uint, newType models.InventoryType, opts TypeSwitchOptions, actorID *uint) (*models.Menu, error) {
	var result *models.Menu
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var menu models.Menu
		if err := lockForUpdate(tx).First(&menu, menuID).Error; err != nil {
			return err
		}
		if menu.InventoryType == newType {
			return ErrInventoryTypeUnchanged
		}

		switch newType {
		case models.InventoryTracked:
			seed := 0
			if opts.InitialStock != nil {
				seed = *opts.InitialStock
			}
			auto := true
			if opts.AutoUnavailable != nil {
				auto = *opts.AutoUnavailable
			}
			menu.InventoryType = models.InventoryTracked
			menu.StockQty = &seed
			menu.InitialStock = &seed
			menu.LowStockThreshold = opts.LowStockThreshold
			menu.AutoUnavailable = &auto

			blocked := syncAvailability(&menu)
			if err := tx.Save(&menu).Error; err != nil {
				return err
			}
			if seed > 0 {
				reason := "inventory type switched to TRACKED"
				adj := models.StockAdjustment{
					MenuID:   menu.ID,
					Kind:     models.AdjustManualAdd,
					NewStock: seed,
					Delta:    seed,
					Reason:   &reason,
					ActorID:  actorID,
				}
				if err := tx.Create(&adj).Error; err != nil {
					return err
				}
			}
			if blocked {
				marker := models.StockAdjustment{
					MenuID:  menu.ID,
					Kind:    models.AdjustAutoBlocked,
					ActorID: actorID,
				}
				if err := tx.Create(&marker).Error; err != nil {
					return err
				}
			}
			result = &menu

		case models.InventoryUnlimited:
			remaining := menu.CurrentStock()
			if remaining > 0 {
				reason := "inventory type switched to UNLIMITED"
				adj := models.StockAdjustment{
					MenuID:        menu.ID,
					Kind:          models.AdjustManualRemove,
					PreviousStock: remaining,
					NewStock:      0,
					Delta:         -remaining,
					Reason:        &reason,
					ActorID:       actorID,
				}
				if err := tx.Create(&adj).Error; err != nil {
					return err
				}
			}

			wasAutoBlocked := menu.AutoBlocks() && menu.CurrentStock() == 0 && !menu.IsAvailable
			menu.InventoryType = models.InventoryUnlimited
			menu.StockQty = nil
			menu.InitialStock = nil
			menu.LowStockThreshold = nil
			menu.AutoUnavailable = nil
			if wasAutoBlocked {
				menu.IsAvailable = true
			}
			if err := tx.Save(&menu).Error; err != nil {
				return err
			}
			result = &menu

		default:
			return fmt.Errorf("unknown inventory type %q", newType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeductionsForOrder lists the ORDER_DEDUCT rows an order committed, oldest
// first. Cancellation reverts exactly these: the audit trail, not the
// current menu state, decides what was taken.
func (l *stockLedger) DeductionsForOrder(ctx context.Context, orderID uint) ([]models.StockAdjustment, error) {
	var rows []models.StockAdjustment
	err := l.db.WithContext(ctx).
		Where("order_id = ? AND kind = ?", orderID, models.AdjustOrderDeduct).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (l *stockLedger) FindLowStock(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	err := l.db.WithContext(ctx).
		Where("inventory_type = ?", models.InventoryTracked).
		Where("low_stock_threshold IS NOT NULL").
		Where("stock_qty <= low_stock_threshold").
		Order("stock_qty ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

func (l *stockLedger) FindOutOfStock(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	err := l.db.WithContext(ctx).
		Where("inventory_type = ?", models.InventoryTracked).
		Where("stock_qty = 0").
		Order("name ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

func (l *stockLedger) History(ctx context.Context, menuID uint, offset, limit int) ([]models.StockAdjustment, int64, error) {
	query := l.db.WithContext(ctx).
		Model(&models.StockAdjustment{}).
		Where("menu_id = ?", menuID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockAdjustment
	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
