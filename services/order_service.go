package services

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/realtime"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// OrderService runs the order lifecycle: creation with stock reservation,
// status transitions, and cancellation with stock reversion.
type OrderService struct {
	store *repository.Store
	hub   *realtime.Hub
}

func NewOrderService(store *repository.Store, hub *realtime.Hub) *OrderService {
	return &OrderService{store: store, hub: hub}
}

type CreateOrderItem struct {
	MenuID   uint   `json:"menu_item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Notes    string `json:"notes"`
}

type CreateOrderInput struct {
	Type            models.OrderType  `json:"type" binding:"required"`
	TableID         *uint             `json:"table_id"`
	CustomerID      *uint             `json:"customer_id"`
	ExternalOrderID *string           `json:"external_order_id"`
	Notes           string            `json:"notes"`
	Items           []CreateOrderItem `json:"items" binding:"required"`
}

func (in CreateOrderInput) validate() error {
	if !in.Type.Valid() {
		return validation("unknown order type %q", in.Type)
	}
	if len(in.Items) == 0 {
		return validation("order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return validation("quantity for menu item %d must be positive", item.MenuID)
		}
	}
	return nil
}

// CreateOrder validates the request against the menu, freezes each line's
// price, and commits the order, its total and every tracked-line stock
// deduction as one transaction. A deduction that fails under the row lock
// rolls the whole order back.
func (s *OrderService) CreateOrder(ctx context.Context, waiterID uint, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(in.Items))
	need := make(map[uint]int, len(in.Items))
	for _, item := range in.Items {
		if _, ok := need[item.MenuID]; !ok {
			ids = append(ids, item.MenuID)
		}
		need[item.MenuID] += item.Quantity
	}

	menus, err := s.store.Menus.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Menu, len(menus))
	for _, menu := range menus {
		byID[menu.ID] = menu
	}

	var missing, unavailable, short []uint
	for _, id := range ids {
		menu, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if !menu.IsAvailable {
			unavailable = append(unavailable, id)
			continue
		}
		// Advisory fast-fail only. The deduction below re-verifies under
		// the row lock, which is the authoritative check.
		if menu.Tracked() && menu.CurrentStock() < need[id] {
			short = append(short, id)
		}
	}
	if len(missing) > 0 {
		return nil, itemsNotFound(missing)
	}
	if len(unavailable) > 0 {
		return nil, itemsUnavailable(unavailable)
	}
	if len(short) > 0 {
		return nil, insufficientStock(short)
	}

	order := &models.Order{
		Status:          models.OrderStatusPending,
		Type:            in.Type,
		TotalAmount:     decimal.Zero,
		TableID:         in.TableID,
		CustomerID:      in.CustomerID,
		WaiterID:        waiterID,
		ExternalOrderID: in.ExternalOrderID,
		Notes:           in.Notes,
	}
	total := decimal.Zero
	for _, item := range in.Items {
		menu := byID[item.MenuID]
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			MenuID:   menu.ID,
			Quantity: item.Quantity,
			Price:    menu.Price,
			Notes:    item.Notes,
		})
		total = total.Add(menu.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	type deduction struct {
		menuID uint
		qty    int
	}
	var deductions []deduction
	for _, item := range in.Items {
		menu := byID[item.MenuID]
		if menu.Tracked() {
			deductions = append(deductions, deduction{menuID: item.MenuID, qty: item.Quantity})
		}
	}
	// Row locks are taken in ascending menu ID order so two orders over an
	// overlapping item set cannot deadlock each other.
	sort.Slice(deductions, func(i, j int) bool { return deductions[i].menuID < deductions[j].menuID })

	var committed []repository.StockMutation
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Orders.UpdateTotal(ctx, order.ID, total); err != nil {
			return err
		}
		for _, d := range deductions {
			mut, err := tx.Stock.DeductForOrder(ctx, d.menuID, d.qty, order.ID)
			if err != nil {
				if errors.Is(err, repository.ErrStockNotTracked) {
					// Switched to UNLIMITED since the pre-check; nothing to take.
					continue
				}
				if errors.Is(err, repository.ErrInsufficientStock) {
					return insufficientStock([]uint{d.menuID})
				}
				return err
			}
			committed = append(committed, *mut)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.store.Orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("order %d created by waiter %d, total %s",
		created.ID, waiterID, utils.FormatCurrencyIDR(created.TotalAmount))

	s.hub.OrderCreated(*created)
	for _, mut := range committed {
		publishStockEvents(s.hub, mut)
	}
	return created, nil
}

// GetOrder loads one order with its lines and menu snapshots.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order")
		}
		return nil, err
	}
	return order, nil
}

// ListOrders pages through orders, optionally narrowed to one status.
func (s *OrderService) ListOrders(ctx context.Context, status *models.OrderStatus, offset, limit int) ([]models.Order, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, validation("unknown order status %q", *status)
	}
	return s.store.Orders.List(ctx, repository.OrderFilter{
		Status: status,
		Offset: offset,
		Limit:  limit,
	})
}

// UpdateStatus moves an order along the fulfillment workflow. Terminal
// orders reject every transition, and CANCELLED is reachable only through
// CancelOrder, never through this path.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, validation("unknown order status %q", target)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, target) {
		return nil, invalidTransition(order.Status, target)
	}

	if err := s.store.Orders.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, err
	}
	order.Status = target
	utils.InfoLogger.Printf("order %d status set to %s", orderID, target)

	s.hub.OrderStatusChanged(*order)
	return order, nil
}

// CancelOrder is the only path into CANCELLED. It reverts exactly the stock
// the order's ORDER_DEDUCT rows committed and flips the status, all in one
// transaction, so a crash can never leave a cancelled order with stock only
// partly restored.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case models.OrderStatusDelivered:
		return nil, cannotCancelDelivered()
	case models.OrderStatusCancelled:
		return nil, alreadyCancelled()
	}

	deductions, err := s.store.Stock.DeductionsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	sort.Slice(deductions, func(i, j int) bool { return deductions[i].MenuID < deductions[j].MenuID })

	var committed []repository.StockMutation
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		for _, d := range deductions {
			mut, err := tx.Stock.RevertForOrder(ctx, d.MenuID, -d.Delta, orderID)
			if err != nil {
				return err
			}
			if mut != nil {
				committed = append(committed, *mut)
			}
		}
		return tx.Orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCancelled
	utils.InfoLogger.Printf("order %d cancelled, %d stock reversions", orderID, len(committed))

	s.hub.OrderCancelled(*order)
	for _, mut := range committed {
		publishStockEvents(s.hub, mut)
	}
	return order, nil
}
