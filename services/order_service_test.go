package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := "file:" + filepath.Join(t.TempDir(), "orders.db") + "?_txlock=immediate&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Customer{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockAdjustment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	waiter := models.User{Name: "Waiter", Email: "waiter@test.local", Password: "x", Role: "waiter"}
	if err := db.Create(&waiter).Error; err != nil {
		t.Fatalf("seed waiter: %v", err)
	}
	return db
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price int64, tracked bool, stock int) models.Menu {
	t.Helper()
	var category models.MenuCategory
	if err := db.FirstOrCreate(&category, models.MenuCategory{Name: "Food"}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	menu := models.Menu{
		CategoryID:    category.ID,
		Name:          name,
		Price:         decimal.NewFromInt(price),
		IsAvailable:   true,
		InventoryType: models.InventoryUnlimited,
	}
	if tracked {
		auto := true
		threshold := 3
		menu.InventoryType = models.InventoryTracked
		menu.StockQty = &stock
		menu.InitialStock = &stock
		menu.LowStockThreshold = &threshold
		menu.AutoUnavailable = &auto
	}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	return menu
}

func newOrderService(db *gorm.DB) *services.OrderService {
	return services.NewOrderService(repository.NewStore(db), nil)
}

func stockOf(t *testing.T, db *gorm.DB, menuID uint) int {
	t.Helper()
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		t.Fatalf("reload menu: %v", err)
	}
	return menu.CurrentStock()
}

func domainCode(t *testing.T, err error) *services.DomainError {
	t.Helper()
	de, ok := err.(*services.DomainError)
	if !ok {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	return de
}

func TestCreateOrderCapturesPricesAndTotal(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Nasi Goreng", 14000, true, 10)

	order, err := svc.CreateOrder(context.Background(), 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 2}},
	})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(28000).Equal(order.TotalAmount),
		"total = price times quantity, got %s", order.TotalAmount)
	assert.Len(t, order.OrderItems, 1)
	assert.True(t, decimal.NewFromInt(14000).Equal(order.OrderItems[0].Price))
	assert.Equal(t, "Nasi Goreng", order.OrderItems[0].Menu.Name)

	assert.Equal(t, 8, stockOf(t, db, menu.ID))

	var deduct models.StockAdjustment
	err = db.Where("menu_id = ? AND kind = ?", menu.ID, models.AdjustOrderDeduct).First(&deduct).Error
	assert.NoError(t, err)
	assert.Equal(t, order.ID, *deduct.OrderID)
	assert.Equal(t, -2, deduct.Delta)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Soto", 20000, false, 0)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type: models.OrderTypeDineIn,
	})
	assert.Equal(t, services.CodeValidation, domainCode(t, err).Code)

	_, err = svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 0}},
	})
	assert.Equal(t, services.CodeValidation, domainCode(t, err).Code)

	_, err = svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  "ROOM_SERVICE",
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 1}},
	})
	assert.Equal(t, services.CodeValidation, domainCode(t, err).Code)
}

func TestCreateOrderMissingItem(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)

	_, err := svc.CreateOrder(context.Background(), 1, services.CreateOrderInput{
		Type:  models.OrderTypeTakeAway,
		Items: []services.CreateOrderItem{{MenuID: 999, Quantity: 1}},
	})
	de := domainCode(t, err)
	assert.Equal(t, services.CodeNotFound, de.Code)
	assert.Equal(t, []uint{999}, de.Items)
}

func TestCreateOrderNamesEveryUnavailableItem(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	first := seedMenuItem(t, db, "Ayam Bakar", 32000, false, 0)
	second := seedMenuItem(t, db, "Es Campur", 15000, false, 0)
	db.Model(&models.Menu{}).Where("id IN ?", []uint{first.ID, second.ID}).Update("is_available", false)

	_, err := svc.CreateOrder(context.Background(), 1, services.CreateOrderInput{
		Type: models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{
			{MenuID: first.ID, Quantity: 1},
			{MenuID: second.ID, Quantity: 2},
		},
	})
	de := domainCode(t, err)
	assert.Equal(t, services.CodeItemsUnavailable, de.Code)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, de.Items)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Rendang", 35000, true, 1)

	_, err := svc.CreateOrder(context.Background(), 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 3}},
	})
	de := domainCode(t, err)
	assert.Equal(t, services.CodeInsufficientStock, de.Code)
	assert.Equal(t, []uint{menu.ID}, de.Items)

	assert.Equal(t, 1, stockOf(t, db, menu.ID))
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.EqualValues(t, 0, orders, "failed creation must leave no order behind")
}

func TestCreateOrderUnlimitedAnyQuantity(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Es Teh", 8000, false, 0)

	order, err := svc.CreateOrder(context.Background(), 1, services.CreateOrderInput{
		Type:  models.OrderTypeTakeAway,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 500}},
	})
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4000000).Equal(order.TotalAmount))

	var rows int64
	db.Model(&models.StockAdjustment{}).Where("menu_id = ?", menu.ID).Count(&rows)
	assert.EqualValues(t, 0, rows, "unlimited items never touch the ledger")
}

// Two concurrent 3-unit orders against stock 5: exactly one commits, stock
// lands at 2 and the loser leaves no half-created order behind.
func TestCreateOrderConcurrentNoOversell(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Gulai Kambing", 40000, true, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), 1, services.CreateOrderInput{
				Type:  models.OrderTypeDineIn,
				Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 3}},
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.Equal(t, services.CodeInsufficientStock, domainCode(t, err).Code)
		lost++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 2, stockOf(t, db, menu.ID))

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.EqualValues(t, 1, orders, "the losing attempt must roll back its order")
}

func TestPriceChangeLeavesHistoricalOrdersAlone(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Mie Ayam", 14000, true, 10)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 2}},
	})
	assert.NoError(t, err)

	db.Model(&models.Menu{}).Where("id = ?", menu.ID).Update("price", decimal.NewFromInt(99000))

	got, err := svc.GetOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(14000).Equal(got.OrderItems[0].Price),
		"price-at-order is frozen")
	assert.True(t, decimal.NewFromInt(28000).Equal(got.TotalAmount))
}

func TestUpdateStatusWalksTheWorkflow(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Sate", 25000, false, 0)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	for _, status := range []models.OrderStatus{
		models.OrderStatusSentToCashier,
		models.OrderStatusPaid,
		models.OrderStatusInKitchen,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
	} {
		got, err := svc.UpdateStatus(ctx, order.ID, status)
		assert.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusPaid)
	assert.Equal(t, services.CodeInvalidStatusTransition, domainCode(t, err).Code,
		"delivered orders never transition again")
}

func TestUpdateStatusRejectsDirectCancel(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Bakso", 18000, false, 0)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled)
	assert.Equal(t, services.CodeInvalidStatusTransition, domainCode(t, err).Code)

	_, err = svc.UpdateStatus(ctx, order.ID, "BURNED")
	assert.Equal(t, services.CodeValidation, domainCode(t, err).Code)
}

func TestCancelOrderRestoresStockExactly(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Nasi Padang", 14000, true, 10)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 2}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 8, stockOf(t, db, menu.ID))

	cancelled, err := svc.CancelOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, stockOf(t, db, menu.ID), "reversion equals the original deduction")

	var reverts int64
	db.Model(&models.StockAdjustment{}).
		Where("menu_id = ? AND kind = ?", menu.ID, models.AdjustOrderCancelled).
		Count(&reverts)
	assert.EqualValues(t, 1, reverts)

	_, err = svc.CancelOrder(ctx, order.ID)
	assert.Equal(t, services.CodeAlreadyCancelled, domainCode(t, err).Code)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Pempek", 22000, false, 0)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDelivery,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 1}},
	})
	assert.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered)
	assert.NoError(t, err)

	_, err = svc.CancelOrder(ctx, order.ID)
	assert.Equal(t, services.CodeCannotCancelDelivered, domainCode(t, err).Code)
}

func TestCancelSkipsItemSwitchedToUnlimited(t *testing.T) {
	db := setupOrderTestDB(t)
	store := repository.NewStore(db)
	svc := services.NewOrderService(store, nil)
	menu := seedMenuItem(t, db, "Tahu Isi", 5000, true, 10)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeTakeAway,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 2}},
	})
	assert.NoError(t, err)

	_, err = store.Stock.SetInventoryType(ctx, menu.ID, models.InventoryUnlimited,
		repository.TypeSwitchOptions{}, nil)
	assert.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	var reverts int64
	db.Model(&models.StockAdjustment{}).
		Where("menu_id = ? AND kind = ?", menu.ID, models.AdjustOrderCancelled).
		Count(&reverts)
	assert.EqualValues(t, 0, reverts, "an item that stopped tracking is skipped")
}

func TestCancelRevertsOnlyWhatWasDeducted(t *testing.T) {
	db := setupOrderTestDB(t)
	store := repository.NewStore(db)
	svc := services.NewOrderService(store, nil)
	menu := seedMenuItem(t, db, "Jus Jeruk", 12000, false, 0)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 4}},
	})
	assert.NoError(t, err)

	seed := 5
	_, err = store.Stock.SetInventoryType(ctx, menu.ID, models.InventoryTracked,
		repository.TypeSwitchOptions{InitialStock: &seed}, nil)
	assert.NoError(t, err)

	_, err = svc.CancelOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, db, menu.ID),
		"nothing was deducted for this order, so nothing comes back")
}

func TestListOrdersFilterByStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(db)
	menu := seedMenuItem(t, db, "Lontong", 10000, false, 0)
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 1}},
	})
	assert.NoError(t, err)
	_, err = svc.CreateOrder(ctx, 1, services.CreateOrderInput{
		Type:  models.OrderTypeDineIn,
		Items: []services.CreateOrderItem{{MenuID: menu.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.ID, models.OrderStatusPaid)
	assert.NoError(t, err)

	paid := models.OrderStatusPaid
	orders, total, err := svc.ListOrders(ctx, &paid, 0, 20)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	bogus := models.OrderStatus("EATEN")
	_, _, err = svc.ListOrders(ctx, &bogus, 0, 20)
	assert.Equal(t, services.CodeValidation, domainCode(t, err).Code)
}
