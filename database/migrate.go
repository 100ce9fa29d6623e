package database

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Migrate brings the schema up to date. Stock consistency is enforced by
// locked transactions in the repository layer, so there are no database
// triggers to install.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Customer{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockAdjustment{},
	)
}

// Seed loads a first-run dataset: the staff accounts, tables and an opening
// menu. It is a no-op once any user exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		password = "changeme"
		utils.InfoLogger.Println("SEED_USER_PASSWORD not set, seeding accounts with default password")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Admin", Email: "admin@resto.local", Password: string(hashed), Role: "admin"},
		{Name: "Staff", Email: "staff@resto.local", Password: string(hashed), Role: "staff"},
		{Name: "Waiter", Email: "waiter@resto.local", Password: string(hashed), Role: "waiter"},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	tables := make([]models.Table, 0, 10)
	for i := 1; i <= 10; i++ {
		tables = append(tables, models.Table{TableNumber: "T-" + strconv.Itoa(i), Status: "available"})
	}
	if err := db.Create(&tables).Error; err != nil {
		return err
	}

	food := models.MenuCategory{Name: "Food"}
	drinks := models.MenuCategory{Name: "Drinks"}
	if err := db.Create(&food).Error; err != nil {
		return err
	}
	if err := db.Create(&drinks).Error; err != nil {
		return err
	}

	menus := []models.Menu{
		{
			CategoryID:        food.ID,
			Name:              "Nasi Goreng Spesial",
			Price:             decimal.NewFromInt(28000),
			IsAvailable:       true,
			InventoryType:     models.InventoryTracked,
			StockQty:          intPtr(20),
			InitialStock:      intPtr(20),
			LowStockThreshold: intPtr(5),
			AutoUnavailable:   boolPtr(true),
		},
		{
			CategoryID:        food.ID,
			Name:              "Ayam Bakar",
			Price:             decimal.NewFromInt(32000),
			IsAvailable:       true,
			InventoryType:     models.InventoryTracked,
			StockQty:          intPtr(15),
			InitialStock:      intPtr(15),
			LowStockThreshold: intPtr(3),
			AutoUnavailable:   boolPtr(true),
		},
		{
			CategoryID:    drinks.ID,
			Name:          "Es Teh Manis",
			Price:         decimal.NewFromInt(8000),
			IsAvailable:   true,
			InventoryType: models.InventoryUnlimited,
		},
		{
			CategoryID:    drinks.ID,
			Name:          "Kopi Susu",
			Price:         decimal.NewFromInt(15000),
			IsAvailable:   true,
			InventoryType: models.InventoryUnlimited,
		},
	}
	if err := db.Create(&menus).Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("seeded %d users, %d tables, %d menus", len(users), len(tables), len(menus))
	return nil
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
