package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type InventoryController struct {
	Inventory *services.InventoryService
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{Inventory: inventory}
}

// AddStock -> POST /menus/:menu_id/stock/add
func (ic *InventoryController) AddStock(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}

	var in services.StockChangeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	mut, err := ic.Inventory.AddStock(c.Request.Context(), menuID, in, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock added", mut)
}

// RemoveStock -> POST /menus/:menu_id/stock/remove
func (ic *InventoryController) RemoveStock(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}

	var in services.StockChangeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	mut, err := ic.Inventory.RemoveStock(c.Request.Context(), menuID, in, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock removed", mut)
}

// SetInventoryType -> PATCH /menus/:menu_id/inventory-type
func (ic *InventoryController) SetInventoryType(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}

	var in services.InventoryTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := ic.Inventory.SetInventoryType(c.Request.Context(), menuID, in, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory type updated", menu)
}

// DailyReset -> POST /stock/daily-reset
func (ic *InventoryController) DailyReset(c *gin.Context) {
	var in services.DailyResetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := ic.Inventory.DailyReset(c.Request.Context(), in, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily stock reset applied", result)
}

// GetLowStock -> GET /stock/low
func (ic *InventoryController) GetLowStock(c *gin.Context) {
	menus, err := ic.Inventory.LowStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock items", menus)
}

// GetOutOfStock -> GET /stock/out
func (ic *InventoryController) GetOutOfStock(c *gin.Context) {
	menus, err := ic.Inventory.OutOfStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Out of stock items", menus)
}

// GetStockHistory -> GET /menus/:menu_id/stock/history?page=&limit=
func (ic *InventoryController) GetStockHistory(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}
	offset, limit := utils.Pagination(c, 20)

	rows, total, err := ic.Inventory.History(c.Request.Context(), menuID, offset, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock history", gin.H{
		"adjustments": rows,
		"total":       total,
	})
}
