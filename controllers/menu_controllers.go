package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// MenuController is the read-only catalogue boundary: waiters browse what is
// orderable, the stock views live under the inventory controller.
type MenuController struct {
	Store *repository.Store
}

func NewMenuController(store *repository.Store) *MenuController {
	return &MenuController{Store: store}
}

// GetAllMenus -> GET /menus
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	menus, err := mc.Store.Menus.FindAvailable(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID -> GET /menus/:menu_id
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		return
	}

	menu, err := mc.Store.Menus.FindByID(c.Request.Context(), menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondFailure(c, http.StatusNotFound, services.CodeNotFound, "menu item not found", nil)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}
