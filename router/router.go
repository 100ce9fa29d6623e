package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/middlewares"
	"github.com/yeremiapane/restaurant-orders/realtime"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/services"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 100).RateLimit())

	store := repository.NewStore(db)
	orderSvc := services.NewOrderService(store, hub)
	inventorySvc := services.NewInventoryService(store, hub)

	authCtrl := controllers.NewAuthController(db)
	menuCtrl := controllers.NewMenuController(store)
	orderCtrl := controllers.NewOrderController(orderSvc)
	inventoryCtrl := controllers.NewInventoryController(inventorySvc)
	wsCtrl := controllers.NewWSController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", authCtrl.Login)
	}

	// Browsing the menu needs no login
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	// Event stream; the token rides in the query string
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", wsCtrl.Subscribe)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", authCtrl.GetProfile)

		// ORDERS (any authenticated role)
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		auth.DELETE("/orders/:order_id", orderCtrl.CancelOrder)

		// STOCK (staff; admin passes every role check)
		stock := auth.Group("/")
		stock.Use(middlewares.RequireRoles("staff"))
		{
			stock.POST("/menus/:menu_id/stock/add", inventoryCtrl.AddStock)
			stock.POST("/menus/:menu_id/stock/remove", inventoryCtrl.RemoveStock)
			stock.PATCH("/menus/:menu_id/inventory-type", inventoryCtrl.SetInventoryType)
			stock.GET("/menus/:menu_id/stock/history", inventoryCtrl.GetStockHistory)
			stock.POST("/stock/daily-reset", inventoryCtrl.DailyReset)
			stock.GET("/stock/low", inventoryCtrl.GetLowStock)
			stock.GET("/stock/out", inventoryCtrl.GetOutOfStock)
		}
	}

	return r
}
