package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/controllers"
	"github.com/yeremiapane/restaurant-floor/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	return SetupRouterWithClock(db, clockwork.NewRealClock())
}

// SetupRouterWithClock -> clock injeksi supaya metrik timing deterministik di test
func SetupRouterWithClock(db *gorm.DB, clock clockwork.Clock) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db, clock)
	orderCtrl := controllers.NewOrderController(db, clock)
	kitchenCtrl := controllers.NewKitchenController(db, clock)
	sessionCtrl := controllers.NewSessionController(db, clock)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	adminCtrl := controllers.NewAdminController(db, clock)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Katalog bisa dibaca tanpa auth
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/by-category", menuCtrl.GetMenuByCategory)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/floor")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// TABLES (floor staff)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.POST("/tables/:table_id/seat", tableCtrl.SeatParty)
	auth.POST("/tables/:table_id/release", tableCtrl.ReleaseTable)
	auth.POST("/tables/blocks", tableCtrl.ApplyPartyBlock)

	// ORDERS (floor staff)
	auth.GET("/orders/active", orderCtrl.ListActiveOrders)
	auth.POST("/tables/:table_id/order", orderCtrl.CreateOrder)
	auth.GET("/tables/:table_id/order", orderCtrl.GetActiveOrderByTable)
	auth.POST("/orders/:order_id/items", orderCtrl.AddItem)
	auth.DELETE("/orders/:order_id/items/:item_id", orderCtrl.RemoveItem)
	auth.GET("/orders/:order_id/total", orderCtrl.GetOrderTotal)
	auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

	// KITCHEN
	auth.POST("/orders/:order_id/fire", kitchenCtrl.FireOrder)
	auth.GET("/kitchen/display", kitchenCtrl.GetKitchenDisplay)
	auth.GET("/kitchen/ready", kitchenCtrl.ListReadyChits)
	auth.POST("/chits/:chit_id/items/:chit_item_id/done", kitchenCtrl.MarkItemDone)
	auth.POST("/chits/:chit_id/run", kitchenCtrl.MarkChitAsRun)
	auth.GET("/tables/:table_id/ready-food", kitchenCtrl.HasReadyFood)

	// BILL-OUT + HISTORY
	auth.POST("/tables/:table_id/close", sessionCtrl.CloseTable)
	auth.GET("/tables/:table_id/history", sessionCtrl.GetTableHistory)

	// CATALOG SEEDING (admin/manager)
	catalog := auth.Group("/")
	catalog.Use(middlewares.RequireRoles("manager"))
	{
		catalog.POST("/categories", categoryCtrl.CreateCategory)
		catalog.POST("/menus", menuCtrl.CreateMenu)
		catalog.PATCH("/menus/:menu_id/availability", menuCtrl.UpdateMenuAvailability)
	}

	// ADMIN
	auth.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	auth.GET("/snapshot", adminCtrl.ExportSnapshot)
	auth.POST("/snapshot/restore", adminCtrl.RestoreSnapshot)
	auth.POST("/tipout", adminCtrl.GetTipOut)

	// WebSocket endpoint dengan auth lewat query token
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.FloorEventsHandler)
	}

	return r
}
