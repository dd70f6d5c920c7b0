package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/services"
)

// Account roles carried in staff tokens.
var (
	frontOfHouse = []string{"admin", "staff", "cashier"}
	allOperators = []string{"admin", "staff", "cashier", "kitchen", "chef"}
)

// Deps is everything the route table hands to controllers.
type Deps struct {
	Catalog     *services.CatalogService
	Carts       *services.CartService
	Orders      *services.OrderService
	Transitions *services.TransitionService
	Payments    *services.PaymentService
	Hub         *kds.Hub
	CORSOrigin  string
	// Requests per minute per IP on the customer routes. Zero disables.
	PublicRateLimit int
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// order numbers contain slashes and travel escaped in the path
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	menuCtrl := controllers.NewMenuController(d.Catalog)
	customerCart := controllers.NewCustomerCartController(d.Carts, d.Orders)
	posCart := controllers.NewPOSCartController(d.Carts, d.Orders)
	orderCtrl := controllers.NewOrderController(d.Orders, d.Transitions)
	kitchenCtrl := controllers.NewKitchenController(d.Orders, d.Transitions)
	paymentCtrl := controllers.NewPaymentController(d.Payments)
	receiptCtrl := controllers.NewReceiptController(d.Orders)
	kdsCtrl := controllers.NewKDSController(d.Hub, d.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	if d.PublicRateLimit > 0 {
		public.Use(middlewares.NewRateLimiter(d.PublicRateLimit, d.PublicRateLimit/4+1).RateLimit())
	}
	{
		public.GET("/store", menuCtrl.GetStore)
		public.GET("/menus", menuCtrl.GetAllMenus)
		public.GET("/menus/:product_id", menuCtrl.GetMenuByID)

		registerCart(public, customerCart)
		public.POST("/checkout", customerCart.Checkout)

		public.GET("/orders/:order_no/status", orderCtrl.GetOrderStatus)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.PUT("/store", middlewares.RequireRoles("admin"), menuCtrl.UpdateStore)

	// POS (cashier terminal)
	pos := auth.Group("/pos", middlewares.RequireRoles(frontOfHouse...))
	{
		registerCart(pos, posCart)
		pos.POST("/checkout", posCart.Checkout)
	}

	// Orders console
	orders := auth.Group("/orders", middlewares.RequireRoles(frontOfHouse...))
	{
		orders.GET("", orderCtrl.GetAllOrders)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.GET("/:id/actions", orderCtrl.GetActions)
		orders.POST("/:id/transition", orderCtrl.TransitionOrder)
		orders.POST("/:id/verify-payment", paymentCtrl.VerifyPayment)
		orders.GET("/:id/receipt", receiptCtrl.GetReceipt)
		orders.DELETE("/:id", orderCtrl.DeleteOrder)
	}

	// Kitchen display
	kitchen := auth.Group("/kitchen", middlewares.RequireRoles(allOperators...))
	{
		kitchen.GET("/queue", kitchenCtrl.GetQueue)
		kitchen.GET("/orders/:id/actions", kitchenCtrl.GetActions)
		kitchen.POST("/orders/:id/transition", kitchenCtrl.TransitionOrder)
	}

	// WebSocket, token may come as ?token=
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(allOperators...))
	{
		wsGroup.GET("/:role", kdsCtrl.KDSHandler)
	}

	return r
}

func registerCart(g *gin.RouterGroup, cc *controllers.CartController) {
	g.GET("/cart", cc.GetCart)
	g.POST("/cart/items", cc.AddItem)
	g.PATCH("/cart/items/:line_id", cc.UpdateItem)
	g.DELETE("/cart/items/:line_id", cc.RemoveItem)
	g.DELETE("/cart", cc.ClearCart)
	g.POST("/cart/discount", cc.ApplyDiscount)
	g.DELETE("/cart/discount", cc.RemoveDiscount)
}
