package router

import (
	"myMarketplace/domain"
	"myMarketplace/internal/middleware"
	"myMarketplace/internal/rest"

	"github.com/labstack/echo/v4"
)

// Handlers groups every REST handler mounted under /api/v1.
type Handlers struct {
	User     *rest.UserHandler
	Category *rest.CategoryHandler
	Product  *rest.ProductHandler
	Cart     *rest.CartHandler
	Address  *rest.AddressHandler
	Orders   *rest.OrdersHandler
	Delivery *rest.DeliveryHandler
	Seller   *rest.SellerHandler
}

func Setup(api *echo.Group, h Handlers, authRequired echo.MiddlewareFunc) {
	SetupUserRoutes(api, h.User, authRequired)
	SetupCategoryRoutes(api, h.Category, authRequired)
	SetupProductRoutes(api, h.Product, authRequired)
	SetupBuyerRoutes(api, h.Cart, h.Address, h.Orders, authRequired)
	SetupSellerRoutes(api, h.Orders, h.Seller, authRequired)
	SetupDeliveryRoutes(api, h.Delivery, authRequired)
	SetupAdminRoutes(api, h.Orders, h.Delivery, authRequired)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")
	auth.POST("/:role/register", handler.Register)
	auth.POST("/:role/login", handler.Login)
	auth.POST("/logout", handler.Logout, authRequired)

	me := api.Group("/me", authRequired, middleware.RequireRoles(domain.AccountRoles...))
	me.GET("", handler.Me)
	me.PATCH("", handler.UpdateProfile)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory, authRequired, middleware.AdminOnly())
	categories.PUT("/:id", handler.UpdateCategory, authRequired, middleware.AdminOnly())
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, middleware.AdminOnly())
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc) {
	products := api.Group("/products")
	sellerOnly := middleware.RequireRoles(domain.RoleSeller)

	products.GET("", handler.ListProducts)
	products.GET("/search", handler.SearchProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, sellerOnly)
	products.PATCH("/:id", handler.UpdateProduct, authRequired, sellerOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, sellerOnly)
}

func SetupBuyerRoutes(api *echo.Group, cart *rest.CartHandler, address *rest.AddressHandler, orders *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	buyerOnly := middleware.RequireRoles(domain.RoleBuyer)

	c := api.Group("/cart", authRequired, buyerOnly)
	c.GET("", cart.GetCart)
	c.POST("/items", cart.AddItem)
	c.PATCH("/items/:product_id", cart.UpdateItem)
	c.DELETE("/items/:product_id", cart.RemoveItem)
	c.DELETE("", cart.Clear)

	w := api.Group("/wishlist", authRequired, buyerOnly)
	w.GET("", cart.ListWishlist)
	w.POST("", cart.AddToWishlist)
	w.DELETE("/:product_id", cart.RemoveFromWishlist)
	w.POST("/:product_id/move-to-cart", cart.MoveToCart)

	a := api.Group("/addresses", authRequired, buyerOnly)
	a.GET("", address.List)
	a.POST("", address.Create)
	a.GET("/:id", address.Get)
	a.PUT("/:id", address.Update)
	a.POST("/:id/default", address.SetDefault)
	a.DELETE("/:id", address.Delete)

	o := api.Group("/orders", authRequired, buyerOnly)
	o.POST("", orders.Checkout)
	o.GET("", orders.ListBuyerOrders)
	o.GET("/:id", orders.GetBuyerOrder)
	o.POST("/:id/cancel", orders.CancelOrder)
}

func SetupSellerRoutes(api *echo.Group, orders *rest.OrdersHandler, seller *rest.SellerHandler, authRequired echo.MiddlewareFunc) {
	s := api.Group("/seller", authRequired, middleware.RequireRoles(domain.RoleSeller))
	s.GET("/orders", orders.ListSellerOrders)
	s.GET("/orders/:id", orders.GetSellerOrder)
	s.PATCH("/orders/:id/status", orders.UpdateSellerOrderStatus)
	s.GET("/analytics", seller.Analytics)
}

func SetupDeliveryRoutes(api *echo.Group, handler *rest.DeliveryHandler, authRequired echo.MiddlewareFunc) {
	d := api.Group("/delivery", authRequired, middleware.RequireRoles(domain.RoleDeliveryAgent))
	d.GET("/orders", handler.ListAssigned)
	d.GET("/orders/:id", handler.GetAssigned)
	d.POST("/orders/:id/pickup", handler.PickUp)
	d.POST("/orders/:id/deliver", handler.Deliver)
	d.PUT("/availability", handler.SetAvailability)
	d.GET("/earnings", handler.Earnings)
}

func SetupAdminRoutes(api *echo.Group, orders *rest.OrdersHandler, delivery *rest.DeliveryHandler, authRequired echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, middleware.AdminOnly())
	admin.GET("/orders", orders.ListAllOrders)
	admin.GET("/orders/:id", orders.GetOrder)
	admin.PATCH("/orders/:id/status", orders.ForceStatus)
	admin.POST("/orders/:id/assign", delivery.ManualAssign)

	admin.POST("/delivery/assign", delivery.RunAssignment)
	admin.GET("/delivery/agents", delivery.ListAgents)
	admin.PATCH("/delivery/agents/:id/status", delivery.SetAgentStatus)
	admin.GET("/delivery/earning", delivery.QuoteEarning)
}
