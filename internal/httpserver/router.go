package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/trananhduc/fashion_shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	OrderHandler     *OrderHTTP
	UserHandler      *UserHTTP
	VoucherHandler   *VoucherHTTP
	ProductHandler   *ProductHTTP
	CategoryHandler  *CategoryHTTP
	SearchHandler    *SearchHTTP
	DashboardHandler *DashboardHTTP
	JWTSecret        []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := authmw.New(d.JWTSecret)

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.GET("/me", d.AuthHandler.Me, auth.RequireLogin)
	v1.PUT("/me", d.UserHandler.UpdateMe, auth.RequireLogin)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/category", d.CategoryHandler.List)
	v1.GET("/bestsellers", d.ProductHandler.BestSellers)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	v1.GET("/voucher", d.VoucherHandler.List)
	v1.GET("/voucher/:code", d.VoucherHandler.GetByCode)

	orders := v1.Group("/orders", auth.RequireLogin)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/my", d.OrderHandler.ListMyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
	orders.POST("/:id/items", d.OrderHandler.AddItem)
	orders.PUT("/:id/items/:itemID", d.OrderHandler.UpdateItem)
	orders.DELETE("/:id/items/:itemID", d.OrderHandler.RemoveItem)

	ordersStaff := orders.Group("", auth.RequireStaff)
	ordersStaff.GET("", d.OrderHandler.ListAllOrders)
	ordersStaff.PUT("/:id/status", d.OrderHandler.SetStatus)

	staff := v1.Group("", auth.RequireLogin, auth.RequireStaff)
	staff.POST("/products", d.ProductHandler.CreateProduct)
	staff.PUT("/products/:id", d.ProductHandler.UpdateProduct)
	staff.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	staff.POST("/category", d.CategoryHandler.Create)
	staff.PUT("/category/:id", d.CategoryHandler.Update)
	staff.DELETE("/category/:id", d.CategoryHandler.Delete)
	staff.POST("/voucher", d.VoucherHandler.Create)
	staff.PUT("/voucher/:id", d.VoucherHandler.Update)

	admin := v1.Group("", auth.RequireLogin, auth.RequireAdmin)
	admin.PUT("/voucher/admin/:id", d.VoucherHandler.AdminUpdate)
	admin.DELETE("/voucher/:id", d.VoucherHandler.Delete)
	admin.GET("/users", d.UserHandler.List)
	admin.GET("/users/:id", d.UserHandler.Get)
	admin.DELETE("/users/:id", d.UserHandler.Delete)
	admin.PUT("/users/:id/role", d.UserHandler.SetRole)
	admin.PUT("/users/:id/lock", d.UserHandler.SetActive)
	admin.POST("/users/admin", d.UserHandler.CreateAdmin)
	admin.GET("/customers", d.UserHandler.Customers)
	admin.GET("/dashboard/summary", d.DashboardHandler.Summary)
	admin.GET("/dashboard/orders-by-status", d.DashboardHandler.OrdersByStatus)
	admin.GET("/dashboard/revenue-by-date", d.DashboardHandler.RevenueByDate)
}
