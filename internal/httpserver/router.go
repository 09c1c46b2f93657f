package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrolocal/farmstand/internal/models"
)

type Deps struct {
	SessionHandler  *SessionHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	Dashboard       *DashboardHandler
	Auth            *AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.SessionHandler.Login)
	v1.POST("/logout", d.SessionHandler.Logout)
	v1.GET("/session", d.SessionHandler.Current)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	seller := v1.Group("/seller", d.Auth.RequireRole(models.RoleSeller))
	seller.GET("/products", d.Dashboard.GetProducts)
	seller.POST("/products", d.ProductHandler.CreateProduct)
	seller.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	seller.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	seller.GET("/summary", d.Dashboard.GetSummary)

	cart := v1.Group("/cart", d.Auth.RequireRole(models.RoleBuyer))
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	v1.POST("/checkout", d.CheckoutHandler.Checkout, d.Auth.RequireRole(models.RoleBuyer))
}
