package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/store"
)

// DashboardHandler serves the seller-facing views: the seller's own product
// list and the sales summary over it.
type DashboardHandler struct {
	Catalog *store.Catalog
}

func (h *DashboardHandler) sellerProducts(c echo.Context) []models.Product {
	seller, _ := c.Get("user_name").(string)

	out := make([]models.Product, 0)
	for _, p := range h.Catalog.List() {
		if p.Seller == seller {
			out = append(out, p)
		}
	}
	return out
}

func (h *DashboardHandler) GetProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sellerProducts(c))
}

// GetSummary reports the seller's inventory position: product count, total
// kilos in stock and the value of that stock at current prices.
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.summary")

	products := h.sellerProducts(c)

	var totalKilos, totalValue float64
	for _, p := range products {
		totalKilos += p.AvailableKilos
		totalValue += p.Price * p.AvailableKilos
	}

	seller, _ := c.Get("user_name").(string)
	l.Info("summary_success", "seller", seller, "products", len(products))
	return c.JSON(http.StatusOK, map[string]any{
		"seller":        seller,
		"product_count": len(products),
		"total_kilos":   totalKilos,
		"total_value":   totalValue,
	})
}
