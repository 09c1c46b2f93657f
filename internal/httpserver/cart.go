package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrolocal/farmstand/internal/events"
	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/store"
)

type CartHandler struct {
	Cart     *store.Cart
	Producer *events.Producer
}

func (h *CartHandler) cartResponse(c echo.Context, status int) error {
	return c.JSON(status, map[string]any{
		"items": h.Cart.Items(),
		"total": h.Cart.TotalPrice(),
	})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return h.cartResponse(c, http.StatusOK)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req struct {
		ProductID string  `json:"product_id"`
		Quantity  float64 `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		l.Warn("add_to_cart_error", "status", 400, "reason", "product_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	if err := h.Cart.AddItem(ctx, req.ProductID, req.Quantity); err != nil {
		return h.cartError(l, "add_to_cart_error", err)
	}

	userID, _ := c.Get("user_id").(string)
	h.Producer.Publish(ctx, events.TopicCartEvents, userID, map[string]any{
		"type":       "cart_item_added",
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	l.Info("add_to_cart_success", "product_id", req.ProductID)
	return h.cartResponse(c, http.StatusOK)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	productID := c.Param("id")

	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Cart.UpdateQuantity(ctx, productID, req.Quantity); err != nil {
		return h.cartError(l, "update_quantity_error", err)
	}

	userID, _ := c.Get("user_id").(string)
	h.Producer.Publish(ctx, events.TopicCartEvents, userID, map[string]any{
		"type":         "cart_quantity_updated",
		"product_id":   productID,
		"new_quantity": req.Quantity,
	})

	l.Info("update_quantity_success", "product_id", productID)
	return h.cartResponse(c, http.StatusOK)
}

// RemoveFromCart releases the line's reservation. Removing an absent line is
// a no-op and still answers 200.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	productID := c.Param("id")
	h.Cart.RemoveItem(ctx, productID)

	userID, _ := c.Get("user_id").(string)
	h.Producer.Publish(ctx, events.TopicCartEvents, userID, map[string]any{
		"type":       "cart_item_removed",
		"product_id": productID,
	})

	l.Info("remove_from_cart_success", "product_id", productID)
	return h.cartResponse(c, http.StatusOK)
}

// ClearCart is the cancel path: reservations are released back to stock.
func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	h.Cart.Clear(ctx)

	userID, _ := c.Get("user_id").(string)
	h.Producer.Publish(ctx, events.TopicCartEvents, userID, map[string]any{
		"type": "cart_cleared",
	})

	l.Info("clear_cart_success")
	return h.cartResponse(c, http.StatusOK)
}

func (h *CartHandler) cartError(l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrValidation):
		l.Warn(op, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		l.Warn(op, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, store.ErrInsufficientStock):
		l.Warn(op, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(op, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
