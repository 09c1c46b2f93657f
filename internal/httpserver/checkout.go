package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrolocal/farmstand/internal/checkout"
	"github.com/agrolocal/farmstand/internal/logging"
)

type CheckoutHandler struct {
	Svc *checkout.Service
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.process")

	var form checkout.Form
	if err := c.Bind(&form); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Process(ctx, form)
	if err != nil {
		var fieldErrs checkout.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			l.Warn("checkout_error", "status", 422, "error", err)
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"message": "validation failed",
				"fields":  fieldErrs,
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			l.Warn("checkout_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrNotAuthenticated):
			l.Warn("checkout_error", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, checkout.ErrNotBuyer):
			l.Warn("checkout_error", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			l.Error("checkout_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
		}
	}

	l.Info("checkout_success", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusOK, order)
}
