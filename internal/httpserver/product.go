package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/agrolocal/farmstand/internal/events"
	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/store"
	"github.com/agrolocal/farmstand/internal/util"
)

type ProductHandler struct {
	Catalog  *store.Catalog
	Producer *events.Producer
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	products := h.Catalog.List()

	if category := c.QueryParam("category"); category != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if string(p.Category) == category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total := len(products)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	items := products[offset:end]

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + limit - 1) / limit,
			"has_prev":    page > 1,
			"has_next":    end < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Catalog.Get(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	Name           string          `json:"name"`
	Price          float64         `json:"price"`
	Image          string          `json:"image"`
	Category       models.Category `json:"category"`
	Description    string          `json:"description"`
	AvailableKilos float64         `json:"available_kilos"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		l.Warn("product_create_error", "status", 400, "reason", "name required")
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}
	if !req.Category.Valid() {
		l.Warn("product_create_error", "status", 400, "reason", "unknown category")
		return echo.NewHTTPError(http.StatusBadRequest, "category must be Fruits, Vegetables or Tubers")
	}
	if req.Price < 0 {
		l.Warn("product_create_error", "status", 400, "reason", "negative price")
		return echo.NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	seller, _ := c.Get("user_name").(string)
	product := models.Product{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Price:          req.Price,
		Image:          req.Image,
		Category:       req.Category,
		Seller:         seller,
		Description:    req.Description,
		AvailableKilos: req.AvailableKilos,
	}

	if err := h.Catalog.Add(ctx, product); err != nil {
		if errors.Is(err, store.ErrProductExists) {
			l.Warn("product_create_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "product already exists")
		}
		if errors.Is(err, store.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("product_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product")
	}

	h.Producer.Publish(ctx, events.TopicProductEvents, product.ID, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
		"seller":     product.Seller,
	})

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id := c.Param("id")

	var patch store.ProductPatch
	if err := c.Bind(&patch); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Catalog.Get(id); err != nil {
		l.Warn("product_patch_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if err := h.Catalog.Update(ctx, id, patch); err != nil {
		if errors.Is(err, store.ErrValidation) {
			l.Warn("product_patch_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("product_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	product, err := h.Catalog.Get(id)
	if err != nil {
		l.Error("product_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	h.Producer.Publish(ctx, events.TopicProductEvents, id, map[string]any{
		"type":       "product_updated",
		"product_id": id,
		"name":       product.Name,
	})

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct is idempotent: deleting an absent product still answers 204.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id := c.Param("id")
	h.Catalog.Remove(ctx, id)

	h.Producer.Publish(ctx, events.TopicProductEvents, id, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
