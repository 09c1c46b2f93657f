package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/snapshot"
)

// Cart owns the shopper's cart lines. Every mutation cross-updates the
// Catalog's available kilos for the affected product so that at all times
//
//	product.AvailableKilos + sum(lines for product) == original stock
//
// Adding reserves stock, removing or clearing releases it, and a purchase
// consumes it permanently.
type Cart struct {
	mu      sync.Mutex
	items   []models.CartLine
	catalog *Catalog
	snap    *snapshot.Store
	log     *slog.Logger
}

type cartState struct {
	Items []models.CartLine `json:"items"`
}

// NewCart always rehydrates to an empty cart. The persisted item list is
// read and discarded: restoring it would double-count stock that the catalog
// snapshot already shows as reserved.
func NewCart(ctx context.Context, catalog *Catalog, snap *snapshot.Store, log *slog.Logger) (*Cart, error) {
	c := &Cart{catalog: catalog, snap: snap, log: log}

	if _, err := snap.Load(ctx, snapshot.KeyCart); err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		return nil, fmt.Errorf("rehydrate cart: %w", err)
	}
	c.persist(ctx)

	return c, nil
}

func formatKilos(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AddItem reserves quantity kilos of the product. The available stock is
// read at call time; when the product is already in the cart, the new line
// total must still fit into what is currently available.
func (c *Cart) AddItem(ctx context.Context, productID string, quantity float64) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	product, err := c.catalog.Get(productID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(productID)
	if i >= 0 {
		newQuantity := c.items[i].Quantity + quantity
		if newQuantity > product.AvailableKilos {
			return fmt.Errorf("%w: only %s kg of %s available",
				ErrInsufficientStock, formatKilos(product.AvailableKilos), product.Name)
		}
		c.items[i].Quantity = newQuantity
	} else {
		if quantity > product.AvailableKilos {
			return fmt.Errorf("%w: only %s kg of %s available",
				ErrInsufficientStock, formatKilos(product.AvailableKilos), product.Name)
		}
		c.items = append(c.items, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Seller:    product.Seller,
			Quantity:  quantity,
		})
	}

	c.catalog.SetAvailableKilos(ctx, productID, product.AvailableKilos-quantity)
	c.persist(ctx)
	return nil
}

// RemoveItem deletes the line and releases its reservation back to the
// catalog. No-op, no restoration, if the line is absent.
func (c *Cart) RemoveItem(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(productID)
	if i < 0 {
		return
	}
	line := c.items[i]

	if product, err := c.catalog.Get(productID); err == nil {
		c.catalog.SetAvailableKilos(ctx, productID, product.AvailableKilos+line.Quantity)
	}

	c.items = append(c.items[:i], c.items[i+1:]...)
	c.persist(ctx)
}

// UpdateQuantity sets the line to newQuantity. A positive delta is a further
// reservation and must fit into the currently available stock; a negative
// delta is a release. No-op if the line or the product is absent.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, newQuantity float64) error {
	if newQuantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(productID)
	if i < 0 {
		return nil
	}

	product, err := c.catalog.Get(productID)
	if err != nil {
		return nil
	}

	delta := newQuantity - c.items[i].Quantity
	if delta > 0 && delta > product.AvailableKilos {
		return fmt.Errorf("%w: only %s kg of %s available",
			ErrInsufficientStock, formatKilos(product.AvailableKilos), product.Name)
	}

	c.catalog.SetAvailableKilos(ctx, productID, product.AvailableKilos-delta)
	c.items[i].Quantity = newQuantity
	c.persist(ctx)
	return nil
}

// Clear is the cancel path: every reservation is released back to the
// catalog, then the cart is emptied.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range c.items {
		if product, err := c.catalog.Get(line.ProductID); err == nil {
			c.catalog.SetAvailableKilos(ctx, line.ProductID, product.AvailableKilos+line.Quantity)
		}
	}
	c.items = nil
	c.persist(ctx)
}

// ClearAfterPurchase empties the cart without releasing stock; the purchase
// consumed it permanently.
func (c *Cart) ClearAfterPurchase(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.persist(ctx)
}

func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.items {
		total += line.Price * line.Quantity
	}
	return total
}

func (c *Cart) Items() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.items))
	copy(out, c.items)
	return out
}

// index must be called with c.mu held.
func (c *Cart) index(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// persist must be called with c.mu held.
func (c *Cart) persist(ctx context.Context) {
	data, err := json.Marshal(cartState{Items: c.items})
	if err != nil {
		c.log.Warn("cart snapshot marshal failed", "error", err)
		return
	}
	if err := c.snap.Save(ctx, snapshot.KeyCart, data); err != nil {
		c.log.Warn("cart snapshot write failed", "error", err)
	}
}
