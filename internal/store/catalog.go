package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/snapshot"
)

// Catalog owns the product list and the available stock per product. Stock
// is also mutated indirectly by Cart reservations through SetAvailableKilos.
type Catalog struct {
	mu       sync.Mutex
	products []models.Product
	snap     *snapshot.Store
	log      *slog.Logger
}

type catalogState struct {
	Products []models.Product `json:"products"`
}

// NewCatalog rehydrates the product list verbatim from the snapshot,
// falling back to the built-in seed catalog on first run. Stock depleted by
// a cart that was never checked out is restored by Cart rehydration-time
// reset only going forward; the persisted kilos are taken as-is.
func NewCatalog(ctx context.Context, snap *snapshot.Store, log *slog.Logger) (*Catalog, error) {
	c := &Catalog{snap: snap, log: log}

	data, err := snap.Load(ctx, snapshot.KeyProducts)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		c.products = seedProducts()
		c.persist(ctx)
	case err != nil:
		return nil, fmt.Errorf("rehydrate catalog: %w", err)
	default:
		var state catalogState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("rehydrate catalog: %w", err)
		}
		c.products = state.Products
	}

	return c, nil
}

// Add appends a product. The id must be unique across the catalog.
func (c *Catalog) Add(ctx context.Context, p models.Product) error {
	if p.ID == "" {
		return fmt.Errorf("%w: product id required", ErrValidation)
	}
	if p.AvailableKilos < 0 {
		return fmt.Errorf("%w: available kilos must be >= 0", ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index(p.ID) >= 0 {
		return fmt.Errorf("%w: id %s", ErrProductExists, p.ID)
	}
	c.products = append(c.products, p)
	c.persist(ctx)
	return nil
}

// Remove deletes by id. No-op if absent.
func (c *Catalog) Remove(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	c.persist(ctx)
}

// ProductPatch carries partial updates; nil fields are left untouched.
type ProductPatch struct {
	Name           *string          `json:"name"`
	Price          *float64         `json:"price"`
	Image          *string          `json:"image"`
	Category       *models.Category `json:"category"`
	Seller         *string          `json:"seller"`
	Description    *string          `json:"description"`
	AvailableKilos *float64         `json:"available_kilos"`
}

// Update merges the patch into the matching product. No-op if absent.
func (c *Catalog) Update(ctx context.Context, id string, patch ProductPatch) error {
	if patch.Price != nil && *patch.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if patch.AvailableKilos != nil && *patch.AvailableKilos < 0 {
		return fmt.Errorf("%w: available kilos must be >= 0", ErrValidation)
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, *patch.Category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return nil
	}
	p := &c.products[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Seller != nil {
		p.Seller = *patch.Seller
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.AvailableKilos != nil {
		p.AvailableKilos = *patch.AvailableKilos
	}
	c.persist(ctx)
	return nil
}

func (c *Catalog) Get(id string) (models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return c.products[i], nil
}

// SetAvailableKilos is the direct stock setter used by the Cart to reconcile
// reservations. No clamping happens here; callers must not pass negative
// values. No-op if absent.
func (c *Catalog) SetAvailableKilos(ctx context.Context, id string, kilos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return
	}
	c.products[i].AvailableKilos = kilos
	c.persist(ctx)
}

// List returns the product collection in insertion order.
func (c *Catalog) List() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// index must be called with c.mu held.
func (c *Catalog) index(id string) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the snapshot fire-and-forget; a failed write only loses
// reload durability, never the live state. Must be called with c.mu held.
func (c *Catalog) persist(ctx context.Context) {
	data, err := json.Marshal(catalogState{Products: c.products})
	if err != nil {
		c.log.Warn("catalog snapshot marshal failed", "error", err)
		return
	}
	if err := c.snap.Save(ctx, snapshot.KeyProducts, data); err != nil {
		c.log.Warn("catalog snapshot write failed", "error", err)
	}
}
