package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/models"
)

func TestCatalog_SeedsOnFirstRun(t *testing.T) {
	catalog, _, _ := newTestStores(t)

	products := catalog.List()
	require.Len(t, products, 6)
	assert.Equal(t, "Organic Potatoes", products[0].Name)
	assert.Equal(t, float64(100), products[0].AvailableKilos)
}

func TestCatalog_AddRejectsDuplicateID(t *testing.T) {
	catalog, _, _ := newTestStores(t)
	ctx := context.Background()

	p := models.Product{
		ID:             "test-1",
		Name:           "Plantains",
		Price:          2500,
		Category:       models.CategoryFruits,
		Seller:         "Test Farm",
		AvailableKilos: 30,
	}
	require.NoError(t, catalog.Add(ctx, p))

	err := catalog.Add(ctx, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProductExists)
	require.Len(t, catalog.List(), 7)
}

func TestCatalog_AddValidation(t *testing.T) {
	catalog, _, _ := newTestStores(t)
	ctx := context.Background()

	err := catalog.Add(ctx, models.Product{Name: "no id"})
	assert.ErrorIs(t, err, ErrValidation)

	err = catalog.Add(ctx, models.Product{ID: "x", Name: "negative", AvailableKilos: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalog_UpdateMergesPartialFields(t *testing.T) {
	catalog, _, _ := newTestStores(t)
	ctx := context.Background()

	newPrice := 14000.0
	require.NoError(t, catalog.Update(ctx, "1", ProductPatch{Price: &newPrice}))

	p, err := catalog.Get("1")
	require.NoError(t, err)
	assert.Equal(t, 14000.0, p.Price)
	assert.Equal(t, "Organic Potatoes", p.Name)
	assert.Equal(t, float64(100), p.AvailableKilos)
}

func TestCatalog_UpdateMissingIsNoop(t *testing.T) {
	catalog, _, _ := newTestStores(t)

	name := "ghost"
	require.NoError(t, catalog.Update(context.Background(), "no-such-id", ProductPatch{Name: &name}))
	require.Len(t, catalog.List(), 6)
}

func TestCatalog_RemoveMissingIsNoop(t *testing.T) {
	catalog, _, _ := newTestStores(t)

	catalog.Remove(context.Background(), "no-such-id")
	require.Len(t, catalog.List(), 6)
}

func TestCatalog_GetMissing(t *testing.T) {
	catalog, _, _ := newTestStores(t)

	_, err := catalog.Get("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_SetAvailableKilos(t *testing.T) {
	catalog, _, _ := newTestStores(t)
	ctx := context.Background()

	catalog.SetAvailableKilos(ctx, "1", 42.5)
	assert.Equal(t, 42.5, mustGet(t, catalog, "1"))

	// absent product: no-op
	catalog.SetAvailableKilos(ctx, "no-such-id", 10)
	require.Len(t, catalog.List(), 6)
}

func TestCatalog_ListReturnsCopyInInsertionOrder(t *testing.T) {
	catalog, _, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, catalog.Add(ctx, models.Product{
		ID: "z-last", Name: "Last", Category: models.CategoryFruits, AvailableKilos: 1,
	}))

	products := catalog.List()
	assert.Equal(t, "z-last", products[len(products)-1].ID)

	products[0].Name = "mutated"
	assert.Equal(t, "Organic Potatoes", catalog.List()[0].Name)
}

func TestCatalog_RehydratesVerbatim(t *testing.T) {
	ctx := context.Background()
	snap := newTestSnap(t)
	logger := logging.New("error")

	catalog, err := NewCatalog(ctx, snap, logger)
	require.NoError(t, err)

	catalog.SetAvailableKilos(ctx, "1", 40)
	catalog.Remove(ctx, "6")

	reloaded, err := NewCatalog(ctx, snap, logger)
	require.NoError(t, err)

	require.Len(t, reloaded.List(), 5)
	assert.Equal(t, float64(40), mustGet(t, reloaded, "1"))
}
