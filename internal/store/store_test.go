package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/snapshot"
)

func newTestSnap(t *testing.T) *snapshot.Store {
	t.Helper()

	snap, err := snapshot.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory snapshot store: %v", err)
	}
	t.Cleanup(func() { snap.Close() })
	return snap
}

func newTestStores(t *testing.T) (*Catalog, *Cart, *snapshot.Store) {
	t.Helper()

	snap := newTestSnap(t)
	logger := logging.New("error")

	catalog, err := NewCatalog(context.Background(), snap, logger)
	require.NoError(t, err)

	cart, err := NewCart(context.Background(), catalog, snap, logger)
	require.NoError(t, err)

	return catalog, cart, snap
}

// mustGet keeps stock assertions short.
func mustGet(t *testing.T, c *Catalog, id string) float64 {
	t.Helper()

	p, err := c.Get(id)
	require.NoError(t, err)
	return p.AvailableKilos
}
