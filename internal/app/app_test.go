package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/clothing-store/internal/config"
	"github.com/example/clothing-store/internal/description"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Storage:   config.StorageFile,
		DataDir:   t.TempDir(),
		LogLevel:  "error",
		LogFormat: "text",
	}
}

func TestBuild_FileStorage(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := Build(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, a.Store.AddToCartByID(ctx, "1"))
	require.NoError(t, a.Close(ctx))

	_, err = os.Stat(filepath.Join(cfg.DataDir, "cart.json"))
	assert.NoError(t, err)

	reopened, err := Build(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close(ctx)
	assert.Equal(t, 1, reopened.Store.CartCount())
}

func TestBuild_NoAPIKey(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)

	assert.False(t, a.Generator.Available())
	assert.Equal(t, description.MissingKeyText, a.Generator.Generate(context.Background(), description.Request{Name: "x"}))
}

func TestBuild_SeedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte(`
products:
  - id: "s1"
    name: "Scarf"
    price: "45.50"
    category: "Accessories"
    stock: 3
`), 0o644))

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)

	products := a.Store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "s1", products[0].ID)
}

func TestBuild_MissingSeedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := Build(context.Background(), cfg)

	assert.Error(t, err)
}

func TestBuild_StrictOptions(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage = config.StorageMemory
	cfg.StrictLookups = true
	cfg.StrictTransitions = true

	a, err := Build(ctx, cfg)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Store.UpdateOrderStatus(ctx, "nope", order.StatusShipped), order.ErrOrderNotFound)

	require.NoError(t, a.Store.AddToCartByID(ctx, "1"))
	placed, err := a.Store.PlaceOrder(ctx, order.CustomerDetails{Name: "A", Phone: "555", Address: "X"})
	require.NoError(t, err)
	assert.ErrorIs(t, a.Store.UpdateOrderStatus(ctx, placed.ID, order.StatusDelivered), order.ErrTransitionNotAllowed)
}

func TestBuild_UnknownStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = "redis"

	_, err := Build(context.Background(), cfg)

	assert.Error(t, err)
}
