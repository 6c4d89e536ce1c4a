package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(id, category string, stock int) Product {
	return Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.NewFromInt(100),
		Category: category,
		Stock:    stock,
	}
}

// ============================================
// Seed Tests
// ============================================

func TestSeed(t *testing.T) {
	seed := Seed()

	require.Len(t, seed, 4)
	assert.Equal(t, "1", seed[0].ID)
	assert.True(t, decimal.NewFromInt(350).Equal(seed[0].Price))
	assert.Equal(t, 10, seed[0].Stock)
	assert.Equal(t, "4", seed[3].ID)
	assert.Equal(t, 8, seed[3].Stock)

	for _, p := range seed {
		assert.NoError(t, p.Validate())
	}
}

func TestSeed_ReturnsIndependentCopies(t *testing.T) {
	a := Seed()
	a[0].Name = "changed"

	assert.NotEqual(t, "changed", Seed()[0].Name)
}

// ============================================
// Validate Tests
// ============================================

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr error
	}{
		{"valid", func(p *Product) {}, nil},
		{"zero price is allowed", func(p *Product) { p.Price = decimal.Zero }, nil},
		{"blank name", func(p *Product) { p.Name = "  " }, ErrInvalidName},
		{"negative price", func(p *Product) { p.Price = decimal.NewFromInt(-1) }, ErrInvalidPrice},
		{"negative stock", func(p *Product) { p.Stock = -3 }, ErrInvalidStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProduct("p1", "shirts", 1)
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ============================================
// Catalog Mutation Tests
// ============================================

func TestCatalog_Add(t *testing.T) {
	c := Catalog{newTestProduct("a", "x", 1)}

	out, err := c.Add(newTestProduct("b", "x", 1))

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[1].ID)
	assert.Len(t, c, 1, "receiver must not change")
}

func TestCatalog_Add_Duplicate(t *testing.T) {
	c := Catalog{newTestProduct("a", "x", 1)}

	out, err := c.Add(newTestProduct("a", "y", 2))

	assert.ErrorIs(t, err, ErrDuplicateProduct)
	assert.Len(t, out, 1)
}

func TestCatalog_Add_MissingID(t *testing.T) {
	_, err := Catalog{}.Add(newTestProduct("", "x", 1))

	assert.ErrorIs(t, err, ErrMissingID)
}

func TestCatalog_Update(t *testing.T) {
	c := Catalog{newTestProduct("a", "x", 1), newTestProduct("b", "x", 1)}
	updated := newTestProduct("b", "y", 9)

	out, found := c.Update(updated)

	assert.True(t, found)
	assert.Equal(t, updated, out[1])
	assert.Equal(t, "x", c[1].Category, "receiver must not change")
}

func TestCatalog_Update_Missing(t *testing.T) {
	c := Catalog{newTestProduct("a", "x", 1)}

	out, found := c.Update(newTestProduct("zzz", "x", 1))

	assert.False(t, found)
	assert.Equal(t, c, out)
}

func TestCatalog_Delete(t *testing.T) {
	c := Catalog{newTestProduct("a", "x", 1), newTestProduct("b", "x", 1), newTestProduct("c", "x", 1)}

	out, found := c.Delete("b")

	assert.True(t, found)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Len(t, c, 3)
}

func TestCatalog_Delete_Missing(t *testing.T) {
	c := Catalog{newTestProduct("a", "x", 1)}

	out, found := c.Delete("nope")

	assert.False(t, found)
	assert.Len(t, out, 1)
}

// ============================================
// Query Tests
// ============================================

func TestCatalog_Categories(t *testing.T) {
	c := Catalog{
		newTestProduct("a", "shirts", 1),
		newTestProduct("b", "dresses", 1),
		newTestProduct("c", "shirts", 1),
	}

	assert.Equal(t, []string{"shirts", "dresses"}, c.Categories())
}

func TestCatalog_ByCategory(t *testing.T) {
	c := Catalog{
		newTestProduct("a", "shirts", 1),
		newTestProduct("b", "dresses", 1),
		newTestProduct("c", "shirts", 1),
	}

	tests := []struct {
		name     string
		category string
		wantIDs  []string
	}{
		{"empty selects all", "", []string{"a", "b", "c"}},
		{"all label selects all", AllCategories, []string{"a", "b", "c"}},
		{"single category", "shirts", []string{"a", "c"}},
		{"unknown category", "hats", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, p := range c.ByCategory(tt.category) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCatalog_LowStock(t *testing.T) {
	c := Catalog{
		newTestProduct("a", "x", 0),
		newTestProduct("b", "x", 5),
		newTestProduct("c", "x", 6),
	}

	low := c.LowStock(LowStockThreshold)

	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "b", low[1].ID)
	assert.True(t, c[1].LowStock())
	assert.False(t, c[2].LowStock())
}

// ============================================
// Seed File Tests
// ============================================

func TestParseSeed(t *testing.T) {
	doc := []byte(`
products:
  - id: "10"
    name: Linen shirt
    price: "149.50"
    category: shirts
    image_url: https://example.com/linen.jpg
    stock: 4
  - name: Wool scarf
    price: "75"
    category: accessories
    stock: 12
`)

	c, err := ParseSeed(doc)

	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, "10", c[0].ID)
	assert.True(t, decimal.RequireFromString("149.5").Equal(c[0].Price))
	assert.Equal(t, "https://example.com/linen.jpg", c[0].ImageURL)
	assert.NotEmpty(t, c[1].ID, "missing ids are generated")
	assert.Equal(t, 12, c[1].Stock)
}

func TestParseSeed_InvalidEntry(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"negative stock", "products:\n  - {id: a, name: n, price: \"1\", stock: -1}\n", ErrInvalidStock},
		{"duplicate id", "products:\n  - {id: a, name: n, price: \"1\"}\n  - {id: a, name: m, price: \"2\"}\n", ErrDuplicateProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseSeed_BadPrice(t *testing.T) {
	_, err := ParseSeed([]byte("products:\n  - {id: a, name: n, price: \"cheap\"}\n"))

	assert.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - {id: a, name: n, price: \"1\", category: c}\n"), 0o644))

	c, err := LoadSeed(path)

	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, "c", c[0].Category)
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
