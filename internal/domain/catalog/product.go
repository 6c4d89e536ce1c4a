package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllCategories is the storefront filter value that selects every product.
const AllCategories = "الكل"

// LowStockThreshold is the stock level at or below which the storefront warns buyers.
const LowStockThreshold = 5

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrMissingID        = errors.New("product id is required")
	ErrDuplicateProduct = errors.New("product id already exists")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidStock     = errors.New("stock must not be negative")
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
}

// Validate checks the fields an admin form is expected to fill in.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// LowStock reports whether the product should carry the "only a few left" badge.
func (p Product) LowStock() bool {
	return p.Stock <= LowStockThreshold
}

// NewID returns a fresh product identifier
func NewID() string {
	return uuid.New().String()
}

// Catalog is the ordered product collection. Methods never mutate the receiver's
// backing array; they return a new slice.
type Catalog []Product

func (c Catalog) Clone() Catalog {
	if c == nil {
		return Catalog{}
	}
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

func (c Catalog) indexOf(id string) int {
	for i, p := range c {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the product with the given id
func (c Catalog) Find(id string) (Product, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c[i], true
	}
	return Product{}, false
}

// Add appends p. The id must be set and unused.
func (c Catalog) Add(p Product) (Catalog, error) {
	if p.ID == "" {
		return c, ErrMissingID
	}
	if c.indexOf(p.ID) >= 0 {
		return c, ErrDuplicateProduct
	}
	out := make(Catalog, 0, len(c)+1)
	out = append(out, c...)
	return append(out, p), nil
}

// Update replaces the entry whose id matches p.ID. found is false when nothing matched.
func (c Catalog) Update(p Product) (out Catalog, found bool) {
	i := c.indexOf(p.ID)
	if i < 0 {
		return c, false
	}
	out = c.Clone()
	out[i] = p
	return out, true
}

// Delete drops the entry with the given id. found is false when nothing matched.
func (c Catalog) Delete(id string) (out Catalog, found bool) {
	i := c.indexOf(id)
	if i < 0 {
		return c, false
	}
	out = make(Catalog, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), true
}

// Categories lists distinct categories in first-seen order.
func (c Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range c {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cats = append(cats, p.Category)
	}
	return cats
}

// ByCategory filters the catalog. An empty category or AllCategories returns everything.
func (c Catalog) ByCategory(category string) Catalog {
	if category == "" || category == AllCategories {
		return c.Clone()
	}
	out := Catalog{}
	for _, p := range c {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// LowStock returns products with stock at or below threshold.
func (c Catalog) LowStock(threshold int) Catalog {
	out := Catalog{}
	for _, p := range c {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}
