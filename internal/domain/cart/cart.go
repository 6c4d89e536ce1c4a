package cart

import (
	"errors"

	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// MinQuantity is the floor applied to every quantity change.
const MinQuantity = 1

var ErrItemNotFound = errors.New("cart item not found")

// Item is a product snapshot taken when it was added, plus the quantity.
// It serializes flat: the product fields followed by "quantity".
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds one line per product id. Like catalog.Catalog, methods return a
// new slice and leave the receiver untouched.
type Cart []Item

func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) indexOf(productID string) int {
	for i, item := range c {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Find returns the line for productID
func (c Cart) Find(productID string) (Item, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c[i], true
	}
	return Item{}, false
}

// Add bumps the quantity of an existing line by one, or appends a new line
// copied from p with quantity 1.
func (c Cart) Add(p catalog.Product) Cart {
	out := c.Clone()
	if i := out.indexOf(p.ID); i >= 0 {
		out[i].Quantity++
		return out
	}
	return append(out, Item{Product: p, Quantity: 1})
}

// Remove deletes the line regardless of its quantity.
func (c Cart) Remove(productID string) (out Cart, found bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, false
	}
	out = make(Cart, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), true
}

// UpdateQuantity adds delta to the line's quantity, clamped to MinQuantity.
// A line is never removed implicitly.
func (c Cart) UpdateQuantity(productID string, delta int) (out Cart, found bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, false
	}
	out = c.Clone()
	out[i].Quantity = max(MinQuantity, out[i].Quantity+delta)
	return out, true
}

// Total is the sum of price × quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count is the number of units in the cart (the header badge).
func (c Cart) Count() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}
