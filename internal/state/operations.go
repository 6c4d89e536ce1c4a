package state

import (
	"context"

	"github.com/example/clothing-store/internal/domain/cart"
	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/example/clothing-store/internal/infrastructure/storage"
	"github.com/sirupsen/logrus"
)

// ToggleAdminMode flips the admin flag and returns the new value. The flag is
// session state and is never written to storage.
func (m *Manager) ToggleAdminMode() bool {
	m.mu.Lock()
	m.adminMode = !m.adminMode
	enabled := m.adminMode
	snap := m.snapshotLocked()
	ticket := m.ticketLocked()
	m.mu.Unlock()

	m.logger.WithField("admin_mode", enabled).Info("admin mode toggled")
	m.inOrder(ticket, func() { m.notify(snap) })
	return enabled
}

// Product Operations

// AddProduct appends p to the catalog. An empty id is replaced with a
// generated one; the stored product is returned.
func (m *Manager) AddProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := p.Validate(); err != nil {
		return catalog.Product{}, err
	}

	err := m.mutate(ctx, func() (*change, error) {
		if p.ID == "" {
			id, err := nextID(m.newProductID, func(id string) bool {
				_, taken := m.products.Find(id)
				return taken
			})
			if err != nil {
				return nil, err
			}
			p.ID = id
		}

		next, err := m.products.Add(p)
		if err != nil {
			return nil, err
		}
		m.products = next
		return &change{eventType: EventProductAdded, keys: []string{storage.KeyProducts}, data: ProductAdded{Product: p}}, nil
	})
	if err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// UpdateProduct replaces the catalog entry with p's id. Cart lines and past
// orders keep their own copies and are not touched.
func (m *Manager) UpdateProduct(ctx context.Context, p catalog.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	return m.mutate(ctx, func() (*change, error) {
		next, found := m.products.Update(p)
		if !found {
			return nil, m.missing(catalog.ErrProductNotFound, p.ID)
		}
		m.products = next
		return &change{eventType: EventProductUpdated, keys: []string{storage.KeyProducts}, data: ProductUpdated{Product: p}}, nil
	})
}

// DeleteProduct removes the product from the catalog only. A copy already in
// the cart or in an order survives.
func (m *Manager) DeleteProduct(ctx context.Context, id string) error {
	return m.mutate(ctx, func() (*change, error) {
		next, found := m.products.Delete(id)
		if !found {
			return nil, m.missing(catalog.ErrProductNotFound, id)
		}
		m.products = next
		return &change{eventType: EventProductDeleted, keys: []string{storage.KeyProducts}, data: ProductDeleted{ProductID: id}}, nil
	})
}

// Cart Operations

// AddToCart adds one unit of p. A new line copies p as it is now.
func (m *Manager) AddToCart(ctx context.Context, p catalog.Product) error {
	if p.ID == "" {
		return catalog.ErrMissingID
	}

	return m.mutate(ctx, func() (*change, error) {
		m.cart = m.cart.Add(p)
		item, _ := m.cart.Find(p.ID)
		return &change{
			eventType: EventItemAddedToCart,
			keys:      []string{storage.KeyCart},
			data:      ItemAddedToCart{ProductID: p.ID, Quantity: item.Quantity},
		}, nil
	})
}

// AddToCartByID adds the current catalog version of the product. Unlike the
// mutations, an unknown id is always an error: there is nothing to copy.
func (m *Manager) AddToCartByID(ctx context.Context, productID string) error {
	p, ok := m.Product(productID)
	if !ok {
		return catalog.ErrProductNotFound
	}
	return m.AddToCart(ctx, p)
}

// RemoveFromCart drops the whole line, whatever its quantity.
func (m *Manager) RemoveFromCart(ctx context.Context, productID string) error {
	return m.mutate(ctx, func() (*change, error) {
		next, found := m.cart.Remove(productID)
		if !found {
			return nil, m.missing(cart.ErrItemNotFound, productID)
		}
		m.cart = next
		return &change{eventType: EventItemRemovedFromCart, keys: []string{storage.KeyCart}, data: ItemRemovedFromCart{ProductID: productID}}, nil
	})
}

// UpdateCartQuantity adds delta to the line's quantity, never going below 1.
func (m *Manager) UpdateCartQuantity(ctx context.Context, productID string, delta int) error {
	return m.mutate(ctx, func() (*change, error) {
		next, found := m.cart.UpdateQuantity(productID, delta)
		if !found {
			return nil, m.missing(cart.ErrItemNotFound, productID)
		}
		m.cart = next
		item, _ := next.Find(productID)
		return &change{
			eventType: EventCartQuantityChanged,
			keys:      []string{storage.KeyCart},
			data:      CartQuantityChanged{ProductID: productID, Delta: delta, Quantity: item.Quantity},
		}, nil
	})
}

// ClearCart empties the cart unconditionally.
func (m *Manager) ClearCart(ctx context.Context) error {
	return m.mutate(ctx, func() (*change, error) {
		lines := len(m.cart)
		m.cart = cart.Cart{}
		return &change{eventType: EventCartCleared, keys: []string{storage.KeyCart}, data: CartCleared{Lines: lines}}, nil
	})
}

// Order Operations

// PlaceOrder records an order built from the current cart and empties the
// cart. Both happen under one lock: callers see either neither change (on a
// validation error) or both.
func (m *Manager) PlaceOrder(ctx context.Context, details order.CustomerDetails) (order.Order, error) {
	var placed order.Order

	err := m.mutate(ctx, func() (*change, error) {
		id, err := nextID(m.newOrderID, func(id string) bool {
			_, taken := m.orders.Find(id)
			return taken
		})
		if err != nil {
			return nil, err
		}

		o, err := order.New(id, details, m.cart, m.now())
		if err != nil {
			return nil, err
		}

		m.orders = m.orders.Prepend(o)
		m.cart = cart.Cart{}
		placed = o.Clone()

		m.logger.WithFields(logrus.Fields{
			"order_id": o.ID,
			"items":    len(o.Items),
			"total":    o.Total.String(),
		}).Info("order placed")

		return &change{eventType: EventOrderPlaced, keys: []string{storage.KeyOrders, storage.KeyCart}, data: OrderPlaced{Order: o}}, nil
	})
	if err != nil {
		return order.Order{}, err
	}
	return placed, nil
}

// UpdateOrderStatus sets the status of an order. status must be one of the
// order.Statuses; whether the move is allowed is up to the configured policy.
func (m *Manager) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) error {
	return m.mutate(ctx, func() (*change, error) {
		previous, _ := m.orders.Find(orderID)

		next, found, err := m.orders.SetStatus(orderID, status, m.policy)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, m.missing(order.ErrOrderNotFound, orderID)
		}
		m.orders = next
		return &change{
			eventType: EventOrderStatusChanged,
			keys:      []string{storage.KeyOrders},
			data:      OrderStatusChanged{OrderID: orderID, From: previous.Status, To: status},
		}, nil
	})
}
