package state

import (
	"github.com/example/clothing-store/internal/domain/cart"
	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Every read returns a copy; callers may modify results freely.

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) IsAdminMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adminMode
}

func (m *Manager) Products() catalog.Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.Clone()
}

func (m *Manager) Product(id string) (catalog.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.Find(id)
}

// ProductsByCategory backs the storefront filter bar.
func (m *Manager) ProductsByCategory(category string) catalog.Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.ByCategory(category)
}

func (m *Manager) Categories() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.Categories()
}

func (m *Manager) Orders() order.History {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders.Clone()
}

func (m *Manager) Order(id string) (order.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders.Find(id)
}

func (m *Manager) Cart() cart.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

func (m *Manager) CartTotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Total()
}

func (m *Manager) CartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Count()
}

// Stats computes the admin dashboard figures.
func (m *Manager) Stats(topN int) order.Dashboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return order.Stats(m.products, m.orders, topN)
}
