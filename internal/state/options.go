package state

import (
	"time"

	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/sirupsen/logrus"
)

type Option func(*Manager)

func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithPublisher forwards every committed mutation as an Event.
func WithPublisher(p Publisher) Option {
	return func(m *Manager) { m.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces the uuid generator used for new products and orders.
func WithIDGenerator(next func() string) Option {
	return func(m *Manager) {
		m.newProductID = next
		m.newOrderID = next
	}
}

// WithSeed sets the catalog used when no products are stored yet.
func WithSeed(seed catalog.Catalog) Option {
	return func(m *Manager) { m.seed = seed.Clone() }
}

// WithStrictLookups makes operations on unknown ids return a not-found error
// instead of doing nothing.
func WithStrictLookups() Option {
	return func(m *Manager) { m.strict = true }
}

// WithTransitionPolicy selects which status changes UpdateOrderStatus accepts.
func WithTransitionPolicy(p order.TransitionPolicy) Option {
	return func(m *Manager) {
		if p != nil {
			m.policy = p
		}
	}
}
