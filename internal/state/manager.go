// Package state holds the store's catalog, cart, order history and admin-mode
// flag, and persists every change to a storage.Storage.
//
// A Manager is the only writer of that state. All operations are serialized by
// one mutex, so concurrent callers observe the same behaviour as a single UI
// thread pressing buttons one at a time.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/clothing-store/internal/domain/cart"
	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/example/clothing-store/internal/infrastructure/storage"
	"github.com/sirupsen/logrus"
)

var (
	ErrClosed      = errors.New("store is closed")
	ErrIDCollision = errors.New("could not generate an unused id")
)

const maxIDAttempts = 5

// Snapshot is a point-in-time copy of the whole state. It shares nothing with
// the manager.
type Snapshot struct {
	Products  catalog.Catalog `json:"products"`
	Orders    order.History   `json:"orders"`
	Cart      cart.Cart       `json:"cart"`
	AdminMode bool            `json:"admin_mode"`
}

type Manager struct {
	mu           sync.Mutex
	storage      storage.Storage
	logger       logrus.FieldLogger
	publisher    Publisher
	now          func() time.Time
	newProductID func() string
	newOrderID   func() string
	seed         catalog.Catalog
	strict       bool
	policy       order.TransitionPolicy
	closed       bool

	products  catalog.Catalog
	orders    order.History
	cart      cart.Cart
	adminMode bool

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	// Commits take a ticket under mu; delivery runs in ticket order.
	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	committed   uint64
	delivered   uint64
}

// New loads products, orders and cart from st. Keys that are missing or cannot
// be decoded fall back to the seed catalog and empty collections. The admin
// flag always starts false.
func New(ctx context.Context, st storage.Storage, opts ...Option) *Manager {
	if st == nil {
		st = storage.NewMemory()
	}
	m := &Manager{
		storage:      st,
		logger:       logrus.StandardLogger(),
		now:          time.Now,
		newProductID: catalog.NewID,
		newOrderID:   order.NewID,
		seed:         catalog.Seed(),
		policy:       order.Permissive,
		subs:         make(map[int]func(Snapshot)),
	}
	m.deliverCond = sync.NewCond(&m.deliverMu)
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithField("component", "store")

	m.loadAll(ctx)
	return m
}

func (m *Manager) loadAll(ctx context.Context) {
	var products catalog.Catalog
	if m.load(ctx, storage.KeyProducts, &products) {
		m.products = products.Clone()
	} else {
		m.products = m.seed.Clone()
	}

	var orders order.History
	if m.load(ctx, storage.KeyOrders, &orders) {
		m.orders = orders
	}
	if m.orders == nil {
		m.orders = order.History{}
	}

	var items cart.Cart
	if m.load(ctx, storage.KeyCart, &items) {
		m.cart = normalizeCart(items)
	} else {
		m.cart = cart.Cart{}
	}

	m.logger.WithFields(logrus.Fields{
		"products": len(m.products),
		"orders":   len(m.orders),
		"cart":     len(m.cart),
	}).Info("state loaded")
}

func (m *Manager) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := m.storage.Get(ctx, key)
	if err != nil {
		m.logger.WithError(err).WithField("key", key).Warn("failed to read state, using defaults")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		m.logger.WithError(err).WithField("key", key).Warn("stored state is unreadable, using defaults")
		return false
	}
	return true
}

// normalizeCart restores the quantity floor on data written by older clients.
func normalizeCart(items cart.Cart) cart.Cart {
	out := items.Clone()
	for i := range out {
		if out[i].Quantity < cart.MinQuantity {
			out[i].Quantity = cart.MinQuantity
		}
	}
	return out
}

// change describes a committed mutation: the storage keys to rewrite and the
// event to publish. A nil *change means nothing happened.
type change struct {
	eventType string
	keys      []string
	data      any
}

// mutate runs fn with the lock held. When fn reports a change, the affected
// collections are written to storage before the lock is released; publishing
// and subscriber notification follow, still before mutate returns.
func (m *Manager) mutate(ctx context.Context, fn func() (*change, error)) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	c, err := fn()
	if err != nil || c == nil {
		m.mu.Unlock()
		return err
	}

	for _, key := range c.keys {
		m.persist(ctx, key)
	}
	snap := m.snapshotLocked()
	at := m.now()
	ticket := m.ticketLocked()
	m.mu.Unlock()

	m.inOrder(ticket, func() { m.dispatch(ctx, c, snap, at) })
	return nil
}

// ticketLocked reserves the next delivery slot. The caller holds mu.
func (m *Manager) ticketLocked() uint64 {
	t := m.committed
	m.committed++
	return t
}

// inOrder runs fn once every earlier ticket has been delivered, so events and
// snapshots leave the manager in commit order.
func (m *Manager) inOrder(ticket uint64, fn func()) {
	m.deliverMu.Lock()
	for m.delivered != ticket {
		m.deliverCond.Wait()
	}
	m.deliverMu.Unlock()

	defer func() {
		m.deliverMu.Lock()
		m.delivered++
		m.deliverCond.Broadcast()
		m.deliverMu.Unlock()
	}()
	fn()
}

func (m *Manager) encode(key string) ([]byte, error) {
	switch key {
	case storage.KeyProducts:
		return json.Marshal(m.products)
	case storage.KeyOrders:
		return json.Marshal(m.orders)
	case storage.KeyCart:
		return json.Marshal(m.cart)
	}
	return nil, fmt.Errorf("unknown state key %q", key)
}

// persist writes one collection. Failures are logged: the in-memory state
// remains authoritative for the session.
func (m *Manager) persist(ctx context.Context, key string) {
	data, err := m.encode(key)
	if err != nil {
		m.logger.WithError(err).WithField("key", key).Error("failed to encode state")
		return
	}
	if err := m.storage.Set(ctx, key, data); err != nil {
		m.logger.WithError(err).WithField("key", key).Error("failed to persist state")
	}
}

func (m *Manager) dispatch(ctx context.Context, c *change, snap Snapshot, at time.Time) {
	if m.publisher != nil && c.eventType != "" {
		evt, err := newEvent(c.eventType, c.keys[0], c.data, at)
		if err != nil {
			m.logger.WithError(err).WithField("event", c.eventType).Error("failed to encode event")
		} else if err := m.publisher.Publish(ctx, evt.Key, evt); err != nil {
			m.logger.WithError(err).WithField("event", c.eventType).Warn("failed to publish event")
		}
	}
	m.notify(snap)
}

// missing resolves an operation that targeted an unknown id.
func (m *Manager) missing(err error, id string) error {
	if m.strict {
		return fmt.Errorf("%w: %s", err, id)
	}
	m.logger.WithField("id", id).Debugf("ignored: %v", err)
	return nil
}

// Close flushes every collection to storage and drops all subscribers.
// Mutations after Close return ErrClosed; reads keep working.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	for _, key := range []string{storage.KeyProducts, storage.KeyOrders, storage.KeyCart} {
		m.persist(ctx, key)
	}
	m.closed = true

	m.subMu.Lock()
	m.subs = make(map[int]func(Snapshot))
	m.subMu.Unlock()
	return nil
}

// Subscribe registers fn to receive a fresh Snapshot after every change, in
// commit order. fn runs on the mutating caller's goroutine, outside the
// manager's lock. It may read the manager but must not mutate it.
func (m *Manager) Subscribe(fn func(Snapshot)) (cancel func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify(snap Snapshot) {
	m.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Products:  m.products.Clone(),
		Orders:    m.orders.Clone(),
		Cart:      m.cart.Clone(),
		AdminMode: m.adminMode,
	}
}

// nextID draws ids from gen until taken reports false.
func nextID(gen func() string, taken func(string) bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		if id := gen(); !taken(id) {
			return id, nil
		}
	}
	return "", ErrIDCollision
}
