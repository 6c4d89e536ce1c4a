package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/google/uuid"
)

const (
	EventProductAdded        = "ProductAdded"
	EventProductUpdated      = "ProductUpdated"
	EventProductDeleted      = "ProductDeleted"
	EventItemAddedToCart     = "ItemAddedToCart"
	EventItemRemovedFromCart = "ItemRemovedFromCart"
	EventCartQuantityChanged = "CartQuantityChanged"
	EventCartCleared         = "CartCleared"
	EventOrderPlaced         = "OrderPlaced"
	EventOrderStatusChanged  = "OrderStatusChanged"
)

// Event describes one committed mutation. Key names the storage entry it changed.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher forwards events outside the process (see kafka.Producer).
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type ProductAdded struct {
	Product catalog.Product `json:"product"`
}

type ProductUpdated struct {
	Product catalog.Product `json:"product"`
}

type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

type ItemAddedToCart struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type ItemRemovedFromCart struct {
	ProductID string `json:"product_id"`
}

type CartQuantityChanged struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Quantity  int    `json:"quantity"`
}

type CartCleared struct {
	Lines int `json:"lines"`
}

type OrderPlaced struct {
	Order order.Order `json:"order"`
}

type OrderStatusChanged struct {
	OrderID string       `json:"order_id"`
	From    order.Status `json:"from"`
	To      order.Status `json:"to"`
}

func newEvent(eventType, key string, data any, at time.Time) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Key:       key,
		Data:      raw,
		Timestamp: at,
	}, nil
}
