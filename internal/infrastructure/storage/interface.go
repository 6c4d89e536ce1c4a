package storage

import "context"

// Keys under which the store state manager persists its collections.
const (
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeyCart     = "cart"
)

// Storage is a durable key-value store holding one serialized collection per key.
type Storage interface {
	// Get returns the stored value. ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
}
