package mocks

import (
	"context"
	"sync"
)

// MockStorage is a mock implementation of storage.Storage for testing
type MockStorage struct {
	mu   sync.RWMutex
	data map[string][]byte

	// For tracking calls in tests
	GetCalls    []string
	SetCalls    []SetCall
	GetErr      error
	SetErr      error
	SetCallback func(ctx context.Context, key string, value []byte) error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value []byte
}

// NewMockStorage creates a new MockStorage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		data:     make(map[string][]byte),
		GetCalls: make([]string, 0),
		SetCalls: make([]SetCall, 0),
	}
}

// Get returns the stored value or GetErr
func (m *MockStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value in memory unless SetErr or SetCallback says otherwise
func (m *MockStorage) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Record the call
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: append([]byte(nil), value...)})

	// Use callback if provided
	if m.SetCallback != nil {
		return m.SetCallback(ctx, key, value)
	}

	// Return error if set
	if m.SetErr != nil {
		return m.SetErr
	}

	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Put sets a raw value directly for testing
func (m *MockStorage) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Value returns the raw stored value
func (m *MockStorage) Value(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// SetCallsFor returns the recorded Set calls for key
func (m *MockStorage) SetCallsFor(key string) []SetCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var calls []SetCall
	for _, c := range m.SetCalls {
		if c.Key == key {
			calls = append(calls, c)
		}
	}
	return calls
}

// Reset clears stored values and recorded calls
func (m *MockStorage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.GetCalls = make([]string, 0)
	m.SetCalls = make([]SetCall, 0)
	m.GetErr = nil
	m.SetErr = nil
	m.SetCallback = nil
}
