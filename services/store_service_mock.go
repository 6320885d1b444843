package services

import (
	"fmt"
	"sync"

	"github.com/gee-graphics/gee-graphics-api/models"
)

// MockOrderStore is an in-memory OrderStore for testing
type MockOrderStore struct {
	mu      sync.RWMutex
	orders    map[string]models.Order // keyed by order id
	prices    map[uint]models.PriceTable
	nextID    int
	FailOp    string // when set, the named op returns ForcedErr once
	ForcedErr error
}

// NewMockOrderStore creates a new mock order store
func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{
		orders: make(map[string]models.Order),
		prices: make(map[uint]models.PriceTable),
	}
}

// SetAsMockForTesting sets this mock as the global order store instance for testing
func (m *MockOrderStore) SetAsMockForTesting() {
	SetOrderStore(m)
}

func (m *MockOrderStore) failed(op string) error {
	if m.FailOp == op {
		m.FailOp = ""
		if m.ForcedErr != nil {
			return m.ForcedErr
		}
		return &StorageError{Op: op, Err: fmt.Errorf("forced failure")}
	}
	return nil
}

// CreateOrder stores the order under a generated id
func (m *MockOrderStore) CreateOrder(order *models.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failed("create"); err != nil {
		return "", err
	}
	if order.ID == "" {
		m.nextID++
		order.ID = fmt.Sprintf("mock-order-%d", m.nextID)
	}
	order.Normalize()
	m.orders[order.ID] = *order
	return order.ID, nil
}

// GetOrder returns a stored order scoped to its owner
func (m *MockOrderStore) GetOrder(userID uint, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok || order.UserID != userID {
		return models.Order{}, &NotFoundError{Resource: "order", ID: id}
	}
	return order, nil
}

// UpdateOrder overwrites a stored order
func (m *MockOrderStore) UpdateOrder(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failed("update"); err != nil {
		return err
	}
	existing, ok := m.orders[order.ID]
	if !ok || existing.UserID != order.UserID {
		return &NotFoundError{Resource: "order", ID: order.ID}
	}
	order.CreatedAt = existing.CreatedAt
	m.orders[order.ID] = *order
	return nil
}

// DeleteOrder removes a stored order, silently ignoring unknown ids
func (m *MockOrderStore) DeleteOrder(userID uint, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.orders[id]; ok && order.UserID == userID {
		delete(m.orders, id)
	}
	return nil
}

// ListOrders returns the user's orders in creation order
func (m *MockOrderStore) ListOrders(userID uint) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	// Stable creation order for assertions
	for i := 0; i < len(orders); i++ {
		for j := i + 1; j < len(orders); j++ {
			if orders[j].CreatedAt.Before(orders[i].CreatedAt) {
				orders[i], orders[j] = orders[j], orders[i]
			}
		}
	}
	return orders, nil
}

// SubscribeOrders delivers the snapshot once (pull model, like the local store)
func (m *MockOrderStore) SubscribeOrders(userID uint, callback func([]models.Order)) (func(), error) {
	snapshot, err := m.ListOrders(userID)
	if err != nil {
		return nil, err
	}
	callback(snapshot)
	return func() {}, nil
}

// LoadPriceTable returns the stored table or the default
func (m *MockOrderStore) LoadPriceTable(userID uint) (models.PriceTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if table, ok := m.prices[userID]; ok {
		return table, nil
	}
	return models.DefaultPriceTable(userID), nil
}

// SavePriceTable overwrites the stored table
func (m *MockOrderStore) SavePriceTable(table *models.PriceTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failed("save_prices"); err != nil {
		return err
	}
	m.prices[table.UserID] = *table
	return nil
}

// OrderCount returns the number of stored orders (for testing assertions)
func (m *MockOrderStore) OrderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// Clear removes all stored data
func (m *MockOrderStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = make(map[string]models.Order)
	m.prices = make(map[uint]models.PriceTable)
}
