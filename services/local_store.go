package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/google/uuid"
)

// LocalStore keeps each user's orders and prices as whole-document JSON
// files keyed "orders_<userID>" / "prices_<userID>", mirroring the
// key-value layout of the dashboard's offline mode. It has no change
// notifications: subscribers get the snapshot once and re-read after
// their own writes.
type LocalStore struct {
	dir string
	mu  sync.Mutex
}

// NewLocalStore creates the store, making the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) ordersPath(userID uint) string {
	return filepath.Join(s.dir, fmt.Sprintf("orders_%d.json", userID))
}

func (s *LocalStore) pricesPath(userID uint) string {
	return filepath.Join(s.dir, fmt.Sprintf("prices_%d.json", userID))
}

// readOrders loads and normalizes the user's order array. A missing file
// is an empty set. Caller must hold the lock.
func (s *LocalStore) readOrders(userID uint) ([]models.Order, error) {
	data, err := os.ReadFile(s.ordersPath(userID))
	if os.IsNotExist(err) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read orders", Err: err}
	}
	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, &StorageError{Op: "decode orders", Err: err}
	}
	for i := range orders {
		orders[i].Normalize()
	}
	return orders, nil
}

// writeOrders rewrites the whole array. Caller must hold the lock.
func (s *LocalStore) writeOrders(userID uint, orders []models.Order) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode orders", Err: err}
	}
	if err := os.WriteFile(s.ordersPath(userID), data, 0644); err != nil {
		return &StorageError{Op: "write orders", Err: err}
	}
	return nil
}

// CreateOrder appends the order to the owner's array.
func (s *LocalStore) CreateOrder(order *models.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readOrders(order.UserID)
	if err != nil {
		return "", err
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.Normalize()
	orders = append(orders, *order)
	if err := s.writeOrders(order.UserID, orders); err != nil {
		return "", err
	}
	return order.ID, nil
}

// GetOrder finds a single order by id.
func (s *LocalStore) GetOrder(userID uint, id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readOrders(userID)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, &NotFoundError{Resource: "order", ID: id}
}

// UpdateOrder replaces the matching array element wholesale.
func (s *LocalStore) UpdateOrder(order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readOrders(order.UserID)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			order.CreatedAt = orders[i].CreatedAt // immutable
			orders[i] = *order
			return s.writeOrders(order.UserID, orders)
		}
	}
	return &NotFoundError{Resource: "order", ID: order.ID}
}

// DeleteOrder filters the order out. Unknown ids are a silent no-op.
func (s *LocalStore) DeleteOrder(userID uint, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readOrders(userID)
	if err != nil {
		return err
	}
	kept := orders[:0]
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(orders) {
		return nil
	}
	return s.writeOrders(userID, kept)
}

// ListOrders returns the stored array in its persisted (creation) order.
func (s *LocalStore) ListOrders(userID uint) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOrders(userID)
}

// SubscribeOrders delivers the current snapshot once. The local backend
// cannot push changes, so the unsubscribe handle is a no-op and callers
// re-read after their own writes.
func (s *LocalStore) SubscribeOrders(userID uint, callback func([]models.Order)) (func(), error) {
	snapshot, err := s.ListOrders(userID)
	if err != nil {
		return nil, err
	}
	callback(snapshot)
	return func() {}, nil
}

// LoadPriceTable reads the user's table, or the default when none exists.
func (s *LocalStore) LoadPriceTable(userID uint) (models.PriceTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pricesPath(userID))
	if os.IsNotExist(err) {
		return models.DefaultPriceTable(userID), nil
	}
	if err != nil {
		return models.PriceTable{}, &StorageError{Op: "read price table", Err: err}
	}
	var table models.PriceTable
	if err := json.Unmarshal(data, &table); err != nil {
		return models.PriceTable{}, &StorageError{Op: "decode price table", Err: err}
	}
	table.UserID = userID
	return table, nil
}

// SavePriceTable rewrites the user's table file.
func (s *LocalStore) SavePriceTable(table *models.PriceTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode price table", Err: err}
	}
	if err := os.WriteFile(s.pricesPath(table.UserID), data, 0644); err != nil {
		return &StorageError{Op: "write price table", Err: err}
	}
	return nil
}
