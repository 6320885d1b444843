package services

import (
	"errors"
	"log"
	"sync"

	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DatabaseStore persists orders and price tables as one document per row
// and re-emits owner snapshots to subscribers after every write.
type DatabaseStore struct {
	db *gorm.DB

	mu          sync.Mutex
	subscribers map[uint]map[int]func([]models.Order)
	nextToken   int
}

// NewDatabaseStore creates a store backed by the given database.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{
		db:          db,
		subscribers: make(map[uint]map[int]func([]models.Order)),
	}
}

// CreateOrder assigns an id if the caller did not, normalizes the record
// and persists it.
func (s *DatabaseStore) CreateOrder(order *models.Order) (string, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.Normalize()
	if err := s.db.Create(order).Error; err != nil {
		return "", &StorageError{Op: "create order", Err: err}
	}
	s.notify(order.UserID)
	return order.ID, nil
}

// GetOrder loads a single order scoped to its owner.
func (s *DatabaseStore) GetOrder(userID uint, id string) (models.Order, error) {
	var order models.Order
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, &NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return models.Order{}, &StorageError{Op: "get order", Err: err}
	}
	order.Normalize()
	return order, nil
}

// UpdateOrder overwrites the full document. The row must still exist.
func (s *DatabaseStore) UpdateOrder(order *models.Order) error {
	var existing models.Order
	err := s.db.Where("id = ? AND user_id = ?", order.ID, order.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "order", ID: order.ID}
	}
	if err != nil {
		return &StorageError{Op: "update order", Err: err}
	}
	// CreatedAt is immutable; carry it over from the stored row.
	order.CreatedAt = existing.CreatedAt
	if err := s.db.Save(order).Error; err != nil {
		return &StorageError{Op: "update order", Err: err}
	}
	s.notify(order.UserID)
	return nil
}

// DeleteOrder removes the order. An already-deleted id is a no-op.
func (s *DatabaseStore) DeleteOrder(userID uint, id string) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Order{})
	if result.Error != nil {
		return &StorageError{Op: "delete order", Err: result.Error}
	}
	if result.RowsAffected > 0 {
		s.notify(userID)
	}
	return nil
}

// ListOrders returns the user's orders in creation order.
func (s *DatabaseStore) ListOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&orders).Error
	if err != nil {
		return nil, &StorageError{Op: "list orders", Err: err}
	}
	for i := range orders {
		orders[i].Normalize()
	}
	return orders, nil
}

// SubscribeOrders registers a callback and delivers the current snapshot
// immediately. The callback fires again after every write to the user's
// orders until the returned function is called.
func (s *DatabaseStore) SubscribeOrders(userID uint, callback func([]models.Order)) (func(), error) {
	snapshot, err := s.ListOrders(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[int]func([]models.Order))
	}
	token := s.nextToken
	s.nextToken++
	s.subscribers[userID][token] = callback
	s.mu.Unlock()

	callback(snapshot)

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers[userID], token)
	}
	return unsubscribe, nil
}

// LoadPriceTable returns the stored table, or the default one when the
// user has never saved prices.
func (s *DatabaseStore) LoadPriceTable(userID uint) (models.PriceTable, error) {
	var table models.PriceTable
	err := s.db.Where("user_id = ?", userID).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPriceTable(userID), nil
	}
	if err != nil {
		return models.PriceTable{}, &StorageError{Op: "load price table", Err: err}
	}
	return table, nil
}

// SavePriceTable upserts the full table.
func (s *DatabaseStore) SavePriceTable(table *models.PriceTable) error {
	if err := s.db.Save(table).Error; err != nil {
		return &StorageError{Op: "save price table", Err: err}
	}
	return nil
}

// notify re-reads the owner's snapshot and pushes it to each subscriber.
// A failed re-read only loses one notification; the write has already
// been applied, so it is logged and the subscribers catch up on the next
// change.
func (s *DatabaseStore) notify(userID uint) {
	snapshot, err := s.ListOrders(userID)
	if err != nil {
		log.Printf("order store: failed to load snapshot for user %d: %v", userID, err)
		return
	}

	s.mu.Lock()
	callbacks := make([]func([]models.Order), 0, len(s.subscribers[userID]))
	for _, cb := range s.subscribers[userID] {
		callbacks = append(callbacks, cb)
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(snapshot)
	}
}
