package services

import (
	"fmt"

	"github.com/gee-graphics/gee-graphics-api/models"
)

// OrderStore is the persistence contract the core depends on, regardless
// of backend. One adapter is backed by the document database (push
// notifications after every write), the other by whole-array JSON files
// on disk (pull only). Both scope every operation to the owning user;
// cross-user reads and writes are forbidden.
type OrderStore interface {
	// CreateOrder persists a new order and returns its assigned id.
	CreateOrder(order *models.Order) (string, error)

	// GetOrder loads a single order owned by userID.
	GetOrder(userID uint, id string) (models.Order, error)

	// UpdateOrder overwrites the full document by id. Returns
	// NotFoundError when the id has vanished.
	UpdateOrder(order *models.Order) error

	// DeleteOrder removes an order. Deleting an id that is already gone
	// is a silent no-op, tolerating races with concurrent deletion.
	DeleteOrder(userID uint, id string) error

	// ListOrders returns the user's full order snapshot in creation order.
	ListOrders(userID uint) ([]models.Order, error)

	// SubscribeOrders delivers the current snapshot immediately and, on
	// push-capable backends, again after every subsequent change. The
	// returned function unsubscribes.
	SubscribeOrders(userID uint, callback func([]models.Order)) (func(), error)

	// LoadPriceTable returns the user's price table, or the default table
	// when none has been saved yet. Never fails for "not found".
	LoadPriceTable(userID uint) (models.PriceTable, error)

	// SavePriceTable persists the full table, overwriting any prior value.
	SavePriceTable(table *models.PriceTable) error
}

// NotFoundError signals an update or read referencing a vanished id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StorageError wraps a failed backend call. Always recoverable by
// retrying the same call; the caller's in-memory state is untouched.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

var orderStoreInstance OrderStore

// InitOrderStore sets the active order store adapter.
func InitOrderStore(store OrderStore) OrderStore {
	orderStoreInstance = store
	return orderStoreInstance
}

// GetOrderStore returns the initialized order store instance
func GetOrderStore() OrderStore {
	return orderStoreInstance
}

// SetOrderStore sets the order store instance (primarily for testing)
func SetOrderStore(store OrderStore) {
	orderStoreInstance = store
}
