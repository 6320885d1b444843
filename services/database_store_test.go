package services

import (
	"testing"

	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Order{}, &models.PriceTable{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestOrder(t *testing.T, store OrderStore, userID uint, teamName string) models.Order {
	t.Helper()

	order := models.NewDraftOrder(userID)
	order.TeamName = teamName
	id, err := store.CreateOrder(&order)
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	assert.NotEmpty(t, id)
	return order
}

func TestDatabaseStore_CreateAndGet(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	created := createTestOrder(t, store, 1, "Eagles")

	got, err := store.GetOrder(1, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Eagles", got.TeamName)
	assert.Equal(t, models.StatusOngoing, got.Status)
	assert.Equal(t, uint(1), got.UserID)
}

func TestDatabaseStore_GetOrder_CrossUser(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	created := createTestOrder(t, store, 1, "Eagles")

	// Another user cannot read it
	_, err := store.GetOrder(2, created.ID)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDatabaseStore_UpdateOrder(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	order := createTestOrder(t, store, 1, "Eagles")
	originalCreatedAt := order.CreatedAt

	order.TeamName = "Golden Eagles"
	order.Quantity = 12
	assert.NoError(t, store.UpdateOrder(&order))

	got, err := store.GetOrder(1, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Golden Eagles", got.TeamName)
	assert.Equal(t, 12, got.Quantity)
	assert.WithinDuration(t, originalCreatedAt, got.CreatedAt, 0)
}

func TestDatabaseStore_UpdateOrder_Vanished(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	order := models.NewDraftOrder(1)
	order.ID = "never-created"
	order.TeamName = "Ghosts"

	err := store.UpdateOrder(&order)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDatabaseStore_UpdateOrder_NoOpIdempotent(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	order := createTestOrder(t, store, 1, "Eagles")

	// Saving the unchanged document back leaves it externally identical
	before, err := store.GetOrder(1, order.ID)
	assert.NoError(t, err)
	assert.NoError(t, store.UpdateOrder(&before))
	after, err := store.GetOrder(1, order.ID)
	assert.NoError(t, err)

	assert.Equal(t, before.TeamName, after.TeamName)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Sizes, after.Sizes)
	assert.WithinDuration(t, before.CreatedAt, after.CreatedAt, 0)
}

func TestDatabaseStore_DeleteOrder(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	order := createTestOrder(t, store, 1, "Eagles")

	assert.NoError(t, store.DeleteOrder(1, order.ID))

	_, err := store.GetOrder(1, order.ID)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	// Deleting again is a silent no-op
	assert.NoError(t, store.DeleteOrder(1, order.ID))
}

func TestDatabaseStore_DeleteOrder_CrossUser(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	order := createTestOrder(t, store, 1, "Eagles")

	// Another user deleting the id is a no-op, not a breach
	assert.NoError(t, store.DeleteOrder(2, order.ID))

	_, err := store.GetOrder(1, order.ID)
	assert.NoError(t, err)
}

func TestDatabaseStore_ListOrders(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	createTestOrder(t, store, 1, "First")
	createTestOrder(t, store, 1, "Second")
	createTestOrder(t, store, 2, "Other User")

	orders, err := store.ListOrders(1)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)

	for _, o := range orders {
		assert.Equal(t, uint(1), o.UserID)
	}
}

func TestDatabaseStore_ListOrders_Empty(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	orders, err := store.ListOrders(99)
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestDatabaseStore_SubscribeOrders(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	createTestOrder(t, store, 1, "Eagles")

	var snapshots [][]models.Order
	unsubscribe, err := store.SubscribeOrders(1, func(orders []models.Order) {
		snapshots = append(snapshots, orders)
	})
	assert.NoError(t, err)

	// The current snapshot arrives immediately
	assert.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0], 1)

	// Every write pushes a fresh snapshot
	createTestOrder(t, store, 1, "Falcons")
	assert.Len(t, snapshots, 2)
	assert.Len(t, snapshots[1], 2)

	// Writes by other users do not notify this subscriber
	createTestOrder(t, store, 2, "Strangers")
	assert.Len(t, snapshots, 2)

	unsubscribe()
	createTestOrder(t, store, 1, "Hawks")
	assert.Len(t, snapshots, 2, "no snapshots after unsubscribe")
}

func TestDatabaseStore_PriceTable(t *testing.T) {
	store := NewDatabaseStore(setupStoreTestDB(t))

	// Never saved: defaults, no error
	table, err := store.LoadPriceTable(1)
	assert.NoError(t, err)
	assert.Equal(t, 250, table.Prices["T-Shirt Jersey"])

	table.SetPrice("T-Shirt Jersey", 275)
	assert.NoError(t, store.SavePriceTable(&table))

	reloaded, err := store.LoadPriceTable(1)
	assert.NoError(t, err)
	assert.Equal(t, 275, reloaded.Prices["T-Shirt Jersey"])

	// Other users still get the defaults
	other, err := store.LoadPriceTable(2)
	assert.NoError(t, err)
	assert.Equal(t, 250, other.Prices["T-Shirt Jersey"])
}
