package localcache

import (
	"testing"

	"taruvae-orders/internal/models"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestReadOrdersEmptyOnMissingKey(t *testing.T) {
	c := openTestCache(t)

	orders := c.ReadOrders()

	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestWriteReadRoundtrip(t *testing.T) {
	c := openTestCache(t)

	in := []models.Order{
		{
			OrderID:   "ORD-1",
			Customer:  &models.Customer{FirstName: "Asha", Email: "a@x.com"},
			OrderDate: "2024-05-01T10:00:00Z",
			Items:     []models.OrderItem{{ID: 7, Name: "Ghee 500ml", Price: 450, Quantity: 2, Total: 900}},
			Total:     900,
		},
	}
	require.NoError(t, c.WriteOrders(in))

	out := c.ReadOrders()
	require.Len(t, out, 1)
	assert.Equal(t, "ORD-1", out[0].OrderID)
	assert.Equal(t, "a@x.com", out[0].Customer.Email)
	assert.Equal(t, 900.0, out[0].Items[0].Total)
}

func TestReadOrdersEmptyOnCorruptPayload(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.db.Set([]byte(ordersKey), []byte("{definitely not json"), pebble.Sync))

	orders := c.ReadOrders()
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestUpsertOrder(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.UpsertOrder(models.Order{OrderID: "ORD-1", Status: models.StatusConfirmed}))
	require.NoError(t, c.UpsertOrder(models.Order{OrderID: "ORD-2", Status: models.StatusConfirmed}))
	require.NoError(t, c.UpsertOrder(models.Order{OrderID: "ORD-1", Status: models.StatusShipped}))

	orders := c.ReadOrders()
	require.Len(t, orders, 2)
	assert.Equal(t, models.StatusShipped, orders[0].Status)
	assert.Equal(t, "ORD-2", orders[1].OrderID)
}

func TestUpdateStatus(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.UpsertOrder(models.Order{OrderID: "ORD-1", Status: models.StatusConfirmed}))

	entry := models.StatusEntry{Status: models.StatusShipped, Date: "2024-05-02T10:00:00Z", Message: "On its way"}
	found, err := c.UpdateStatus("ORD-1", models.StatusShipped, entry)
	require.NoError(t, err)
	assert.True(t, found)

	orders := c.ReadOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusShipped, orders[0].Status)
	require.Len(t, orders[0].StatusHistory, 1)
	assert.Equal(t, "On its way", orders[0].StatusHistory[0].Message)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	c := openTestCache(t)

	found, err := c.UpdateStatus("ORD-404", models.StatusShipped, models.StatusEntry{})
	require.NoError(t, err)
	assert.False(t, found)
}
