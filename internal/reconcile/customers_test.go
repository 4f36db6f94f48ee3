package reconcile

import (
	"testing"

	"taruvae-orders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerOrder(email, first, last, date string, total float64) models.Order {
	return models.Order{
		OrderID:   "ORD-" + date,
		Customer:  &models.Customer{FirstName: first, LastName: last, Email: email},
		OrderDate: date,
		Total:     total,
	}
}

func TestAggregateCustomersGroupsByNormalizedEmail(t *testing.T) {
	orders := []models.Order{
		customerOrder("a@x.com", "Asha", "Rao", "2024-01-01T10:00:00Z", 500),
		customerOrder(" A@X.COM ", "Asha", "Rao", "2024-03-01T10:00:00Z", 300),
		customerOrder("b@y.com", "Ben", "Iyer", "2024-02-01T10:00:00Z", 200),
	}

	customers := AggregateCustomers(orders)

	require.Len(t, customers, 2)
	// Sorted by last order date descending.
	assert.Equal(t, "a@x.com", customers[0].Email)
	assert.Equal(t, 2, customers[0].TotalOrders)
	assert.Equal(t, 800.0, customers[0].TotalSpent)
	assert.Equal(t, "2024-03-01T10:00:00Z", customers[0].LastOrderDate)
	assert.Equal(t, "b@y.com", customers[1].Email)
}

func TestAggregateCustomersNameFollowsMostRecentOrder(t *testing.T) {
	orders := []models.Order{
		customerOrder("a@x.com", "Asha", "Rao", "2024-01-01T10:00:00Z", 100),
		customerOrder("a@x.com", "Asha", "Sharma", "2024-05-01T10:00:00Z", 100),
	}

	customers := AggregateCustomers(orders)

	require.Len(t, customers, 1)
	assert.Equal(t, "Asha Sharma", customers[0].Name)
}

func TestAggregateCustomersGuestFallback(t *testing.T) {
	orders := []models.Order{
		customerOrder("guest@x.com", "  ", "", "2024-01-01T10:00:00Z", 100),
	}

	customers := AggregateCustomers(orders)

	require.Len(t, customers, 1)
	assert.Equal(t, "Guest Customer", customers[0].Name)
}

func TestAggregateCustomersSkipsOrdersWithoutEmail(t *testing.T) {
	orders := []models.Order{
		{OrderID: "ORD-1", OrderDate: "2024-01-01T10:00:00Z", Total: 100},
		customerOrder("", "Asha", "Rao", "2024-01-02T10:00:00Z", 100),
		customerOrder("a@x.com", "Asha", "Rao", "2024-01-03T10:00:00Z", 100),
	}

	customers := AggregateCustomers(orders)

	require.Len(t, customers, 1)
	assert.Equal(t, "a@x.com", customers[0].Email)
}
