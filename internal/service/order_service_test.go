package service

import (
	"strings"
	"testing"

	"taruvae-orders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrder(t *testing.T) {
	s := &OrderService{}

	req := &PlaceOrderRequest{
		Customer: models.Customer{FirstName: "Asha", LastName: "Rao", Email: "A@X.com", Phone: "9999999999"},
		ShippingAddress: models.ShippingAddress{
			Address: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001",
		},
		Items: []PlaceOrderItem{
			{ID: 1, Name: "Cold-pressed coconut oil", Price: 350, Quantity: 2},
			{ID: 2, Name: "A2 ghee", Price: 900, Quantity: 1},
		},
		PaymentMethod: "cod",
		Shipping:      50,
	}

	order := s.buildOrder(req)

	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))
	assert.Equal(t, 700.0, order.Items[0].Total)
	assert.Equal(t, 900.0, order.Items[1].Total)
	assert.Equal(t, 1600.0, order.Subtotal)
	assert.Equal(t, 1650.0, order.Total)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, "TRK"+strings.TrimPrefix(order.OrderID, "ORD-"), order.TrackingNumber)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusConfirmed, order.StatusHistory[0].Status)
	assert.Equal(t, order.OrderDate, order.StatusHistory[0].Date)

	require.NotNil(t, order.Owner)
	assert.Equal(t, models.OwnerByEmail, order.Owner.Kind)
	assert.Equal(t, "a@x.com", order.Owner.Value)
}

func TestBuildOrderOwnerByID(t *testing.T) {
	s := &OrderService{}

	req := &PlaceOrderRequest{
		Customer:      models.Customer{Email: "a@x.com"},
		Items:         []PlaceOrderItem{{ID: 1, Name: "Turmeric", Price: 120, Quantity: 1}},
		PaymentMethod: "card",
		UserID:        "user-1",
	}

	order := s.buildOrder(req)

	require.NotNil(t, order.Owner)
	assert.Equal(t, models.OwnerByID, order.Owner.Kind)
	assert.Equal(t, "user-1", order.Owner.Value)
	assert.Equal(t, "user-1", order.UserID)
	// Anything that is not COD is treated as an online payment.
	assert.Equal(t, models.PaymentMethodOnline, order.PaymentMethod)
}

func TestDefaultStatusMessage(t *testing.T) {
	assert.Equal(t, "Order confirmed and payment received", defaultStatusMessage(models.StatusConfirmed))
	assert.Equal(t, "Order delivered", defaultStatusMessage(models.StatusDelivered))
	assert.Equal(t, "Order cancelled", defaultStatusMessage(models.StatusCancelled))
	assert.Equal(t, "Status updated", defaultStatusMessage("weird"))
}

func TestPlaceOrder(t *testing.T) {
	// Requires Postgres, Redis and Kafka.
	t.Skip("Integration test - requires backing services")
}
