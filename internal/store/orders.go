package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taruvae-orders/internal/models"
	"taruvae-orders/internal/reconcile"
)

// GetAllOrders retrieves every order document. The remote store
// exposes a full scan only; filtering and pagination happen in the
// reconciler.
func (s *Store) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var payloads [][]byte
	err := s.db.SelectContext(ctx, &payloads,
		"SELECT payload FROM orders ORDER BY order_date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	orders := make([]models.Order, 0, len(payloads))
	for _, p := range payloads {
		var o models.Order
		if err := json.Unmarshal(p, &o); err != nil {
			return nil, fmt.Errorf("failed to decode order payload: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// GetOrder retrieves one order by id
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM orders WHERE order_id = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return nil, err
	}

	var o models.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, fmt.Errorf("failed to decode order payload: %w", err)
	}
	return &o, nil
}

// InsertOrder persists a newly placed order. Order ids are immutable;
// a duplicate id is a caller bug and surfaces as a unique violation.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	orderDate := reconcile.ParseOrderDate(order.OrderDate)
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO orders (order_id, payload, order_date) VALUES ($1, $2, $3)",
		order.OrderID, payload, orderDate)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// UpdateOrderStatus applies a status transition to an order document
// inside a transaction (FOR UPDATE lock) and appends the history
// entry. Returns the updated order.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string, entry models.StatusEntry) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var payload []byte
	err = tx.GetContext(ctx, &payload,
		"SELECT payload FROM orders WHERE order_id = $1 FOR UPDATE", orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	var order models.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order payload: %w", err)
	}

	order.Status = status
	order.StatusHistory = append(order.StatusHistory, entry)

	updated, err := json.Marshal(&order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET payload = $1 WHERE order_id = $2", updated, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &order, nil
}
