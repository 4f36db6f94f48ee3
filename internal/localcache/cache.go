package localcache

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"taruvae-orders/internal/models"
	"taruvae-orders/internal/util"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

// ordersKey is the fixed key the order array lives under. The name is
// shared with the storefront clients that seeded the original cache.
const ordersKey = "taruvae-orders"

// Cache is the device-local fallback copy of orders, kept in a Pebble
// store. It is written at order-placement time and by the event
// worker mirroring the remote feed. Reads never fail: missing or
// corrupt data degrades to an empty list.
type Cache struct {
	db     *pebble.DB
	logger *zap.Logger
}

// Open opens (or creates) the local cache under dir.
func Open(dir string) (*Cache, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Cache{db: db, logger: util.GetLogger()}, nil
}

// Close closes the underlying store
func (c *Cache) Close() error {
	return c.db.Close()
}

// ReadOrders returns the cached order list. Missing key or corrupt
// payload yields an empty slice, never an error.
func (c *Cache) ReadOrders() []models.Order {
	val, closer, err := c.db.Get([]byte(ordersKey))
	if err == pebble.ErrNotFound {
		return []models.Order{}
	}
	if err != nil {
		c.logger.Warn("Local cache read failed", zap.Error(err))
		return []models.Order{}
	}
	defer closer.Close()

	var orders []models.Order
	if err := json.Unmarshal(val, &orders); err != nil {
		util.LocalCacheCorruptTotal.Inc()
		c.logger.Warn("Local cache payload corrupt, treating as empty", zap.Error(err))
		return []models.Order{}
	}
	return orders
}

// WriteOrders replaces the cached order list
func (c *Cache) WriteOrders(orders []models.Order) error {
	payload, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}
	if err := c.db.Set([]byte(ordersKey), payload, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

// UpsertOrder inserts or replaces one order in the cached list,
// matching by order id.
func (c *Cache) UpsertOrder(order models.Order) error {
	orders := c.ReadOrders()
	replaced := false
	for i := range orders {
		if orders[i].OrderID == order.OrderID {
			orders[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		orders = append(orders, order)
	}
	return c.WriteOrders(orders)
}

// UpdateStatus applies a status transition to the cached copy of an
// order, if present. Returns false when the order is not cached.
func (c *Cache) UpdateStatus(orderID, status string, entry models.StatusEntry) (bool, error) {
	orders := c.ReadOrders()
	for i := range orders {
		if orders[i].OrderID != orderID {
			continue
		}
		orders[i].Status = status
		orders[i].StatusHistory = append(orders[i].StatusHistory, entry)
		if err := c.WriteOrders(orders); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
