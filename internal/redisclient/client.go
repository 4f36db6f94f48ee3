package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taruvae-orders/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches reconciled order lists per owner and holds placement
// idempotency keys.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func listKey(owner string) string {
	return fmt.Sprintf("orders:list:%s", owner)
}

// GetOrderList returns the cached reconciled list for an owner key,
// or ok=false on miss or decode failure.
func (c *Client) GetOrderList(ctx context.Context, owner string) ([]models.Order, bool) {
	val, err := c.rdb.Get(ctx, listKey(owner)).Bytes()
	if err != nil {
		return nil, false
	}
	var orders []models.Order
	if err := json.Unmarshal(val, &orders); err != nil {
		return nil, false
	}
	return orders, true
}

// SetOrderList caches a reconciled list for an owner key with a TTL
func (c *Client) SetOrderList(ctx context.Context, owner string, orders []models.Order, ttl time.Duration) error {
	payload, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to marshal order list: %w", err)
	}
	return c.rdb.Set(ctx, listKey(owner), payload, ttl).Err()
}

// InvalidateOrderList drops the cached list for an owner key
func (c *Client) InvalidateOrderList(ctx context.Context, owner string) error {
	return c.rdb.Del(ctx, listKey(owner)).Err()
}

// SetIdempotencyKey records the order id produced for a placement
// idempotency key, with TTL.
func (c *Client) SetIdempotencyKey(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), orderID, ttl).Err()
}

// GetIdempotencyKey returns the order id previously recorded for an
// idempotency key, or ok=false when unseen.
func (c *Client) GetIdempotencyKey(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}
