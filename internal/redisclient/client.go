package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

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

func referenceKey(reference string) string {
	return fmt.Sprintf("order:reference:%s", reference)
}

// Lookup returns the order id recorded for a processed reference.
// A missing key is a miss, not an error.
func (c *Client) Lookup(ctx context.Context, reference string) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, referenceKey(reference)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	orderID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt reference entry %q: %w", val, err)
	}
	return orderID, true, nil
}

// Remember maps a processed reference to its order id with a TTL. SETNX
// keeps the first recorded id when two submissions race.
func (c *Client) Remember(ctx context.Context, reference string, orderID int64, ttl time.Duration) error {
	return c.rdb.SetNX(ctx, referenceKey(reference), orderID, ttl).Err()
}
