package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached list payloads expire on their own in case an invalidation is
// missed (e.g. rows changed outside the API).
const listTTL = 5 * time.Minute

type Client struct {
	*redis.Client
}

func NewClient(addr, password string, db int) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// GetList returns the cached payload for a collection list, or nil on a miss.
func (c *Client) GetList(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// SetList stores a collection list payload.
func (c *Client) SetList(ctx context.Context, key string, payload []byte) error {
	return c.Set(ctx, key, payload, listTTL).Err()
}

// InvalidateList drops the cached payload after a mutation.
func (c *Client) InvalidateList(ctx context.Context, key string) error {
	return c.Del(ctx, key).Err()
}
