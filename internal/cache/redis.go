package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/config"
)

type Client struct {
	rdb *redis.Client
}

// NewRedis initializes a Redis client and verifies connectivity.
func NewRedis(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{rdb: rdb}, nil
}

// SetLastSeen persists a user's last-seen time. Unlike the in-process
// presence registry, this survives restarts and backs profile annotations
// for users who are offline.
func (c *Client) SetLastSeen(ctx context.Context, userID string, t time.Time) error {
	return c.rdb.Set(ctx, "last_seen:"+userID, t.Unix(), 0).Err()
}

func (c *Client) GetLastSeen(ctx context.Context, userID string) (time.Time, error) {
	val, err := c.rdb.Get(ctx, "last_seen:"+userID).Result()
	if err != nil {
		return time.Time{}, err
	}
	ts, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0).UTC(), nil
}

const luaRateLimit = `
local current = redis.call("incr", KEYS[1])
if current == 1 then
  redis.call("expire", KEYS[1], ARGV[1])
end
return current
`

// AllowMessage counts a send against the user's window and reports whether
// it is still within the limit.
func (c *Client) AllowMessage(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	key := "rate:" + userID
	count, err := c.rdb.Eval(ctx, luaRateLimit, []string{key}, int(window.Seconds())).Int()
	if err != nil {
		return false, err
	}
	return count <= limit, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
