package service

import (
	"context"
	"time"
)

// Pusher is the push-delivery transport: best-effort, fire-and-forget
// dispatch to the live connections of the given users.
type Pusher interface {
	EmitToUsers(userIDs []string, event string, payload interface{})
}

// RateLimiter counts message sends per user inside a rolling window.
type RateLimiter interface {
	AllowMessage(ctx context.Context, userID string, limit int, window time.Duration) (bool, error)
}

// URLResolver turns a stored object key into a fetchable URL.
type URLResolver interface {
	URL(key string) string
}
