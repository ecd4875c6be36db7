package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatsCache is the subset of the Redis cache the usecases rely on. A nil
// cache disables caching.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const statsCacheKeyPrefix = "stats:user:"

func UserStatsCacheKey(userID uuid.UUID) string {
	return statsCacheKeyPrefix + strings.ToLower(userID.String())
}

const (
	EventSwapUpdated    = "swap_updated"
	EventMessageCreated = "message_created"
)

// Event is pushed to every live subscriber of a swap.
type Event struct {
	Type   string
	SwapID uuid.UUID
	Data   any
}

type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}
