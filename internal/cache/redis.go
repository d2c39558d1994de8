package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/vshuttle/config"
	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client          *redis.Client
	availabilityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, availabilityTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:          redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		availabilityTTL: availabilityTTL,
	}
}

// GetAvailability returns the cached snapshot for a route, or nil on a miss.
func (c *RedisCache) GetAvailability(ctx context.Context, route string) (*domain.Availability, error) {
	data, err := c.client.Get(ctx, availabilityKey(route)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var av domain.Availability
	if err := json.Unmarshal(data, &av); err != nil {
		return nil, err
	}
	return &av, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, av domain.Availability) error {
	payload, err := json.Marshal(av)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(av.Route), payload, c.availabilityTTL).Err()
}

// InvalidateAvailability drops a route's snapshot. The ledger calls this on
// every mutation so the cache is write-through, never lazily stale.
func (c *RedisCache) InvalidateAvailability(ctx context.Context, route string) error {
	return c.client.Del(ctx, availabilityKey(route)).Err()
}

// AcquireSeatHold guards the check-then-write window of a booking attempt
// against a second session of the same rider.
func (c *RedisCache) AcquireSeatHold(ctx context.Context, route, seat string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(route, seat), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, route, seat string) error {
	return c.client.Del(ctx, seatHoldKey(route, seat)).Err()
}

func availabilityKey(route string) string {
	return fmt.Sprintf("cache:availability:%s", route)
}

func seatHoldKey(route, seat string) string {
	return fmt.Sprintf("hold:route:%s:seat:%s", route, seat)
}
