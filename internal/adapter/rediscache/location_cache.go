package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LocationCache keeps each tech's latest position in Redis so the dispatch
// roster does not hit Postgres once per tech on every poll. Entries expire on
// their own; Postgres remains the source of truth.
type LocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, ttl time.Duration) *LocationCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &LocationCache{client: c, ttl: ttl}
}

func key(userID uuid.UUID) string {
	return "tech:lastloc:" + userID.String()
}

// Set stores the latest known location for a tech.
func (c *LocationCache) Set(ctx context.Context, userID uuid.UUID, loc models.LastLocation) error {
	body, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("marshal last location: %w", err)
	}
	return c.client.Set(ctx, key(userID), body, c.ttl).Err()
}

// Get returns the cached location, or (nil, nil) on a cache miss.
func (c *LocationCache) Get(ctx context.Context, userID uuid.UUID) (*models.LastLocation, error) {
	body, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var loc models.LastLocation
	if err := json.Unmarshal(body, &loc); err != nil {
		return nil, fmt.Errorf("unmarshal last location: %w", err)
	}
	return &loc, nil
}

// Ping verifies connectivity at startup.
func (c *LocationCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *LocationCache) Close() error {
	return c.client.Close()
}
