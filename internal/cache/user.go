package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userdir/userdir/internal/model"
)

// Cache keys and TTLs.
const (
	usersListKey = "users:all"
	// usersGenKey is bumped on every invalidation. A listing is only written
	// back if the generation it was read under is still current.
	usersGenKey = "users:gen"

	// DefaultUsersTTL is used when no TTL is configured.
	DefaultUsersTTL = 30 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
	// ErrStaleGeneration is returned by SetUsers when the listing was
	// invalidated after the caller read the generation.
	ErrStaleGeneration = errors.New("users listing invalidated since read")
)

// GetUsers returns the cached user listing.
// Returns ErrCacheMiss if nothing is cached.
func (c *Cache) GetUsers(ctx context.Context) ([]model.User, error) {
	raw, err := c.client.Get(ctx, usersListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	users := make([]model.User, 0)
	if err := json.Unmarshal(raw, &users); err != nil {
		// Corrupt entry; drop it so the next read repopulates.
		c.client.Del(ctx, usersListKey)
		return nil, ErrCacheMiss
	}

	return users, nil
}

// UsersGeneration returns the current invalidation generation.
// Callers read it before loading the listing from the database and pass it
// to SetUsers.
func (c *Cache) UsersGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, usersGenKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get failed: %w", err)
	}
	return gen, nil
}

// SetUsers stores the user listing if no invalidation happened since gen
// was read. Returns ErrStaleGeneration otherwise.
func (c *Cache) SetUsers(ctx context.Context, gen int64, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}

	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, usersGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis get failed: %w", err)
		}
		if cur != gen {
			return ErrStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, usersListKey, raw, c.ttl)
			return nil
		})
		return err
	}, usersGenKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return ErrStaleGeneration
	default:
		return fmt.Errorf("redis set failed: %w", err)
	}
}

// InvalidateUsers removes the cached user listing and bumps the generation
// so in-flight write-backs are discarded.
func (c *Cache) InvalidateUsers(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, usersGenKey)
		pipe.Del(ctx, usersListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}
