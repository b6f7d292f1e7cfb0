package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface. Values are stored as JSON so
// every backend decodes into the caller's type the same way.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// GetTyped reads key into a fresh T. ok is false on a miss.
func GetTyped[T any](ctx context.Context, c Service, key string) (T, bool, error) {
	var out T
	err := c.Get(ctx, key, &out)
	switch {
	case err == nil:
		return out, true, nil
	case errors.Is(err, ErrCacheMiss):
		return out, false, nil
	default:
		return out, false, err
	}
}

// GenerateKey creates a cache key from a prefix and parts.
func GenerateKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return fmt.Sprintf("%s:%s", prefix, strings.Join(parts, ":"))
}
