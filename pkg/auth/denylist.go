package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Denylist keeps ids of tokens revoked by logout until they expire on their own.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

const denylistPrefix = "hotel:revoked:"

type redisDenylist struct {
	client redis.UniversalClient
}

func NewRedisDenylist(client redis.UniversalClient) Denylist {
	return &redisDenylist{client: client}
}

func (d *redisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistPrefix+tokenID, 1, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (d *redisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, errors.Wrap(err, "redis exists")
	}
	return n > 0, nil
}

type nopDenylist struct{}

// NopDenylist is used when no redis is configured: logout only clears the cookie.
func NopDenylist() Denylist { return nopDenylist{} }

func (nopDenylist) Revoke(context.Context, string, time.Time) error { return nil }

func (nopDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
