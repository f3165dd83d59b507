package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist stores revoked token ids until their natural expiry.
// A nil redis client disables revocation entirely.
type TokenDenylist struct {
	client *redis.Client
}

func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if d.client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKey(jti), "revoked", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) bool {
	if d.client == nil || jti == "" {
		return false
	}
	exists, err := d.client.Exists(ctx, denylistKey(jti)).Result()
	return err == nil && exists > 0
}

func denylistKey(jti string) string {
	return "token_denylist:" + jti
}
