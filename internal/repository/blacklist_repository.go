package repository

import (
    "context"
    "time"

    "github.com/redis/go-redis/v9"
)

// BlacklistRepo stores revoked access tokens in Redis until they
// would have expired anyway.  Logout writes the token's JTI here and
// the JWT middleware rejects any blacklisted token.  When Redis is
// unavailable the repo is constructed with a nil client and logout
// degrades to a no-op.
type BlacklistRepo struct {
    rdb *redis.Client
}

// NewBlacklistRepo returns a BlacklistRepo.  A nil client disables
// blacklisting.
func NewBlacklistRepo(rdb *redis.Client) *BlacklistRepo { return &BlacklistRepo{rdb: rdb} }

func blacklistKey(jti string) string { return "token:blacklist:" + jti }

// Revoke blacklists a token id for the remaining token lifetime.  A
// non-positive TTL means the token already expired and nothing needs
// to be stored.
func (r *BlacklistRepo) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
    if r.rdb == nil || ttl <= 0 {
        return nil
    }
    return r.rdb.Set(ctx, blacklistKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been blacklisted.  Redis
// errors fail open so an outage does not lock everyone out.
func (r *BlacklistRepo) IsRevoked(ctx context.Context, jti string) bool {
    if r.rdb == nil {
        return false
    }
    n, err := r.rdb.Exists(ctx, blacklistKey(jti)).Result()
    if err != nil {
        return false
    }
    return n > 0
}
