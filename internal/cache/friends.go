package cache

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/visit-push/pkg/logger"
)

// FriendCache keeps resolved friend id lists in Redis so repeated fan-outs for
// an active author skip the edge-table scan. All failures are soft: a cache
// miss or a Redis error simply falls through to the primary store.
type FriendCache struct {
    rdb *redis.Client
    ttl time.Duration
}

func NewFriendCache(rdb *redis.Client, ttl time.Duration) *FriendCache {
    if ttl <= 0 {
        ttl = time.Minute
    }
    return &FriendCache{rdb: rdb, ttl: ttl}
}

func key(userID string) string { return fmt.Sprintf("friends:%s", userID) }

func (c *FriendCache) Get(ctx context.Context, userID string) ([]string, bool) {
    data, err := c.rdb.Get(ctx, key(userID)).Bytes()
    if err != nil {
        if err != redis.Nil {
            logger.Warn("friend cache get failed", zap.String("user", userID), zap.Error(err))
        }
        return nil, false
    }
    var ids []string
    if err := json.Unmarshal(data, &ids); err != nil {
        return nil, false
    }
    return ids, true
}

func (c *FriendCache) Set(ctx context.Context, userID string, ids []string) {
    payload, err := json.Marshal(ids)
    if err != nil {
        return
    }
    if err := c.rdb.Set(ctx, key(userID), payload, c.ttl).Err(); err != nil {
        logger.Warn("friend cache set failed", zap.String("user", userID), zap.Error(err))
    }
}
