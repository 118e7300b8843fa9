package repository

import (
    "context"
    "encoding/json"
    "log"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-ticket-office/internal/model"
)

// snapshot is the cached form of a full LoadAll result.  Both
// collections are cached together so a hit can never pair tickets from
// one write with a menu from another.
type snapshot struct {
    Tickets []model.Ticket    `json:"tickets"`
    Menu    []model.MenuEntry `json:"menu"`
}

// SnapshotCache stores one JSON-encoded snapshot in Redis under a single
// key with a bounded TTL.  Cache errors are never fatal: a failed get is
// a miss, a failed set is skipped, and a failed drop is logged.  The
// database stays the source of truth throughout.
type SnapshotCache struct {
    rdb *redis.Client
    ttl time.Duration
    key string
}

// NewSnapshotCache builds a snapshot cache over the given Redis client.
// Returns nil when the client is nil or the TTL is not positive, which
// callers treat as caching disabled.
func NewSnapshotCache(rdb *redis.Client, ttl time.Duration, prefix string) *SnapshotCache {
    if rdb == nil || ttl <= 0 {
        return nil
    }
    if prefix == "" {
        prefix = "office"
    }
    return &SnapshotCache{rdb: rdb, ttl: ttl, key: prefix + ":snapshot"}
}

func (c *SnapshotCache) get(ctx context.Context) (snapshot, bool) {
    bs, err := c.rdb.Get(ctx, c.key).Bytes()
    if err != nil {
        return snapshot{}, false
    }
    var snap snapshot
    if err := json.Unmarshal(bs, &snap); err != nil {
        return snapshot{}, false
    }
    return snap, true
}

func (c *SnapshotCache) set(ctx context.Context, snap snapshot) {
    bs, err := json.Marshal(snap)
    if err != nil {
        return
    }
    _ = c.rdb.SetEx(ctx, c.key, bs, c.ttl).Err()
}

func (c *SnapshotCache) drop(ctx context.Context) {
    if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
        // The TTL still bounds how long a stale snapshot can be served.
        log.Printf("snapshot cache: drop failed: %v", err)
    }
}
