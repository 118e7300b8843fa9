package config

import (
    "os"
    "strings"
    "time"
)

// SnapshotConfig defines settings for the Redis-backed snapshot cache in
// front of the ticket and menu tables.  Reads may be served from the
// cache for at most TTL; every write drops the cached snapshot before it
// reports success, so a single process never reads its own writes stale.
// When Enabled is false or no Redis client is available the repository
// reads straight from the database.
type SnapshotConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

// LoadSnapshotConfig reads environment variables to build a
// SnapshotConfig.  Defaults are used when variables are not set.
func LoadSnapshotConfig() SnapshotConfig {
    return SnapshotConfig{
        Enabled: getenv("SNAPSHOT_CACHE_ENABLED", "true") == "true",
        TTL:     parseDur(getenv("SNAPSHOT_CACHE_TTL", "60s")),
        Prefix:  getenv("SNAPSHOT_CACHE_PREFIX", "office"),
    }
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(strings.TrimSpace(s))
    if err != nil {
        return time.Minute
    }
    return d
}
