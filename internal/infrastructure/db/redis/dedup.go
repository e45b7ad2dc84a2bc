package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker provides ingest idempotency checks backed by Redis. The
// station resends readings after connectivity drops; a reading is
// identified by its station and capture timestamp.
// Key format: reading:<station_id>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact reading has already been ingested.
func (d *DedupChecker) IsDuplicate(ctx context.Context, stationID string, ts int64) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(stationID, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this reading has been ingested (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, stationID string, ts int64) error {
	return d.client.Set(ctx, d.key(stationID, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(stationID string, ts int64) string {
	return fmt.Sprintf("reading:%s:%d", stationID, ts)
}
