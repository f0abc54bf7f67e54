package game

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// idleKey is the sorted set of match IDs scored by last activity (unix seconds).
const idleKey = "match_idle"

func snapshotKey(id string) string {
	return "match:" + id + ":snapshot"
}

// saveSnapshot caches a match snapshot in Redis with the configured TTL.
func (gm *Manager) saveSnapshot(ctx context.Context, id string, snap Snapshot) error {
	if gm.rdb == nil {
		return nil // No Redis client, skip
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	ttl := time.Duration(gm.config.SnapshotTTLSeconds) * time.Second
	if err := gm.rdb.SetEx(ctx, snapshotKey(id), data, ttl).Err(); err != nil {
		log.Printf("[MATCH] Failed to cache snapshot for %s: %v", id, err)
		return err
	}
	return nil
}

// loadSnapshot reads a cached snapshot back from Redis.
func (gm *Manager) loadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	if gm.rdb == nil {
		return snap, ErrMatchNotFound
	}

	data, err := gm.rdb.Get(ctx, snapshotKey(id)).Bytes()
	if err == redis.Nil {
		return snap, ErrMatchNotFound
	}
	if err != nil {
		return snap, err
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// markActive records activity for the reaper.
func (gm *Manager) markActive(id string, at time.Time) {
	if gm.rdb == nil {
		return
	}
	err := gm.rdb.ZAdd(context.Background(), idleKey, redis.Z{Score: float64(at.Unix()), Member: id}).Err()
	if err != nil {
		log.Printf("[MATCH] Failed to record activity for %s: %v", id, err)
	}
}
