package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the Redis channel match lifecycle notices are published on.
const EventsChannel = "match_events"

// Reasons carried by a ClosedNotice.
const (
	CloseReasonEnded = "ended"
	CloseReasonIdle  = "idle"
)

// ClosedNotice announces that a match left the manager.
type ClosedNotice struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
}

// ClosedListener is told about matches that left the manager.
type ClosedListener func(ClosedNotice)

// OnClosed registers a listener for removed matches. With Redis configured the
// notice travels through EventsChannel instead and listeners are not called.
func (gm *Manager) OnClosed(fn ClosedListener) {
	gm.mu.Lock()
	gm.closed = append(gm.closed, fn)
	gm.mu.Unlock()
}

// StartIdleReaper starts a background worker that drops matches idle longer
// than MatchIdleMinutes, using the Redis activity index when available.
func (gm *Manager) StartIdleReaper(ctx context.Context) {
	poll := gm.config.ReaperPollSeconds
	if poll <= 0 || gm.config.MatchIdleMinutes <= 0 {
		log.Println("[REAPER] Idle reaper disabled by config")
		return
	}

	log.Println("[REAPER] Idle reaper started")
	go func() {
		ticker := time.NewTicker(time.Duration(poll) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] Idle reaper stopping")
				return
			case <-ticker.C:
				gm.reapIdle(ctx, time.Now())
			}
		}
	}()
}

// reapIdle removes every match whose last activity is older than the idle
// window measured from now, and returns their IDs.
func (gm *Manager) reapIdle(ctx context.Context, now time.Time) []string {
	cutoff := now.Add(-time.Duration(gm.config.MatchIdleMinutes) * time.Minute)

	var idle []string
	if gm.rdb != nil {
		members, err := gm.rdb.ZRangeByScore(ctx, idleKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", cutoff.Unix())}).Result()
		if err != nil {
			log.Printf("[REAPER] Failed to fetch idle matches: %v", err)
			return nil
		}
		for _, id := range members {
			// Attempt to remove (race-safe)
			if removed, _ := gm.rdb.ZRem(ctx, idleKey, id).Result(); removed > 0 {
				idle = append(idle, id)
			}
		}
	} else {
		gm.mu.RLock()
		for id, s := range gm.sessions {
			s.mu.Lock()
			last := s.LastActivity
			s.mu.Unlock()
			if last.Before(cutoff) {
				idle = append(idle, id)
			}
		}
		gm.mu.RUnlock()
	}

	var reaped []string
	for _, id := range idle {
		if err := gm.remove(ctx, id, CloseReasonIdle); err != nil {
			// another instance owns it, or it is already gone
			continue
		}
		log.Printf("[REAPER] Match %s idle since before %s; closed", id, cutoff.Format(time.RFC3339))
		reaped = append(reaped, id)
	}
	return reaped
}

func (gm *Manager) announceClosed(ctx context.Context, notice ClosedNotice) {
	if gm.rdb != nil {
		b, _ := json.Marshal(notice)
		if n, err := gm.rdb.Publish(ctx, EventsChannel, b).Result(); err != nil {
			log.Printf("[MATCH] publish failed: match=%s err=%v", notice.MatchID, err)
		} else {
			log.Printf("[MATCH] published %s: match=%s subscribers=%d", notice.Type, notice.MatchID, n)
		}
		return
	}

	gm.mu.RLock()
	listeners := append([]ClosedListener(nil), gm.closed...)
	gm.mu.RUnlock()
	for _, fn := range listeners {
		fn(notice)
	}
}
