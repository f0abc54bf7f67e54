package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/cuetable/internal/game"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber subscribes to the match events channel and relays
// close notices to the rooms held by this instance.
func (h *Hub) StartEventSubscriber(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; match event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, game.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.EventsChannel)
		for msg := range ch {
			var notice game.ClosedNotice
			if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			log.Printf("[WS] event received: type=%s match_id=%s", notice.Type, notice.MatchID)

			switch notice.Type {
			case "match_closed":
				if h.RoomSize(notice.MatchID) == 0 {
					log.Printf("[WS] no room for match %s; notice not broadcast", notice.MatchID)
					continue
				}
				h.CloseMatch(notice)
			default:
				log.Printf("[WS] ignoring event type %q", notice.Type)
			}
		}
	}()
}
