package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const channel = "morsel.events"

type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

var conn *redis.Client

// Init wires the emitter to Redis. Without it Emit degrades to logging.
func Init(client *redis.Client) {
	conn = client
}

// Emit publishes a domain event to the shared Redis channel. Event loss is
// tolerated; emission never fails a caller's primary mutation.
func Emit(eventName string, content Index) error {
	if conn == nil {
		log.Printf("mq: %s emitted %+v", eventName, content)
		return nil
	}
	payload, err := json.Marshal(map[string]any{"event": eventName, "data": content})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("mq: publish %s failed: %v", eventName, err)
	}
	return nil
}
