package rdx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Connect initializes the shared Redis client. Redis backs refresh-token
// storage and the event channel; the app still serves reads if it is down,
// so a failed ping only logs.
func Connect(addr string) {
	Conn = redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := Conn.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis not reachable at %s: %v", addr, err)
	}
}
