// Package live pushes entity-change events to subscribed clients so the UI
// can confirm mutations without re-fetching. Subscriptions are an explicit
// register/unregister registry keyed by recipe ID.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type Event struct {
	Type         string `json:"type"`
	RecipeID     string `json:"recipeId"`
	UserID       string `json:"userId,omitempty"`
	LikeCount    int    `json:"likeCount,omitempty"`
	CommentCount int    `json:"commentCount,omitempty"`
	CommentID    string `json:"commentId,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*subscriber]bool
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*subscriber]bool)}
}

func (h *Hub) register(recipeID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[recipeID] == nil {
		h.rooms[recipeID] = make(map[*subscriber]bool)
	}
	h.rooms[recipeID][s] = true
}

func (h *Hub) unregister(recipeID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[recipeID]; ok {
		if subs[s] {
			delete(subs, s)
			close(s.send)
		}
		if len(subs) == 0 {
			delete(h.rooms, recipeID)
		}
	}
}

// Broadcast fans an event out to every subscriber of the recipe. Slow
// subscribers are dropped rather than blocking the mutation path.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	var slow []*subscriber
	for s := range h.rooms[ev.RecipeID] {
		select {
		case s.send <- ev:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.unregister(ev.RecipeID, s)
		s.conn.Close()
	}
}

// SubscriberCount reports the registry size for a recipe.
func (h *Hub) SubscriberCount(recipeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[recipeID])
}

// WebSocketHandler upgrades the connection and streams events for one
// recipe until the peer disconnects.
func WebSocketHandler(h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		recipeID := ps.ByName("id")
		if recipeID == "" {
			http.Error(w, "missing recipe id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("live: upgrade failed: %v", err)
			return
		}

		s := &subscriber{conn: conn, send: make(chan Event, 16)}
		h.register(recipeID, s)

		go func() {
			defer func() {
				h.unregister(recipeID, s)
				conn.Close()
			}()
			for ev := range s.send {
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			}
		}()

		// Reader loop: we ignore client messages but need it to detect close.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.unregister(recipeID, s)
					conn.Close()
					return
				}
			}
		}()
	}
}
