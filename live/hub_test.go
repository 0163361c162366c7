package live

import (
	"testing"
	"time"
)

func newTestSubscriber() *subscriber {
	return &subscriber{send: make(chan Event, 16)}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	h := NewHub()
	s1 := newTestSubscriber()
	s2 := newTestSubscriber()
	other := newTestSubscriber()

	h.register("r1", s1)
	h.register("r1", s2)
	h.register("r2", other)

	if n := h.SubscriberCount("r1"); n != 2 {
		t.Fatalf("SubscriberCount(r1) = %d, want 2", n)
	}

	h.Broadcast(Event{Type: "like", RecipeID: "r1", LikeCount: 3})

	for _, s := range []*subscriber{s1, s2} {
		select {
		case ev := <-s.send:
			if ev.Type != "like" || ev.LikeCount != 3 {
				t.Errorf("event = %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}

	select {
	case ev := <-other.send:
		t.Errorf("subscriber of another recipe received %+v", ev)
	default:
	}
}

func TestHubUnregister(t *testing.T) {
	h := NewHub()
	s := newTestSubscriber()
	h.register("r1", s)
	h.unregister("r1", s)

	if n := h.SubscriberCount("r1"); n != 0 {
		t.Fatalf("SubscriberCount = %d after unregister, want 0", n)
	}
	if _, open := <-s.send; open {
		t.Error("send channel left open after unregister")
	}

	// A second unregister of the same subscriber must not panic.
	h.unregister("r1", s)
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	h := NewHub()
	h.Broadcast(Event{Type: "like", RecipeID: "nobody-listening"})
}
