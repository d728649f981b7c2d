package events

import (
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe(1)
	defer h.Unsubscribe(1, ch)

	h.Publish(Event{ID: "e1", GameID: 1, Type: "phase_started", At: time.Now()})

	select {
	case ev := <-ch:
		if ev.Type != "phase_started" {
			t.Fatalf("got type %q", ev.Type)
		}
	default:
		t.Fatalf("expected a buffered event")
	}
}

func TestPublishScopedToGame(t *testing.T) {
	h := NewHub()
	chA := h.Subscribe(1)
	chB := h.Subscribe(2)
	defer h.Unsubscribe(1, chA)
	defer h.Unsubscribe(2, chB)

	h.Publish(Event{ID: "e1", GameID: 1, Type: "player_joined"})

	if len(chA) != 1 {
		t.Fatalf("game 1 subscriber got %d events, want 1", len(chA))
	}
	if len(chB) != 0 {
		t.Fatalf("game 2 subscriber got %d events, want 0", len(chB))
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe(1)
	defer h.Unsubscribe(1, ch)

	for i := 0; i < cap(ch)+10; i++ {
		h.Publish(Event{ID: "e", GameID: 1, Type: "tick"})
	}
	if len(ch) != cap(ch) {
		t.Fatalf("buffer holds %d, want %d", len(ch), cap(ch))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe(1)
	h.Unsubscribe(1, ch)

	h.Publish(Event{ID: "e1", GameID: 1, Type: "tick"})
	if len(ch) != 0 {
		t.Fatalf("unsubscribed channel received an event")
	}
}
