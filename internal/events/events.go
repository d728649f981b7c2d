// Package events fans out state-change notifications to subscribed
// clients. Delivery is attempted once after the game lock is released;
// a slow subscriber drops the event rather than blocking the server.
package events

import (
	"sync"
	"time"
)

// Event is one state-change notification for a game.
type Event struct {
	ID      string         `json:"id"`
	GameID  int64          `json:"game_id"`
	Type    string         `json:"type"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Publisher is the abstract sink mutating operations notify.
type Publisher interface {
	Publish(ev Event)
}

// Hub is an in-process Publisher with per-game subscriber channels.
type Hub struct {
	mu   sync.RWMutex
	subs map[int64]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[chan Event]struct{})}
}

// Subscribe returns a buffered channel receiving the game's events.
func (h *Hub) Subscribe(gameID int64) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[chan Event]struct{})
	}
	h.subs[gameID][ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(gameID int64, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[gameID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, gameID)
		}
	}
}

// Publish delivers to every subscriber with a full buffer dropped
// rather than waited on.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.GameID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
