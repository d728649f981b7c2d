// Package gamelock serializes mutating operations per game. One lease
// per game id; distinct games never contend. Leases expire after a
// bounded duration so a crashed holder cannot wedge a game, and carry a
// fencing token so a late release of an expired lease is a no-op.
package gamelock

import (
	"sync"
	"time"
)

// Lease is proof of holding a game's lock.
type Lease struct {
	GameID    int64
	Token     uint64
	ExpiresAt time.Time
}

// Keyed hands out at most one live lease per game id. Inject it as a
// dependency; a distributed implementation can replace it in a
// multi-process deployment.
type Keyed struct {
	mu     sync.Mutex
	leases map[int64]Lease
	next   uint64
	ttl    time.Duration
	now    func() time.Time
}

const DefaultLease = 15 * time.Second

func New(ttl time.Duration) *Keyed {
	if ttl <= 0 {
		ttl = DefaultLease
	}
	return &Keyed{
		leases: make(map[int64]Lease),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TryAcquire is non-blocking: it returns false when another live lease
// holds the game. An expired lease is reclaimed on the spot.
func (k *Keyed) TryAcquire(gameID int64) (Lease, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if held, ok := k.leases[gameID]; ok && now.Before(held.ExpiresAt) {
		return Lease{}, false
	}
	k.next++
	lease := Lease{GameID: gameID, Token: k.next, ExpiresAt: now.Add(k.ttl)}
	k.leases[gameID] = lease
	return lease, true
}

// Release frees the game if the lease is still the current holder.
// Releasing an expired or superseded lease does nothing.
func (k *Keyed) Release(l Lease) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if held, ok := k.leases[l.GameID]; ok && held.Token == l.Token {
		delete(k.leases, l.GameID)
	}
}

// Held reports whether a live lease currently covers the game.
func (k *Keyed) Held(gameID int64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	held, ok := k.leases[gameID]
	return ok && k.now().Before(held.ExpiresAt)
}
