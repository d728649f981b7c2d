package gamelock

import (
	"sync"
	"testing"
	"time"
)

func TestTryAcquireExcludesSameGame(t *testing.T) {
	k := New(time.Minute)
	lease, ok := k.TryAcquire(1)
	if !ok {
		t.Fatalf("first acquire must succeed")
	}
	if _, ok := k.TryAcquire(1); ok {
		t.Fatalf("second acquire on held game must fail")
	}
	k.Release(lease)
	if _, ok := k.TryAcquire(1); !ok {
		t.Fatalf("acquire after release must succeed")
	}
}

func TestDistinctGamesNeverContend(t *testing.T) {
	k := New(time.Minute)
	if _, ok := k.TryAcquire(1); !ok {
		t.Fatalf("acquire game 1 failed")
	}
	if _, ok := k.TryAcquire(2); !ok {
		t.Fatalf("game 2 must be independent of game 1")
	}
}

func TestExpiredLeaseIsReclaimed(t *testing.T) {
	k := New(time.Minute)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	k.now = func() time.Time { return clock }

	stale, ok := k.TryAcquire(1)
	if !ok {
		t.Fatalf("acquire failed")
	}

	clock = clock.Add(2 * time.Minute)
	fresh, ok := k.TryAcquire(1)
	if !ok {
		t.Fatalf("expired lease must be reclaimable")
	}
	if fresh.Token == stale.Token {
		t.Fatalf("reclaimed lease must carry a new fencing token")
	}

	// The stale holder's release must not free the fresh lease.
	k.Release(stale)
	if !k.Held(1) {
		t.Fatalf("stale release freed a superseded lease")
	}
	k.Release(fresh)
	if k.Held(1) {
		t.Fatalf("fresh release should free the game")
	}
}

func TestTryAcquireUnderContention(t *testing.T) {
	k := New(time.Minute)
	const goroutines = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	holders := 0
	maxHolders := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				lease, ok := k.TryAcquire(7)
				if !ok {
					continue
				}
				mu.Lock()
				holders++
				if holders > maxHolders {
					maxHolders = holders
				}
				mu.Unlock()

				mu.Lock()
				holders--
				mu.Unlock()
				k.Release(lease)
			}
		}()
	}
	wg.Wait()

	if maxHolders > 1 {
		t.Fatalf("observed %d concurrent holders, want at most 1", maxHolders)
	}
}
