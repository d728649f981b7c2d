package game

import "fmt"

// ResourceScope says whether a track is shared game-wide or bound to a sector.
type ResourceScope string

const (
	ScopeGlobal ResourceScope = "GLOBAL"
	ScopeSector ResourceScope = "SECTOR"
)

// ResourceTrack is a monotonic price ladder for one tradable resource.
// Position only ever moves forward, one step per recorded consumption
// event, and is capped at the last rung.
type ResourceTrack struct {
	ID           int64
	ResourceType string
	Scope        ResourceScope
	Prices       []int64
	Position     int
}

func (t *ResourceTrack) CurrentPrice() int64 {
	if len(t.Prices) == 0 {
		return 0
	}
	return t.Prices[t.Position]
}

// Consume advances the track by n consumption events.
func (t *ResourceTrack) Consume(n int) {
	if n <= 0 || len(t.Prices) == 0 {
		return
	}
	t.Position += n
	if last := len(t.Prices) - 1; t.Position > last {
		t.Position = last
	}
}

// Validate checks the ladder/position invariant before a track is used.
func (t *ResourceTrack) Validate() error {
	if len(t.Prices) == 0 {
		return fmt.Errorf("resource track %s has empty price ladder", t.ResourceType)
	}
	if t.Position < 0 || t.Position >= len(t.Prices) {
		return fmt.Errorf("resource track %s position %d outside ladder of %d", t.ResourceType, t.Position, len(t.Prices))
	}
	return nil
}
