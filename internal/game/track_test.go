package game

import "testing"

func TestTrackCurrentPrice(t *testing.T) {
	track := ResourceTrack{ResourceType: "STEEL", Scope: ScopeSector, Prices: []int64{10, 15, 20}, Position: 1}
	if got := track.CurrentPrice(); got != 15 {
		t.Fatalf("got %d want 15", got)
	}
}

func TestTrackConsumeAdvances(t *testing.T) {
	track := ResourceTrack{ResourceType: "STEEL", Prices: []int64{10, 15, 20, 25}, Position: 0}
	track.Consume(2)
	if track.Position != 2 {
		t.Fatalf("position=%d want 2", track.Position)
	}
	if got := track.CurrentPrice(); got != 20 {
		t.Fatalf("price=%d want 20", got)
	}
}

func TestTrackConsumeCapsAtLadderEnd(t *testing.T) {
	track := ResourceTrack{ResourceType: "STEEL", Prices: []int64{10, 15, 20}, Position: 1}
	track.Consume(10)
	if track.Position != 2 {
		t.Fatalf("position=%d want 2", track.Position)
	}
	track.Consume(1)
	if got := track.CurrentPrice(); got != 20 {
		t.Fatalf("price must stay pinned to the last rung, got %d", got)
	}
}

func TestTrackConsumeIgnoresNonPositive(t *testing.T) {
	track := ResourceTrack{ResourceType: "STEEL", Prices: []int64{10, 15}, Position: 1}
	track.Consume(0)
	track.Consume(-3)
	if track.Position != 1 {
		t.Fatalf("position=%d want 1", track.Position)
	}
}

func TestTrackValidate(t *testing.T) {
	good := ResourceTrack{ResourceType: "STEEL", Prices: []int64{10}, Position: 0}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid track: %v", err)
	}
	empty := ResourceTrack{ResourceType: "STEEL"}
	if err := empty.Validate(); err == nil {
		t.Fatalf("expected empty ladder to fail")
	}
	out := ResourceTrack{ResourceType: "STEEL", Prices: []int64{10, 15}, Position: 2}
	if err := out.Validate(); err == nil {
		t.Fatalf("expected out-of-range position to fail")
	}
}

func TestTrackConsumeEmptyLadder(t *testing.T) {
	track := ResourceTrack{ResourceType: "STEEL"}
	track.Consume(2)
	if track.Position != 0 {
		t.Fatalf("position=%d want 0", track.Position)
	}
	if track.CurrentPrice() != 0 {
		t.Fatalf("price=%d want 0", track.CurrentPrice())
	}
}
