package game

import (
	"testing"
	"time"
)

func TestStandardModeSequence(t *testing.T) {
	want := []PhaseName{
		PhaseStockActionOrder,
		PhaseCompanyVote,
		PhaseCompanyVoteReveal,
		PhaseFactoryBuild,
		PhaseMarketingResearch,
		PhaseModernOperations,
	}
	mode := ModeByName("standard")
	if len(mode.Sequence) != len(want) {
		t.Fatalf("sequence length=%d want %d", len(mode.Sequence), len(want))
	}
	for i, name := range want {
		if mode.Sequence[i].Name != name {
			t.Fatalf("slot %d is %s want %s", i, mode.Sequence[i].Name, name)
		}
	}
}

func TestModeByNameFallback(t *testing.T) {
	if got := ModeByName("nonsense"); got.Name != "standard" {
		t.Fatalf("unknown mode should fall back to standard, got %s", got.Name)
	}
	if got := ModeByName("blitz"); got.Name != "blitz" {
		t.Fatalf("got %s want blitz", got.Name)
	}
}

func TestAdvanceWithinTurn(t *testing.T) {
	mode := ModeByName("standard")
	next, newTurn, over := mode.Advance(PhaseCompanyVote, 1, 12)
	if next.Name != PhaseCompanyVoteReveal || newTurn || over {
		t.Fatalf("got %s newTurn=%v over=%v", next.Name, newTurn, over)
	}
}

func TestAdvanceWrapsToNewTurn(t *testing.T) {
	mode := ModeByName("standard")
	next, newTurn, over := mode.Advance(PhaseModernOperations, 3, 12)
	if next.Name != PhaseStockActionOrder || !newTurn || over {
		t.Fatalf("got %s newTurn=%v over=%v", next.Name, newTurn, over)
	}
}

func TestAdvanceHitsTurnLimit(t *testing.T) {
	mode := ModeByName("standard")
	next, newTurn, over := mode.Advance(PhaseModernOperations, 12, 12)
	if next.Name != PhaseEnd || newTurn || !over {
		t.Fatalf("got %s newTurn=%v over=%v", next.Name, newTurn, over)
	}
}

func TestAdvanceFullTurnWalk(t *testing.T) {
	mode := ModeByName("blitz")
	current := mode.First().Name
	steps := 0
	for {
		next, newTurn, over := mode.Advance(current, 1, 2)
		if over {
			t.Fatalf("turn 1 of 2 must not end the game")
		}
		steps++
		if newTurn {
			break
		}
		current = next.Name
		if steps > len(mode.Sequence) {
			t.Fatalf("sequence never wrapped")
		}
	}
	if steps != len(mode.Sequence) {
		t.Fatalf("walked %d steps, want %d", steps, len(mode.Sequence))
	}
}

func TestPhaseDeadline(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := PhaseState{Name: PhaseFactoryBuild, StartTime: &start, AllottedMs: 180_000}
	deadline, ok := p.Deadline()
	if !ok {
		t.Fatalf("expected a deadline")
	}
	if want := start.Add(3 * time.Minute); !deadline.Equal(want) {
		t.Fatalf("deadline=%s want %s", deadline, want)
	}

	unstarted := PhaseState{Name: PhaseFactoryBuild, AllottedMs: 180_000}
	if _, ok := unstarted.Deadline(); ok {
		t.Fatalf("unstarted phase must have no deadline")
	}
}

func TestAdvanceDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	started := now.Add(-5 * time.Minute)
	timed := &PhaseState{Name: PhaseFactoryBuild, StartTime: &started, AllottedMs: 180_000}
	fresh := &PhaseState{Name: PhaseFactoryBuild, StartTime: &now, AllottedMs: 180_000}
	unstarted := &PhaseState{Name: PhaseFactoryBuild, AllottedMs: 180_000}

	cases := []struct {
		name      string
		timerless bool
		phase     *PhaseState
		total     int64
		ready     int64
		want      bool
	}{
		{"no phase", false, nil, 3, 3, false},
		{"all ready", false, fresh, 3, 3, true},
		{"all ready timerless", true, unstarted, 2, 2, true},
		{"timerless waits for everyone", true, unstarted, 3, 2, false},
		{"deadline elapsed", false, timed, 3, 1, true},
		{"deadline not reached", false, fresh, 3, 1, false},
		{"timed phase never started", false, unstarted, 3, 1, false},
		{"no players falls to deadline", false, timed, 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AdvanceDue(tc.timerless, tc.phase, tc.total, tc.ready, now)
			if got != tc.want {
				t.Fatalf("AdvanceDue=%v want %v", got, tc.want)
			}
		})
	}
}
