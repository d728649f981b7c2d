package game

import (
	"errors"
	"testing"
	"time"
)

func gatePhase(start time.Time, allottedMs int64) *PhaseState {
	return &PhaseState{
		ID:         1,
		TurnID:     10,
		TurnSeq:    1,
		Name:       PhaseFactoryBuild,
		StartTime:  &start,
		AllottedMs: allottedMs,
	}
}

func TestAdmitHappyPath(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(time.Minute)
	stamp, err := Admit(GateInput{
		CallerUserID: "u-1",
		ActorUserID:  "u-1",
		Phase:        gatePhase(start, 180_000),
		Targets:      []PhaseName{PhaseFactoryBuild},
		Now:          now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stamp.Equal(now) {
		t.Fatalf("stamp=%s want %s", stamp, now)
	}
}

func TestAdmitRejectsMissingActor(t *testing.T) {
	_, err := Admit(GateInput{CallerUserID: "u-1", ActorUserID: ""})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v want ErrUnauthorized", err)
	}
}

func TestAdmitRejectsForeignActor(t *testing.T) {
	_, err := Admit(GateInput{CallerUserID: "u-1", ActorUserID: "u-2"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v want ErrUnauthorized", err)
	}
}

func TestAdmitRejectsNoPhase(t *testing.T) {
	_, err := Admit(GateInput{CallerUserID: "u-1", ActorUserID: "u-1", Phase: nil})
	if !errors.Is(err, ErrNoCurrentPhase) {
		t.Fatalf("got %v want ErrNoCurrentPhase", err)
	}
}

func TestAdmitRejectsWrongPhase(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := Admit(GateInput{
		CallerUserID: "u-1",
		ActorUserID:  "u-1",
		Phase:        gatePhase(start, 180_000),
		Targets:      []PhaseName{PhaseMarketingResearch},
		Now:          start,
	})
	if !errors.Is(err, ErrPhaseMismatch) {
		t.Fatalf("got %v want ErrPhaseMismatch", err)
	}
}

func TestAdmitDeadlineBoundary(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	phase := gatePhase(start, 180_000)
	deadline := start.Add(3 * time.Minute)

	// Exactly at the deadline is still admitted.
	if _, err := Admit(GateInput{
		CallerUserID: "u-1", ActorUserID: "u-1",
		Phase: phase, Targets: []PhaseName{PhaseFactoryBuild},
		Now: deadline,
	}); err != nil {
		t.Fatalf("at-deadline submission must pass: %v", err)
	}

	_, err := Admit(GateInput{
		CallerUserID: "u-1", ActorUserID: "u-1",
		Phase: phase, Targets: []PhaseName{PhaseFactoryBuild},
		Now: deadline.Add(time.Millisecond),
	})
	if !errors.Is(err, ErrSubmissionTooLate) {
		t.Fatalf("got %v want ErrSubmissionTooLate", err)
	}
}

func TestAdmitTimerlessSkipsDeadline(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	late := start.Add(24 * time.Hour)
	stamp, err := Admit(GateInput{
		CallerUserID: "u-1", ActorUserID: "u-1",
		Timerless: true,
		Phase:     gatePhase(start, 180_000),
		Targets:   []PhaseName{PhaseFactoryBuild},
		Now:       late,
	})
	if err != nil {
		t.Fatalf("timerless game must ignore deadlines: %v", err)
	}
	if !stamp.Equal(late) {
		t.Fatalf("stamp=%s want %s", stamp, late)
	}
}

func TestAdmitRejectsUnstartedTimedPhase(t *testing.T) {
	phase := &PhaseState{Name: PhaseFactoryBuild, AllottedMs: 180_000}
	_, err := Admit(GateInput{
		CallerUserID: "u-1", ActorUserID: "u-1",
		Phase:   phase,
		Targets: []PhaseName{PhaseFactoryBuild},
		Now:     time.Now(),
	})
	if !errors.Is(err, ErrNoCurrentPhase) {
		t.Fatalf("got %v want ErrNoCurrentPhase", err)
	}
}
