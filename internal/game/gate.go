package game

import (
	"fmt"
	"time"
)

// GateInput carries everything the admission check needs. The caller
// resolves the actor row and current phase inside the held game lock so
// a concurrent phase advance cannot slip an action past its deadline.
type GateInput struct {
	CallerUserID string
	ActorUserID  string // owner of the resolved actor record; empty if absent
	Timerless    bool
	Phase        *PhaseState // nil when the game has no current phase
	Targets      []PhaseName
	Now          time.Time
}

// Admit validates actor identity, phase, and timing for one submission.
// Pure check: the only output besides the error is the submission
// timestamp stamped onto the admitted action.
func Admit(in GateInput) (time.Time, error) {
	if in.ActorUserID == "" {
		return time.Time{}, fmt.Errorf("%w: actor not found in game", ErrUnauthorized)
	}
	if in.ActorUserID != in.CallerUserID {
		return time.Time{}, fmt.Errorf("%w: actor is not owned by caller", ErrUnauthorized)
	}
	if in.Phase == nil {
		return time.Time{}, ErrNoCurrentPhase
	}
	if !phaseTargeted(in.Phase.Name, in.Targets) {
		return time.Time{}, fmt.Errorf("%w: current phase is %s", ErrPhaseMismatch, in.Phase.Name)
	}
	if in.Timerless {
		return in.Now, nil
	}
	deadline, ok := in.Phase.Deadline()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: phase %s has no start time", ErrNoCurrentPhase, in.Phase.Name)
	}
	if in.Now.After(deadline) {
		return time.Time{}, fmt.Errorf("%w: deadline was %s, submitted %s late",
			ErrSubmissionTooLate, deadline.UTC().Format(time.RFC3339), in.Now.Sub(deadline).Round(time.Millisecond))
	}
	return in.Now, nil
}

func phaseTargeted(current PhaseName, targets []PhaseName) bool {
	for _, t := range targets {
		if t == current {
			return true
		}
	}
	return false
}
