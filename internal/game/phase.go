package game

import "time"

// PhaseName tags a segment of a turn during which specific action
// types are admissible.
type PhaseName string

const (
	PhaseStockActionOrder  PhaseName = "STOCK_ACTION_ORDER"
	PhaseCompanyVote       PhaseName = "OPERATING_ACTION_COMPANY_VOTE"
	PhaseCompanyVoteReveal PhaseName = "OPERATING_ACTION_COMPANY_VOTE_REVEAL"
	PhaseFactoryBuild      PhaseName = "FACTORY_CONSTRUCTION"
	PhaseMarketingResearch PhaseName = "MARKETING_AND_RESEARCH_ACTION"
	PhaseModernOperations  PhaseName = "MODERN_OPERATIONS"
	PhaseEnd               PhaseName = "END"
)

// PhaseConfig is one slot of a mode's static phase sequence.
type PhaseConfig struct {
	Name     PhaseName
	Duration time.Duration
}

// ModeConfig is the static per-game-mode phase sequence. Turns repeat
// the sequence until the turn limit, then the game lands on END.
type ModeConfig struct {
	Name     string
	Sequence []PhaseConfig
}

var standardMode = ModeConfig{
	Name: "standard",
	Sequence: []PhaseConfig{
		{Name: PhaseStockActionOrder, Duration: 3 * time.Minute},
		{Name: PhaseCompanyVote, Duration: 2 * time.Minute},
		{Name: PhaseCompanyVoteReveal, Duration: 30 * time.Second},
		{Name: PhaseFactoryBuild, Duration: 3 * time.Minute},
		{Name: PhaseMarketingResearch, Duration: 3 * time.Minute},
		{Name: PhaseModernOperations, Duration: 2 * time.Minute},
	},
}

var blitzMode = ModeConfig{
	Name: "blitz",
	Sequence: []PhaseConfig{
		{Name: PhaseStockActionOrder, Duration: 45 * time.Second},
		{Name: PhaseCompanyVote, Duration: 30 * time.Second},
		{Name: PhaseCompanyVoteReveal, Duration: 15 * time.Second},
		{Name: PhaseFactoryBuild, Duration: 45 * time.Second},
		{Name: PhaseMarketingResearch, Duration: 45 * time.Second},
		{Name: PhaseModernOperations, Duration: 30 * time.Second},
	},
}

// ModeByName returns the phase configuration for a game mode, falling
// back to standard for unknown names.
func ModeByName(name string) ModeConfig {
	switch name {
	case blitzMode.Name:
		return blitzMode
	default:
		return standardMode
	}
}

// First is the opening phase of every turn.
func (m ModeConfig) First() PhaseConfig {
	return m.Sequence[0]
}

// Advance resolves the phase that follows current. newTurn is true when
// the sequence wraps; gameOver is true when the turn limit is exhausted
// and the game moves to the terminal END phase instead.
func (m ModeConfig) Advance(current PhaseName, turnSeq, turnLimit int) (next PhaseConfig, newTurn, gameOver bool) {
	idx := -1
	for i, pc := range m.Sequence {
		if pc.Name == current {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(m.Sequence)-1 {
		if turnLimit > 0 && turnSeq >= turnLimit {
			return PhaseConfig{Name: PhaseEnd}, false, true
		}
		return m.First(), true, false
	}
	return m.Sequence[idx+1], false, false
}

// AdvanceDue reports whether the current phase may be closed on a
// player's request: every player is ready, or a timed phase's deadline
// has elapsed. Timerless games advance only on unanimous readiness.
func AdvanceDue(timerless bool, phase *PhaseState, totalPlayers, readyPlayers int64, now time.Time) bool {
	if phase == nil {
		return false
	}
	if totalPlayers > 0 && totalPlayers == readyPlayers {
		return true
	}
	if timerless {
		return false
	}
	deadline, ok := phase.Deadline()
	if !ok {
		return false
	}
	return now.After(deadline)
}

// PhaseState is the current-phase snapshot the gate and queries work on.
type PhaseState struct {
	ID         int64
	TurnID     int64
	TurnSeq    int
	Name       PhaseName
	StartTime  *time.Time
	AllottedMs int64
}

// Deadline is the submission cutoff; ok is false for untimed phases.
func (p PhaseState) Deadline() (time.Time, bool) {
	if p.StartTime == nil {
		return time.Time{}, false
	}
	return p.StartTime.Add(time.Duration(p.AllottedMs) * time.Millisecond), true
}
