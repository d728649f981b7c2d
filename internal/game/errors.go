package game

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNoCurrentPhase       = errors.New("no current phase for game")
	ErrPhaseMismatch        = errors.New("action not valid in current phase")
	ErrSubmissionTooLate    = errors.New("phase deadline passed")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidBlueprint     = errors.New("invalid blueprint")
	ErrAlreadyActedThisTurn = errors.New("already acted this turn")
	ErrGameBusy             = errors.New("game busy, retry")
	ErrPhaseNotDue          = errors.New("phase is still open")
	ErrNotFound             = errors.New("not found")
	ErrCompanyNotActive     = errors.New("company is not active")
	ErrGameEnded            = errors.New("game has ended")
)
