/*
Package game
File: state.go
Description:
    The turn phase and the read-only snapshot presentation layers query.
    A Snapshot is a copy; mutating it never reaches the controller.
*/

package game

import "fmt"

// Phase governs which controller operations are legal.
type Phase int

const (
	PhasePlanning Phase = iota
	PhaseExecution
	PhaseResults
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "planning"
	case PhaseExecution:
		return "execution"
	case PhaseResults:
		return "results"
	case PhaseGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Snapshot is the queryable state of a scenario run.
type Snapshot struct {
	Scenario   string         `json:"scenario"`
	Phase      Phase          `json:"phase"`
	Turn       int            `json:"turn"`
	MaxTurns   int            `json:"max_turns"`
	Ledger     ResourceLedger `json:"ledger"`
	QueueLen   int            `json:"queue_length"`
	Queue      []ActionPlan   `json:"queue"`
	ShotsFired int            `json:"shots_fired"`
	ShotsHit   int            `json:"shots_hit"`
	Outcome    Outcome        `json:"outcome"`
}
