/*
Package game
File: objectives.go
Description:
    Scenario objectives and victory conditions. Objectives are re-checked
    every time a turn reaches Results and once more at GameOver. Meeting
    the victory condition marks the scenario won; it never ends the run,
    the turn limit alone does that.
*/

package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ObjectiveType selects how an objective is checked.
type ObjectiveType int

const (
	ObjectiveDestroyTarget ObjectiveType = iota
	ObjectiveDefendSector
	ObjectiveSurviveTurns
	ObjectiveAccuracyTest
	ObjectiveResourceManagement
)

var objectiveTypeNames = [...]string{"destroy_target", "defend_sector", "survive_turns", "accuracy_test", "resource_management"}

func (t ObjectiveType) String() string {
	if t < 0 || int(t) >= len(objectiveTypeNames) {
		return "unknown"
	}
	return objectiveTypeNames[t]
}

func (t ObjectiveType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ObjectiveType) UnmarshalText(b []byte) error {
	i, err := parseEnum(string(b), objectiveTypeNames[:])
	if err != nil {
		return fmt.Errorf("objective type: %w", err)
	}
	*t = ObjectiveType(i)
	return nil
}

func (t *ObjectiveType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// VictoryCondition decides how many objectives make a win.
type VictoryCondition int

const (
	VictoryAllObjectives VictoryCondition = iota
	VictoryAnyObjective
	VictoryMinimumObjectives
	VictorySurviveAllTurns
)

var victoryNames = [...]string{"all_objectives_complete", "any_objective_complete", "minimum_objectives", "survive_all_turns"}

func (v VictoryCondition) String() string {
	if v < 0 || int(v) >= len(victoryNames) {
		return "unknown"
	}
	return victoryNames[v]
}

func (v VictoryCondition) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *VictoryCondition) UnmarshalText(b []byte) error {
	i, err := parseEnum(string(b), victoryNames[:])
	if err != nil {
		return fmt.Errorf("victory condition: %w", err)
	}
	*v = VictoryCondition(i)
	return nil
}

func (v *VictoryCondition) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return v.UnmarshalText([]byte(s))
}

// parseEnum matches s against names ignoring case and underscores, so
// "DestroyTarget" and "destroy_target" are the same.
func parseEnum(s string, names []string) (int, error) {
	norm := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for i, name := range names {
		if norm == strings.ReplaceAll(name, "_", "") {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

// ObjectiveDef is one scenario goal as configured.
type ObjectiveDef struct {
	Description string        `yaml:"description" json:"description"`
	Type        ObjectiveType `yaml:"type" json:"type"`
	Target      Cell          `yaml:"target" json:"target"` // DestroyTarget, DefendSector
	Value       int           `yaml:"value" json:"value"`   // Turns, accuracy percent or resource total
}

// ObjectiveStatus is an objective with its current state.
type ObjectiveStatus struct {
	ObjectiveDef
	Complete bool `json:"complete"`
}

// Outcome summarises a scenario run.
type Outcome struct {
	Scenario           string            `json:"scenario"`
	Complete           bool              `json:"complete"` // Turn limit reached
	Won                bool              `json:"won"`
	FinalTurn          int               `json:"final_turn"`
	ObjectivesComplete int               `json:"objectives_complete"`
	Objectives         []ObjectiveStatus `json:"objectives"`
	ShotsFired         int               `json:"shots_fired"`
	ShotsHit           int               `json:"shots_hit"`
	Accuracy           float64           `json:"accuracy"` // Hit ratio 0..1
}

// objectiveInput is what the tracker may look at.
type objectiveInput struct {
	turn       int
	final      bool
	ledger     ResourceLedger
	shotsFired int
	shotsHit   int
	grid       SectorGrid
	damage     map[Cell]float64
}

type objectiveTracker struct {
	scenario *Scenario
	status   []ObjectiveStatus
	won      bool
}

func newObjectiveTracker(s *Scenario) *objectiveTracker {
	t := &objectiveTracker{scenario: s}
	for _, def := range s.Objectives {
		t.status = append(t.status, ObjectiveStatus{ObjectiveDef: def})
	}
	return t
}

// evaluate updates every open objective and the victory flag. Completed
// objectives stay complete.
func (t *objectiveTracker) evaluate(in objectiveInput) {
	for i := range t.status {
		st := &t.status[i]
		if st.Complete {
			continue
		}
		switch st.Type {
		case ObjectiveDestroyTarget:
			if ir, ok := in.grid.(IntegrityReader); ok {
				integrity, inBounds := ir.Integrity(st.Target)
				st.Complete = inBounds && integrity <= 0
			} else {
				st.Complete = in.damage[st.Target] > 0
			}
		case ObjectiveDefendSector:
			st.Complete = in.final && in.damage[st.Target] == 0
		case ObjectiveSurviveTurns:
			st.Complete = in.turn >= st.Value
		case ObjectiveAccuracyTest:
			st.Complete = in.shotsFired > 0 && in.shotsHit*100 >= st.Value*in.shotsFired
		case ObjectiveResourceManagement:
			st.Complete = in.ledger.Energy+in.ledger.Materials >= st.Value
		}
	}

	done := t.completed()
	switch t.scenario.Victory {
	case VictoryAllObjectives:
		// A scenario without objectives is won by lasting to the end.
		if len(t.status) == 0 {
			t.won = t.won || in.final
		} else {
			t.won = t.won || done == len(t.status)
		}
	case VictoryAnyObjective:
		t.won = t.won || done > 0
	case VictoryMinimumObjectives:
		t.won = t.won || done >= t.scenario.RequiredObjectives
	case VictorySurviveAllTurns:
		t.won = t.won || in.final
	}
}

func (t *objectiveTracker) completed() int {
	n := 0
	for _, st := range t.status {
		if st.Complete {
			n++
		}
	}
	return n
}

func (t *objectiveTracker) snapshot() []ObjectiveStatus {
	return append([]ObjectiveStatus(nil), t.status...)
}
