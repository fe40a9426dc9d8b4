/*
Package game
File: harness.go
Description:
    Headless scenario setup. NewTestRun builds a small in-memory
    configuration from functional options and wires a TurnLog, for tests
    and for the sector-sim runner.
*/

package game

import (
	"io"
	"log"
	"math/rand"
)

// TestRun is a headless scenario used by tests and the sector-sim runner.
// It builds an in-memory configuration with zero pacing, seeds the dice and
// records every notification in Log.
type TestRun struct {
	Controller *Controller
	Grid       *Grid
	Log        *TurnLog
	Config     *Config
}

// runSetup accumulates options before the controller is built.
type runSetup struct {
	cfg      Config
	scenario Scenario
	layout   MapLayout
	seed     int64
	logger   *log.Logger
}

// RunOption is a builder function applied during NewTestRun.
type RunOption func(*runSetup)

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) RunOption {
	return func(s *runSetup) { s.seed = seed }
}

// WithGridSize sets the battlefield dimensions.
func WithGridSize(w, h int) RunOption {
	return func(s *runSetup) {
		s.layout.Width = w
		s.layout.Height = h
	}
}

// WithTerrain overrides one sector type.
func WithTerrain(x, y int, t SectorType) RunOption {
	return func(s *runSetup) {
		s.layout.Terrain = append(s.layout.Terrain, TerrainEntry{X: x, Y: y, Type: t})
	}
}

// WithArchetype adds a to the arsenal. When no archetype is given the run
// carries a single "test_shell".
func WithArchetype(a Archetype) RunOption {
	return func(s *runSetup) { s.cfg.Arsenal = append(s.cfg.Arsenal, a) }
}

// WithScenario edits the scenario before it is validated.
func WithScenario(fn func(*Scenario)) RunOption {
	return func(s *runSetup) { fn(&s.scenario) }
}

// WithPacing replaces the zero pacing.
func WithPacing(p Pacing) RunOption {
	return func(s *runSetup) { s.cfg.Pacing = &p }
}

// WithLogger routes controller log lines to l instead of discarding them.
func WithLogger(l *log.Logger) RunOption {
	return func(s *runSetup) { s.logger = l }
}

// TestShell is the archetype a TestRun gets by default: a plain,
// always-hitting single-sector shell.
var TestShell = Archetype{
	Key:          "test_shell",
	Name:         "Test Shell",
	Kind:         KindBallistic,
	BaseDamage:   25,
	BaseAccuracy: 1,
	Range:        100,
	EnergyCost:   15,
	MaterialCost: 10,
	FlightSpeed:  5,
}

// NewTestRun builds a TestRun. The defaults are a 10x10 map, 100 energy,
// 50 materials, no income and a 10 turn limit.
func NewTestRun(opts ...RunOption) (*TestRun, error) {
	s := &runSetup{
		layout: MapLayout{Key: "test_map", Name: "Test Map", Width: 10, Height: 10},
		scenario: Scenario{
			Key:               "test",
			Name:              "Test Scenario",
			Map:               "test_map",
			MaxTurns:          10,
			StartingEnergy:    100,
			StartingMaterials: 50,
		},
		seed:   1,
		logger: log.New(io.Discard, "", 0),
	}
	s.cfg.Pacing = &Pacing{}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.cfg.Arsenal) == 0 {
		s.cfg.Arsenal = []Archetype{TestShell}
	}
	s.cfg.Maps = []MapLayout{s.layout}
	s.cfg.Scenarios = []Scenario{s.scenario}

	s.cfg.applyDefaults()
	if err := s.cfg.validate(); err != nil {
		return nil, err
	}

	grid := NewGridFromMap(&s.cfg.Maps[0])
	turnLog := NewTurnLog()
	ctrl, err := NewController(&s.cfg, s.scenario.Key, Options{
		Grid:   grid,
		Rng:    rand.New(rand.NewSource(s.seed)), // #nosec G404 -- test harness
		Logger: s.logger,
	})
	if err != nil {
		return nil, err
	}
	ctrl.Subscribe(turnLog)
	return &TestRun{Controller: ctrl, Grid: grid, Log: turnLog, Config: &s.cfg}, nil
}

// PlayTurn executes the planned queue and runs the scheduler until the next
// Planning or GameOver phase.
func (r *TestRun) PlayTurn() error {
	if err := r.Controller.ExecuteTurn(); err != nil {
		return err
	}
	r.Controller.RunToIdle()
	return nil
}
