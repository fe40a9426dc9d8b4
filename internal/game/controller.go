/*
Package game
File: controller.go
Description:
    The turn-cycle controller: sole owner of the phase, the turn counter,
    the resource ledger and the action queue of one scenario run.

    Planning   -> accepts PlanAction / CancelLastAction; ExecuteTurn moves on.
    Execution  -> the queue is drained in commit order, one action per
                  scheduler step, ActionDelay apart, then FinalDelay.
    Results    -> auto-advances after ResultsDelay, or at once on Continue.
    GameOver   -> entered instead of Planning once the turn counter passes
                  the scenario's turn limit. Terminal.

    The controller is not safe for concurrent use; hosts serialize calls.
*/

package game

import (
	"fmt"
	"log"
	"math/rand"
	"time"
)

// Options carries the collaborators of a Controller. Zero values are filled
// in by NewController.
type Options struct {
	Grid   SectorGrid  // nil: built from the scenario's map
	Rng    *rand.Rand  // nil: seeded from the clock
	Logger *log.Logger // nil: log.Default()
	Pacing *Pacing     // nil: the config's pacing
}

// Controller runs one scenario.
type Controller struct {
	scenario *Scenario
	arsenal  []*Archetype
	grid     SectorGrid
	rng      *rand.Rand
	logger   *log.Logger
	pacing   Pacing
	drawing  DrawingConfig

	sched  *Scheduler
	notify Notifier

	phase  Phase
	turn   int
	ledger ResourceLedger
	queue  ActionQueue
	nextID int

	autoAdvance    StepID
	autoAdvanceSet bool

	shotsFired int
	shotsHit   int
	damage     map[Cell]float64
	objectives *objectiveTracker
}

// NewController builds a run of scenarioKey from cfg and enters the first
// Planning phase (turn 1, resources replenished once).
func NewController(cfg *Config, scenarioKey string, opts Options) (*Controller, error) {
	sc := cfg.Scenario(scenarioKey)
	if sc == nil {
		return nil, fmt.Errorf("unknown scenario %q", scenarioKey)
	}

	c := &Controller{
		scenario: sc,
		grid:     opts.Grid,
		rng:      opts.Rng,
		logger:   opts.Logger,
		drawing:  cfg.Drawing,
		sched:    NewScheduler(),
		damage:   make(map[Cell]float64),
	}

	if len(sc.Projectiles) == 0 {
		for i := range cfg.Arsenal {
			c.arsenal = append(c.arsenal, &cfg.Arsenal[i])
		}
	} else {
		for _, key := range sc.Projectiles {
			a := cfg.Archetype(key)
			if a == nil {
				return nil, fmt.Errorf("scenario %q: %w: %s", sc.Key, ErrUnknownArchetype, key)
			}
			c.arsenal = append(c.arsenal, a)
		}
	}

	if c.grid == nil {
		m := cfg.MapLayout(sc.Map)
		if m == nil {
			return nil, fmt.Errorf("scenario %q: no map and no grid supplied", sc.Key)
		}
		c.grid = NewGridFromMap(m)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game dice
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	switch {
	case opts.Pacing != nil:
		c.pacing = *opts.Pacing
	case cfg.Pacing != nil:
		c.pacing = *cfg.Pacing
	default:
		c.pacing = DefaultPacing
	}

	c.ledger = newLedger(sc)
	c.objectives = newObjectiveTracker(sc)

	c.logger.Printf("SCENARIO: %s (%d turns, %d archetypes)", sc.Name, sc.MaxTurns, len(c.arsenal))
	c.startTurn()
	return c, nil
}

// Subscribe registers an observer for plan, phase and impact notifications.
func (c *Controller) Subscribe(o Observer) { c.notify.Subscribe(o) }

// Unsubscribe removes a previously subscribed observer.
func (c *Controller) Unsubscribe(o Observer) { c.notify.Unsubscribe(o) }

// Phase is the current turn phase.
func (c *Controller) Phase() Phase { return c.phase }

// Turn is the 1-based turn counter.
func (c *Controller) Turn() int { return c.turn }

// Ledger returns a copy of the resource ledger.
func (c *Controller) Ledger() ResourceLedger { return c.ledger }

// Grid is the battlefield the controller resolves against.
func (c *Controller) Grid() SectorGrid { return c.grid }

// Scenario is the active scenario definition.
func (c *Controller) Scenario() *Scenario { return c.scenario }

// Scheduler exposes the pacing clock.
func (c *Controller) Scheduler() *Scheduler { return c.sched }

// QueuedPlans copies the plans waiting for execution, oldest first.
func (c *Controller) QueuedPlans() []ActionPlan { return c.queue.Plans() }

// Arsenal lists the archetypes usable in this scenario, in configured order.
func (c *Controller) Arsenal() []*Archetype {
	return append([]*Archetype(nil), c.arsenal...)
}

// Archetype looks up a scenario archetype by key.
func (c *Controller) Archetype(key string) (*Archetype, error) {
	for _, a := range c.arsenal {
		if a.Key == key {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownArchetype, key)
}

// canonical maps a to the configured arsenal record with the same key. Plans
// always carry the configured record, never the caller's copy.
func (c *Controller) canonical(a *Archetype) *Archetype {
	if a == nil {
		return nil
	}
	for _, known := range c.arsenal {
		if known == a || known.Key == a.Key {
			return known
		}
	}
	return nil
}

// CanAfford reports whether the ledger covers a's cost right now.
func (c *Controller) CanAfford(a *Archetype) bool {
	return c.ledger.Covers(a.Cost()) == nil
}

// NewPathDrawer returns a drawing session using the configured policy.
func (c *Controller) NewPathDrawer() *PathDrawer { return NewPathDrawer(c.drawing) }

// PreviewPath is the default flight path a would fly from origin to target.
func (c *Controller) PreviewPath(origin, target Cell, a *Archetype) FlightPath {
	size := c.grid.SectorSize()
	return GenerateFlightPath(a, GridToWorld(origin, size), GridToWorld(target, size))
}

// EstimateAccuracy is the accuracy PlanAction would record for this shot.
func (c *Controller) EstimateAccuracy(origin, target Cell, a *Archetype, path FlightPath) float64 {
	return Accuracy(a, c.grid.Distance(origin, target), c.pathQuality(a, path))
}

// pathQuality is the score of a usable custom path, else 1.0.
func (c *Controller) pathQuality(a *Archetype, path FlightPath) float64 {
	if a.AllowsCustomPath && len(path) >= 2 {
		return EvaluatePath(path)
	}
	return 1.0
}

// PlanAction validates and commits one shot. On success both costs are
// deducted, the plan is queued and returned. On failure nothing changes.
func (c *Controller) PlanAction(origin, target Cell, a *Archetype, customPath FlightPath) (*ActionPlan, error) {
	// 1. Phase & inputs
	if c.phase != PhasePlanning {
		c.logger.Printf("PLAN: rejected in %s phase", c.phase)
		return nil, ErrInvalidPhase
	}
	a = c.canonical(a)
	if a == nil {
		return nil, ErrUnknownArchetype
	}
	if !c.grid.InBounds(origin) || !c.grid.InBounds(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrOutOfBounds, origin, target)
	}

	// 2. Reserve (all-or-nothing)
	cost := a.Cost()
	if err := c.ledger.reserve(cost); err != nil {
		c.logger.Printf("PLAN: %s rejected: %v", a.Key, err)
		return nil, err
	}

	// 3. Estimate & queue. Paths are dropped silently when the archetype
	// cannot fly them or they are degenerate.
	var path FlightPath
	if a.AllowsCustomPath && len(customPath) >= 2 {
		path = customPath.Clone()
	}
	quality := c.pathQuality(a, path)

	c.nextID++
	plan := &ActionPlan{
		ID:                c.nextID,
		Turn:              c.turn,
		Origin:            origin,
		Target:            target,
		Archetype:         a,
		ArchetypeKey:      a.Key,
		CustomPath:        path,
		PathQuality:       quality,
		EstimatedAccuracy: Accuracy(a, c.grid.Distance(origin, target), quality),
		Reserved:          cost,
		ReservedCost:      cost.Total(),
	}
	c.queue.push(plan)

	c.logger.Printf("PLAN: #%d %s %s -> %s acc=%.2f energy=%d materials=%d",
		plan.ID, a.Key, origin, target, plan.EstimatedAccuracy, c.ledger.Energy, c.ledger.Materials)
	c.notify.actionPlanned(plan)
	return plan, nil
}

// CancelLastAction removes the most recent plan and refunds its exact cost.
// Returns nil, nil when the queue is empty.
func (c *Controller) CancelLastAction() (*ActionPlan, error) {
	if c.phase != PhasePlanning {
		return nil, ErrInvalidPhase
	}
	plan := c.queue.popLast()
	if plan == nil {
		return nil, nil
	}
	c.ledger.refund(plan.Reserved)
	c.logger.Printf("PLAN: #%d cancelled, refunded %d", plan.ID, plan.ReservedCost)
	return plan, nil
}

// ExecuteTurn leaves Planning and schedules resolution of the queue. An empty
// queue is a valid, trivial execution phase.
func (c *Controller) ExecuteTurn() error {
	if c.phase != PhasePlanning {
		return ErrInvalidPhase
	}
	c.logger.Printf("TURN: %d executing %d planned actions", c.turn, c.queue.Len())
	c.setPhase(PhaseExecution)
	c.sched.After(0, "resolve", c.resolveNext)
	return nil
}

// Continue ends Results early, as if the auto-advance delay had elapsed.
func (c *Controller) Continue() error {
	if c.phase != PhaseResults {
		return ErrInvalidPhase
	}
	if c.autoAdvanceSet {
		c.sched.Cancel(c.autoAdvance)
		c.autoAdvanceSet = false
	}
	c.startTurn()
	return nil
}

// Tick advances the pacing clock by dt; live hosts call it from a heartbeat.
func (c *Controller) Tick(dt time.Duration) int { return c.sched.Advance(dt) }

// RunToIdle runs every pending step regardless of delays.
func (c *Controller) RunToIdle() int { return c.sched.Drain() }

// resolveNext resolves the oldest queued plan, or schedules Results once the
// queue is exhausted.
func (c *Controller) resolveNext() {
	plan := c.queue.popFront()
	if plan == nil {
		c.sched.After(c.pacing.FinalDelay, "results", c.enterResults)
		return
	}
	c.resolve(plan)
	c.sched.After(c.pacing.ActionDelay, "resolve", c.resolveNext)
}

func (c *Controller) enterResults() {
	c.setPhase(PhaseResults)
	c.evaluateObjectives(false)
	c.autoAdvance = c.sched.After(c.pacing.ResultsDelay, "advance", func() {
		c.autoAdvanceSet = false
		c.startTurn()
	})
	c.autoAdvanceSet = true
}

// startTurn increments the turn counter and enters Planning, or GameOver once
// the limit is passed.
func (c *Controller) startTurn() {
	c.turn++
	if c.turn > c.scenario.MaxTurns {
		c.evaluateObjectives(true)
		c.logger.Printf("TURN: scenario complete at turn %d, won=%t", c.turn, c.objectives.won)
		c.setPhase(PhaseGameOver)
		return
	}

	c.ledger.replenish(c.scenario.EnergyPerTurn, c.scenario.MaterialsPerTurn)
	c.queue.clear()
	c.logger.Printf("TURN: %d started. Energy: %d, Materials: %d", c.turn, c.ledger.Energy, c.ledger.Materials)
	c.setPhase(PhasePlanning)
}

func (c *Controller) setPhase(p Phase) {
	c.phase = p
	c.notify.phaseChanged(p, c.turn)
}

// resolve flies one plan, rolls the hit and distributes damage.
func (c *Controller) resolve(plan *ActionPlan) {
	a := plan.Archetype
	size := c.grid.SectorSize()

	// 1. Fly
	proj := NewProjectile(a, GridToWorld(plan.Origin, size), GridToWorld(plan.Target, size))
	if plan.CustomPath != nil {
		proj.ApplyCustomPath(plan.CustomPath)
	}
	flight := proj.Launch()
	point, _ := flight.Simulate(simulationStep, maxSimulationTicks)

	// 2. Roll
	chance := HitChance(a, c.grid.Distance(plan.Origin, plan.Target), proj.PathQuality)
	blocked := c.scenario.LineOfSight && a.Kind == KindBeam && !HasLineOfSight(c.grid, plan.Origin, plan.Target)
	hit := !blocked && RollHit(c.rng, chance)
	c.shotsFired++

	base := Impact{
		Turn:        c.turn,
		ActionID:    plan.ID,
		Archetype:   a.Key,
		Cell:        plan.Target,
		Epicenter:   plan.Target,
		HitChance:   chance,
		Blocked:     blocked,
		ImpactPoint: point,
		FlightTime:  flight.Elapsed(),
	}
	if !hit {
		c.logger.Printf("RESOLVE: #%d %s missed %s (chance %.2f)", plan.ID, a.Key, plan.Target, chance)
		c.notify.impactResolved(base)
		return
	}
	c.shotsHit++

	// 3. Damage
	damage := a.BaseDamage
	crit := RollCritical(c.rng, a.CriticalChance)
	if crit {
		damage *= criticalMultiplier
	}
	cells := []Cell{plan.Target}
	if a.AreaOfEffect > 0 {
		cells = c.grid.CellsWithinRadius(plan.Target, a.AreaOfEffect)
	}
	sink, _ := c.grid.(DamageSink)
	total := 0.0
	for _, cell := range cells {
		dmg := FalloffDamage(damage, a.AreaOfEffect, EuclideanDistance(cell, plan.Target))
		if dmg > 0 {
			if sink != nil {
				sink.ApplyDamage(cell, dmg, a.Piercing)
			}
			c.damage[cell] += dmg
			total += dmg
		}
		imp := base
		imp.Cell = cell
		imp.Damage = dmg
		imp.Hit = true
		imp.Critical = crit
		c.notify.impactResolved(imp)
	}
	c.logger.Printf("RESOLVE: #%d %s hit %s (chance %.2f, crit=%t) %d sectors, %.1f damage",
		plan.ID, a.Key, plan.Target, chance, crit, len(cells), total)
}

func (c *Controller) evaluateObjectives(final bool) {
	c.objectives.evaluate(objectiveInput{
		turn:       c.turn,
		final:      final,
		ledger:     c.ledger,
		shotsFired: c.shotsFired,
		shotsHit:   c.shotsHit,
		grid:       c.grid,
		damage:     c.damage,
	})
}

// Outcome summarises the run so far.
func (c *Controller) Outcome() Outcome {
	o := Outcome{
		Scenario:           c.scenario.Key,
		Complete:           c.phase == PhaseGameOver,
		Won:                c.objectives.won,
		FinalTurn:          min(c.turn, c.scenario.MaxTurns),
		ObjectivesComplete: c.objectives.completed(),
		Objectives:         c.objectives.snapshot(),
		ShotsFired:         c.shotsFired,
		ShotsHit:           c.shotsHit,
	}
	if c.shotsFired > 0 {
		o.Accuracy = float64(c.shotsHit) / float64(c.shotsFired)
	}
	return o
}

// Snapshot copies the queryable state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Scenario:   c.scenario.Key,
		Phase:      c.phase,
		Turn:       c.turn,
		MaxTurns:   c.scenario.MaxTurns,
		Ledger:     c.ledger,
		QueueLen:   c.queue.Len(),
		Queue:      c.queue.Plans(),
		ShotsFired: c.shotsFired,
		ShotsHit:   c.shotsHit,
		Outcome:    c.Outcome(),
	}
}
