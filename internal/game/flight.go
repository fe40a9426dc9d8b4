/*
Package game
File: flight.go
Description:
    A projectile in flight. Projectile binds an archetype to its own
    FlightPath (generated or hand-drawn) and path quality. Flight walks
    that path one segment at a time at the archetype's flight speed; beams
    arrive on launch. Tracking missiles nudge the waypoint ahead of them
    toward the current target every step, so a retargeted missile bends
    toward the new aim point mid-flight.
*/

package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	defaultTrackingStrength = 0.5

	// simulationStep and maxSimulationTicks bound headless flights.
	simulationStep     = time.Second / 30
	maxSimulationTicks = 100000
)

// Projectile is one shot ready to launch.
type Projectile struct {
	Archetype   *Archetype
	Origin      mgl64.Vec3
	Target      mgl64.Vec3
	Path        FlightPath
	PathQuality float64
	CustomPath  bool
}

// NewProjectile generates the default path for a from origin to target.
func NewProjectile(a *Archetype, origin, target mgl64.Vec3) *Projectile {
	return &Projectile{
		Archetype:   a,
		Origin:      origin,
		Target:      target,
		Path:        GenerateFlightPath(a, origin, target),
		PathQuality: 1.0,
	}
}

// ApplyCustomPath replaces the generated path with a drawn one. Archetypes
// that do not accept custom paths ignore the call, as do paths with fewer
// than two points. Returns whether the path was taken.
func (p *Projectile) ApplyCustomPath(path FlightPath) bool {
	if !p.Archetype.AllowsCustomPath || len(path) < 2 {
		return false
	}
	p.Path = path.Clone()
	p.PathQuality = EvaluatePath(path)
	p.CustomPath = true
	return true
}

// Launch starts a flight over a private copy of the path.
func (p *Projectile) Launch() *Flight {
	f := &Flight{
		projectile:       p,
		path:             p.Path.Clone(),
		target:           p.Target,
		TrackingStrength: defaultTrackingStrength,
	}
	if len(f.path) > 0 {
		f.position = f.path[0]
	}
	if p.Archetype.Kind == KindBeam || len(f.path) < 2 {
		f.impact()
	}
	return f
}

// Flight is the in-flight state of a launched projectile.
type Flight struct {
	projectile *Projectile
	path       FlightPath
	target     mgl64.Vec3
	position   mgl64.Vec3
	index      int
	progress   float64
	elapsed    time.Duration
	impacted   bool

	TrackingStrength float64
}

// Position is the projectile's current world position.
func (f *Flight) Position() mgl64.Vec3 { return f.position }

// Impacted reports whether the flight has reached the end of its path.
func (f *Flight) Impacted() bool { return f.impacted }

// Elapsed is the simulated time flown so far.
func (f *Flight) Elapsed() time.Duration { return f.elapsed }

// Path copies the waypoints as currently bent by tracking.
func (f *Flight) Path() FlightPath { return f.path.Clone() }

// Retarget changes the point a tracking flight steers toward.
func (f *Flight) Retarget(target mgl64.Vec3) { f.target = target }

func (f *Flight) impact() {
	f.impacted = true
	if len(f.path) > 0 {
		f.position = f.path[len(f.path)-1]
	}
}

// Step advances the flight by dt. Returns true once the projectile has impacted.
func (f *Flight) Step(dt time.Duration) bool {
	if f.impacted {
		return true
	}
	secs := dt.Seconds()
	f.elapsed += dt

	if f.projectile.Archetype.Tracking {
		f.track(secs)
	}

	if f.index >= len(f.path)-1 {
		f.impact()
		return true
	}

	f.progress += secs * f.projectile.Archetype.FlightSpeed
	for f.progress >= 1 {
		f.index++
		f.progress -= 1
		if f.index >= len(f.path)-1 {
			f.impact()
			return true
		}
	}
	f.position = lerp(f.path[f.index], f.path[f.index+1], f.progress)
	return false
}

// track bends the next waypoint toward the target. Interior waypoints are
// rotated keeping their distance; the final waypoint slides toward the target.
func (f *Flight) track(secs float64) {
	next := f.index + 1
	if next >= len(f.path) {
		return
	}
	k := clamp01(f.TrackingStrength * secs)
	if next == len(f.path)-1 {
		f.path[next] = lerp(f.path[next], f.target, k)
		return
	}

	seg := f.path[next].Sub(f.position)
	toTarget := f.target.Sub(f.position)
	segLen, targetLen := seg.Len(), toTarget.Len()
	if segLen < 1e-9 || targetLen < 1e-9 {
		return
	}
	dir := lerp(seg.Mul(1/segLen), toTarget.Mul(1/targetLen), k)
	if dir.Len() < 1e-9 {
		return
	}
	f.path[next] = f.position.Add(dir.Normalize().Mul(segLen))
}

// Simulate steps the flight with a fixed dt until impact or maxTicks.
// Returns the final position and the ticks taken.
func (f *Flight) Simulate(dt time.Duration, maxTicks int) (mgl64.Vec3, int) {
	ticks := 0
	for !f.impacted && ticks < maxTicks {
		f.Step(dt)
		ticks++
	}
	return f.position, ticks
}
