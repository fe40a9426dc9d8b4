package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFlight_BeamImpactsOnLaunch(t *testing.T) {
	a := &Archetype{Kind: KindBeam, FlightSpeed: 1}
	target := mgl64.Vec3{6, 0, 2}
	f := NewProjectile(a, mgl64.Vec3{}, target).Launch()

	if !f.Impacted() {
		t.Fatal("beam should impact on launch")
	}
	if f.Position() != target {
		t.Errorf("beam at %v, want %v", f.Position(), target)
	}
}

func TestFlight_ReachesTarget(t *testing.T) {
	a := &Archetype{Kind: KindBallistic, FlightSpeed: 5, HeightCurve: arc}
	target := mgl64.Vec3{10, 0, 0}
	f := NewProjectile(a, mgl64.Vec3{}, target).Launch()

	if f.Impacted() {
		t.Fatal("ballistic shell impacted on launch")
	}
	pos, ticks := f.Simulate(simulationStep, maxSimulationTicks)
	if !f.Impacted() {
		t.Fatalf("no impact after %d ticks", ticks)
	}
	if pos != target {
		t.Errorf("impact at %v, want %v", pos, target)
	}
	// 11 segments at 5 segments/s is a little over two seconds.
	if f.Elapsed().Seconds() < 2 || f.Elapsed().Seconds() > 2.5 {
		t.Errorf("flight time %v", f.Elapsed())
	}
}

func TestFlight_TrackingFollowsRetarget(t *testing.T) {
	a := &Archetype{Kind: KindMissile, FlightSpeed: 2, Tracking: true}
	f := NewProjectile(a, mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}).Launch()
	f.Retarget(mgl64.Vec3{10, 0, 10})

	pos, _ := f.Simulate(simulationStep, maxSimulationTicks)
	if !f.Impacted() {
		t.Fatal("missile never impacted")
	}
	if pos.Z() <= 0 {
		t.Errorf("tracking missile ignored the new target, impact at %v", pos)
	}
}

func TestProjectile_CustomPathPolicy(t *testing.T) {
	drawn := FlightPath{{0, 0, 0}, {3, 2, 0}, {10, 0, 0}}

	fixed := NewProjectile(&Archetype{Kind: KindBallistic, FlightSpeed: 1}, mgl64.Vec3{}, mgl64.Vec3{10, 0, 0})
	if fixed.ApplyCustomPath(drawn) {
		t.Error("archetype without custom paths accepted one")
	}
	if fixed.PathQuality != 1 || fixed.CustomPath {
		t.Errorf("rejected path changed the projectile: %+v", fixed)
	}

	free := NewProjectile(&Archetype{Kind: KindCustom, FlightSpeed: 1, AllowsCustomPath: true}, mgl64.Vec3{}, mgl64.Vec3{10, 0, 0})
	if free.ApplyCustomPath(FlightPath{{0, 0, 0}}) {
		t.Error("single-point path accepted")
	}
	if !free.ApplyCustomPath(drawn) {
		t.Fatal("custom path rejected")
	}
	if !near(free.PathQuality, EvaluatePath(drawn)) {
		t.Errorf("quality %.4f, want %.4f", free.PathQuality, EvaluatePath(drawn))
	}
	drawn[1] = mgl64.Vec3{}
	if free.Path[1] == (mgl64.Vec3{}) {
		t.Error("projectile aliases the caller's path")
	}
}
