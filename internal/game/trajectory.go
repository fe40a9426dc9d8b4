/*
Package game
File: trajectory.go
Description:
    Default flight-path synthesis. Each projectile kind has one profile: how
    many interior waypoints to sample along the origin -> target line and how
    far to lift each of them. Waypoint i of n sits at t = i/(n+1), so a
    single beam sample lands on the midpoint.
*/

package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// pathProfile is the generation rule for one kind.
type pathProfile struct {
	samples int
	lift    func(a *Archetype, t float64) float64
}

func noLift(*Archetype, float64) float64 { return 0 }

// profileFor resolves the generation rule for k. Custom and unknown kinds use
// the artillery arc.
func profileFor(k Kind) pathProfile {
	switch k {
	case KindBallistic:
		return pathProfile{samples: 10, lift: func(a *Archetype, t float64) float64 {
			return a.HeightCurve.Evaluate(t) * 5
		}}
	case KindBeam:
		return pathProfile{samples: 1, lift: noLift}
	case KindMissile:
		return pathProfile{samples: 8, lift: func(_ *Archetype, t float64) float64 {
			return math.Sin(t*math.Pi) * 2
		}}
	case KindArtillery, KindCustom:
		fallthrough
	default:
		return pathProfile{samples: 15, lift: func(a *Archetype, t float64) float64 {
			return a.HeightCurve.Evaluate(t) * 10
		}}
	}
}

// GenerateFlightPath returns the default path of archetype a from origin to target.
func GenerateFlightPath(a *Archetype, origin, target mgl64.Vec3) FlightPath {
	prof := profileFor(a.Kind)
	path := make(FlightPath, 0, prof.samples+2)
	path = append(path, origin)
	for i := 1; i <= prof.samples; i++ {
		t := float64(i) / float64(prof.samples+1)
		p := lerp(origin, target, t)
		p[1] += prof.lift(a, t)
		path = append(path, p)
	}
	return append(path, target)
}
