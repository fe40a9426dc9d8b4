/*
Package game
File: pathquality.go
Description:
    Flight paths and their quality score. A path's quality blends
    efficiency (straight-line distance over travelled arc length) with
    smoothness (how little it turns at each waypoint). The evaluator is
    pure and cheap: the drawing UI calls it on every accepted point and the
    engine once more at commit time.
*/

package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	efficiencyWeight = 0.6
	smoothnessWeight = 0.4

	// minArcLength floors the efficiency denominator for degenerate paths.
	minArcLength = 0.1
)

// FlightPath is an ordered waypoint sequence: first point is the launch
// origin, last point the impact target.
type FlightPath []mgl64.Vec3

// Clone returns an independent copy; paths are never shared between shots.
func (p FlightPath) Clone() FlightPath {
	if p == nil {
		return nil
	}
	return append(FlightPath(nil), p...)
}

// Reversed returns a copy with the waypoints in reverse order.
func (p FlightPath) Reversed() FlightPath {
	out := make(FlightPath, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// ArcLength is the summed length of every segment.
func (p FlightPath) ArcLength() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].Sub(p[i-1]).Len()
	}
	return total
}

// DirectDistance is the straight-line distance between first and last point.
func (p FlightPath) DirectDistance() float64 {
	if len(p) < 2 {
		return 0
	}
	return p[len(p)-1].Sub(p[0]).Len()
}

// ValidatePath rejects paths with fewer than two points.
func ValidatePath(p FlightPath) error {
	if len(p) < 2 {
		return ErrDegeneratePath
	}
	return nil
}

// EvaluatePath scores p in [0,1]: 0.6*efficiency + 0.4*smoothness.
// Degenerate paths score 0.
func EvaluatePath(p FlightPath) float64 {
	if len(p) < 2 {
		return 0
	}
	return clamp01(efficiencyWeight*PathEfficiency(p) + smoothnessWeight*PathSmoothness(p))
}

// PathEfficiency is direct distance over arc length, floored at minArcLength.
func PathEfficiency(p FlightPath) float64 {
	if len(p) < 2 {
		return 0
	}
	return p.DirectDistance() / math.Max(p.ArcLength(), minArcLength)
}

// PathSmoothness maps the mean turn angle at interior waypoints from
// [0,180] degrees onto [1,0]. Paths without interior points are perfectly smooth.
func PathSmoothness(p FlightPath) float64 {
	if len(p) < 3 {
		return 1
	}
	total := 0.0
	for i := 1; i < len(p)-1; i++ {
		total += turnAngle(p[i].Sub(p[i-1]), p[i+1].Sub(p[i]))
	}
	avg := total / float64(len(p)-2)
	return clamp01(1 - avg/180)
}

// turnAngle is the angle in degrees between two direction vectors. A
// zero-length segment has no direction and counts as no turn.
func turnAngle(in, out mgl64.Vec3) float64 {
	li, lo := in.Len(), out.Len()
	if li < 1e-9 || lo < 1e-9 {
		return 0
	}
	cos := in.Dot(out) / (li * lo)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// lerp interpolates between a and b.
func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
