/*
Package game
File: drawer.go
Description:
    Freehand path drawing. A PathDrawer accepts points while the pointer
    moves, thins them by spacing and caps their count, then hands back a
    FlightPath, optionally smoothed, for PlanAction.
*/

package game

import "github.com/go-gl/mathgl/mgl64"

// PathDrawer collects a hand-drawn flight path. Points closer than the
// minimum spacing to the last accepted point, or beyond the point cap, are
// dropped silently.
type PathDrawer struct {
	cfg     DrawingConfig
	points  FlightPath
	start   mgl64.Vec3
	end     mgl64.Vec3
	drawing bool
}

// NewPathDrawer uses cfg as loaded; zero fields fall back to the defaults.
func NewPathDrawer(cfg DrawingConfig) *PathDrawer {
	if cfg.MinPointDistance <= 0 {
		cfg.MinPointDistance = defaultMinPointDistance
	}
	if cfg.MaxPathPoints <= 0 {
		cfg.MaxPathPoints = defaultMaxPathPoints
	}
	if cfg.AutoSmooth == nil {
		on := true
		cfg.AutoSmooth = &on
	}
	return &PathDrawer{cfg: cfg}
}

// Start begins a new path at start aimed at end.
func (d *PathDrawer) Start(start, end mgl64.Vec3) {
	d.start = start
	d.end = end
	d.drawing = true
	d.points = FlightPath{start}
}

// AddPoint offers a candidate point. Returns true if it was accepted.
func (d *PathDrawer) AddPoint(p mgl64.Vec3) bool {
	if !d.drawing {
		return false
	}
	if n := len(d.points); n > 0 && d.points[n-1].Sub(p).Len() < d.cfg.MinPointDistance {
		return false
	}
	if len(d.points) >= d.cfg.MaxPathPoints {
		return false
	}
	d.points = append(d.points, p)
	return true
}

// Drawing reports whether a path is in progress.
func (d *PathDrawer) Drawing() bool { return d.drawing }

// Points returns a copy of the accepted points.
func (d *PathDrawer) Points() FlightPath { return d.points.Clone() }

// Quality is the live score of the points drawn so far.
func (d *PathDrawer) Quality() float64 { return EvaluatePath(d.points) }

// Finish closes the path on the intended target, applies the optional
// smoothing pass and returns it. Returns nil when nothing is being drawn.
func (d *PathDrawer) Finish() FlightPath {
	if !d.drawing {
		return nil
	}
	d.drawing = false

	path := d.points
	if len(path) == 0 {
		path = FlightPath{d.start}
	}
	if path[len(path)-1] != d.end {
		path = append(path, d.end)
	}
	if *d.cfg.AutoSmooth {
		path = SmoothPath(path, d.cfg.SmoothingFactor)
	}
	d.points = nil
	return path
}

// Cancel discards the path in progress.
func (d *PathDrawer) Cancel() {
	d.drawing = false
	d.points = nil
}

// SmoothPath runs one Laplacian pass: every interior point becomes
// point*(1-2k) + prev*k + next*k. The first and last points are pinned.
func SmoothPath(path FlightPath, k float64) FlightPath {
	if len(path) <= 2 {
		return path.Clone()
	}
	out := make(FlightPath, len(path))
	out[0] = path[0]
	for i := 1; i < len(path)-1; i++ {
		out[i] = path[i].Mul(1 - 2*k).Add(path[i-1].Mul(k)).Add(path[i+1].Mul(k))
	}
	out[len(path)-1] = path[len(path)-1]
	return out
}
