package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var arc = Curve{{T: 0, V: 0}, {T: 0.5, V: 1}, {T: 1, V: 0}}

func TestGenerateFlightPath_PointCounts(t *testing.T) {
	origin, target := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 0, 0}
	cases := []struct {
		kind Kind
		want int
	}{
		{KindBallistic, 12},
		{KindBeam, 3},
		{KindMissile, 10},
		{KindArtillery, 17},
		{KindCustom, 17},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			a := &Archetype{Kind: tc.kind, HeightCurve: arc}
			p := GenerateFlightPath(a, origin, target)
			if len(p) != tc.want {
				t.Fatalf("got %d points, want %d", len(p), tc.want)
			}
			if p[0] != origin || p[len(p)-1] != target {
				t.Errorf("endpoints %v .. %v, want %v .. %v", p[0], p[len(p)-1], origin, target)
			}
		})
	}
}

func TestGenerateFlightPath_BeamMidpoint(t *testing.T) {
	a := &Archetype{Kind: KindBeam}
	p := GenerateFlightPath(a, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 0, 8})
	if !p[1].ApproxEqual(mgl64.Vec3{2, 0, 4}) {
		t.Errorf("beam sample %v, want midpoint", p[1])
	}
}

func TestGenerateFlightPath_Lift(t *testing.T) {
	origin, target := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 0, 0}

	ballistic := GenerateFlightPath(&Archetype{Kind: KindBallistic, HeightCurve: arc}, origin, target)
	for i, p := range ballistic[1 : len(ballistic)-1] {
		tt := float64(i+1) / 11
		if want := arc.Evaluate(tt) * 5; !near(p.Y(), want) {
			t.Errorf("ballistic sample %d: y=%.4f want %.4f", i+1, p.Y(), want)
		}
	}

	missile := GenerateFlightPath(&Archetype{Kind: KindMissile}, origin, target)
	if want := math.Sin(math.Pi/9) * 2; !near(missile[1].Y(), want) {
		t.Errorf("missile first sample: y=%.4f want %.4f", missile[1].Y(), want)
	}
}

func TestCurve_Evaluate(t *testing.T) {
	if got := (Curve{}).Evaluate(0.3); !near(got, 0.3) {
		t.Errorf("empty curve should be identity, got %.3f", got)
	}
	if got := arc.Evaluate(0.25); !near(got, 0.5) {
		t.Errorf("arc(0.25) = %.3f, want 0.5", got)
	}
	if got := arc.Evaluate(2); !near(got, 0) {
		t.Errorf("arc past end = %.3f, want 0", got)
	}
}
