package game

import "testing"

func TestGrid_Distance(t *testing.T) {
	g := NewGrid(10, 10, 1)
	if got := g.Distance(Cell{0, 0}, Cell{3, 4}); got != 7 {
		t.Errorf("manhattan distance: got %.0f, want 7", got)
	}
	if got := EuclideanDistance(Cell{0, 0}, Cell{3, 4}); !near(got, 5) {
		t.Errorf("euclidean distance: got %.3f, want 5", got)
	}
}

func TestGrid_CellsWithinRadius(t *testing.T) {
	g := NewGrid(10, 10, 1)
	cases := []struct {
		name   string
		center Cell
		radius float64
		want   int
	}{
		{"zero radius", Cell{5, 5}, 0, 1},
		{"plus shape", Cell{5, 5}, 1, 5},
		{"square", Cell{5, 5}, 1.5, 9},
		{"radius two", Cell{5, 5}, 2, 13},
		{"clipped at corner", Cell{0, 0}, 1, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.CellsWithinRadius(tc.center, tc.radius); len(got) != tc.want {
				t.Errorf("got %d cells %v, want %d", len(got), got, tc.want)
			}
		})
	}
}

func TestGrid_LineOfSight(t *testing.T) {
	g := NewGrid(10, 10, 1)
	g.SetType(Cell{2, 0}, SectorObstacle)

	if HasLineOfSight(g, Cell{0, 0}, Cell{4, 0}) {
		t.Error("obstacle at (2,0) should block (0,0) -> (4,0)")
	}
	if !HasLineOfSight(g, Cell{0, 0}, Cell{2, 0}) {
		t.Error("the target cell itself must not block")
	}
	if !HasLineOfSight(g, Cell{0, 1}, Cell{4, 1}) {
		t.Error("clear row reported blocked")
	}
	if g.IsTraversable(Cell{-1, 0}) {
		t.Error("out-of-bounds cell reported traversable")
	}
}

func TestLine_Endpoints(t *testing.T) {
	line := Line(Cell{0, 0}, Cell{3, 0})
	if len(line) != 4 || line[0] != (Cell{0, 0}) || line[3] != (Cell{3, 0}) {
		t.Errorf("line %v", line)
	}
	diag := Line(Cell{4, 4}, Cell{0, 0})
	if len(diag) != 5 || diag[4] != (Cell{0, 0}) {
		t.Errorf("diagonal %v", diag)
	}
}

func TestGrid_ApplyDamageCover(t *testing.T) {
	g := NewGrid(4, 4, 1)
	g.SetType(Cell{1, 1}, SectorCover)

	if got := g.ApplyDamage(Cell{1, 1}, 10, false); !near(got, 8) {
		t.Errorf("cover absorbed wrong share: %.2f", got)
	}
	if got := g.ApplyDamage(Cell{1, 1}, 10, true); !near(got, 10) {
		t.Errorf("piercing damage reduced: %.2f", got)
	}
	if integrity, _ := g.Integrity(Cell{1, 1}); !near(integrity, 82) {
		t.Errorf("integrity %.2f, want 82", integrity)
	}
	g.ApplyDamage(Cell{1, 1}, 500, true)
	if s, _ := g.Sector(Cell{1, 1}); !s.Destroyed() || s.Integrity != 0 {
		t.Errorf("sector should be destroyed at zero integrity: %+v", s)
	}
}

func TestGridWorldRoundTrip(t *testing.T) {
	for _, c := range []Cell{{0, 0}, {3, 7}, {9, 2}} {
		if got := WorldToGrid(GridToWorld(c, 2.5), 2.5); got != c {
			t.Errorf("%s -> %s", c, got)
		}
	}
}
