package game

import (
	"errors"
	"testing"
)

func TestLedger_ReserveAllOrNothing(t *testing.T) {
	l := ResourceLedger{Energy: 100, Materials: 50, MaxEnergy: 200, MaxMaterials: 100}

	if err := l.reserve(Cost{Energy: 15, Materials: 10}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if l.Energy != 85 || l.Materials != 40 {
		t.Fatalf("after reserve: %d/%d, want 85/40", l.Energy, l.Materials)
	}

	if err := l.reserve(Cost{Energy: 90}); !errors.Is(err, ErrInsufficientEnergy) {
		t.Errorf("expected ErrInsufficientEnergy, got %v", err)
	}
	if err := l.reserve(Cost{Energy: 10, Materials: 41}); !errors.Is(err, ErrInsufficientMaterials) {
		t.Errorf("expected ErrInsufficientMaterials, got %v", err)
	}
	if err := l.reserve(Cost{Energy: 90, Materials: 90}); !errors.Is(err, ErrInsufficientEnergy) {
		t.Errorf("energy is checked first, got %v", err)
	}
	if l.Energy != 85 || l.Materials != 40 {
		t.Errorf("failed reserves changed the ledger: %d/%d", l.Energy, l.Materials)
	}
}

func TestLedger_RefundIsExact(t *testing.T) {
	l := ResourceLedger{Energy: 100, Materials: 50, MaxEnergy: 100, MaxMaterials: 50}
	c := Cost{Energy: 30, Materials: 20}
	if err := l.reserve(c); err != nil {
		t.Fatal(err)
	}
	l.refund(c)
	if l.Energy != 100 || l.Materials != 50 {
		t.Errorf("commit+cancel is not a no-op: %d/%d", l.Energy, l.Materials)
	}
}

func TestLedger_ReplenishClamps(t *testing.T) {
	l := ResourceLedger{Energy: 190, Materials: 5, MaxEnergy: 200, MaxMaterials: 100}
	l.replenish(20, 10)
	if l.Energy != 200 || l.Materials != 15 {
		t.Errorf("got %d/%d, want 200/15", l.Energy, l.Materials)
	}
	l.replenish(-500, -500)
	if l.Energy != 0 || l.Materials != 0 {
		t.Errorf("negative income must floor at zero, got %d/%d", l.Energy, l.Materials)
	}
}

func TestNewLedger_Defaults(t *testing.T) {
	l := newLedger(&Scenario{StartingEnergy: -5, StartingMaterials: 20})
	if l.Energy != 0 || l.Materials != 20 {
		t.Errorf("starting values %d/%d", l.Energy, l.Materials)
	}
	if l.MaxEnergy != defaultMaxEnergy || l.MaxMaterials != defaultMaxMaterials {
		t.Errorf("caps %d/%d", l.MaxEnergy, l.MaxMaterials)
	}
}
