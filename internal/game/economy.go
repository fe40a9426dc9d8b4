/*
Package game
File: economy.go
Description:
    The resource ledger. Only two forces move it: turn replenishment
    (additive, clamped to the scenario caps) and plan commit/cancel
    (subtractive/additive, exact). A reservation is check-then-deduct:
    either both resources are covered and both are deducted, or nothing
    changes. Values never go negative.
*/

package game

const (
	defaultMaxEnergy    = 200
	defaultMaxMaterials = 100
)

// Cost is a pair of resource amounts.
type Cost struct {
	Energy    int `json:"energy"`
	Materials int `json:"materials"`
}

// Total is the combined figure (energy + materials).
func (c Cost) Total() int { return c.Energy + c.Materials }

// ResourceLedger tracks the player's spendable resources.
// Only the Controller writes to it; everything else receives copies.
type ResourceLedger struct {
	Energy       int `json:"energy"`
	Materials    int `json:"materials"`
	MaxEnergy    int `json:"max_energy"`
	MaxMaterials int `json:"max_materials"`
}

func newLedger(s *Scenario) ResourceLedger {
	l := ResourceLedger{
		Energy:       max(0, s.StartingEnergy),
		Materials:    max(0, s.StartingMaterials),
		MaxEnergy:    s.MaxEnergy,
		MaxMaterials: s.MaxMaterials,
	}
	if l.MaxEnergy <= 0 {
		l.MaxEnergy = defaultMaxEnergy
	}
	if l.MaxMaterials <= 0 {
		l.MaxMaterials = defaultMaxMaterials
	}
	return l
}

// Covers reports the first resource that cannot pay for c.
func (l ResourceLedger) Covers(c Cost) error {
	if l.Energy < c.Energy {
		return ErrInsufficientEnergy
	}
	if l.Materials < c.Materials {
		return ErrInsufficientMaterials
	}
	return nil
}

// replenish adds the per-turn income, clamped to [0, cap].
func (l *ResourceLedger) replenish(energy, materials int) {
	l.Energy = clampInt(l.Energy+energy, 0, l.MaxEnergy)
	l.Materials = clampInt(l.Materials+materials, 0, l.MaxMaterials)
}

// reserve deducts c only if both resources cover it.
func (l *ResourceLedger) reserve(c Cost) error {
	if err := l.Covers(c); err != nil {
		return err
	}
	l.Energy -= c.Energy
	l.Materials -= c.Materials
	return nil
}

// refund returns a previous reservation exactly; caps are not applied so a
// commit followed by a cancel is a no-op.
func (l *ResourceLedger) refund(c Cost) {
	l.Energy += c.Energy
	l.Materials += c.Materials
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
