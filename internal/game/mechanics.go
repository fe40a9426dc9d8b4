/*
Package game
File: mechanics.go
Description:
    The rules engine for shots: the accuracy model, the resolution-time hit
    chance, the hit/critical rolls and the area-of-effect damage falloff.
    Everything here is a pure function of its inputs (the rolls take an
    explicit *rand.Rand).
*/

package game

import (
	"math"
	"math/rand"
)

const (
	// pathBonusWeight caps what a drawn path can add to accuracy.
	pathBonusWeight = 0.2

	// Tracking archetypes get this on top at resolution time, up to trackingHitCap.
	trackingBonus  = 0.15
	trackingHitCap = 0.95

	criticalMultiplier = 1.5
)

// Accuracy is the displayed hit probability of a shot.
// Formula: clamp01(baseAccuracy * clamp01(1 - distance/range) + pathBonus)
// where pathBonus = pathQuality * 0.2 for archetypes that accept custom paths.
func Accuracy(a *Archetype, distance, pathQuality float64) float64 {
	distancePenalty := 0.0
	if a.Range > 0 {
		distancePenalty = clamp01(1 - distance/a.Range)
	}
	pathBonus := 0.0
	if a.AllowsCustomPath {
		pathBonus = pathQuality * pathBonusWeight
	}
	return clamp01(a.BaseAccuracy*distancePenalty + pathBonus)
}

// HitChance is the probability used at impact. It differs from Accuracy only
// for tracking archetypes.
func HitChance(a *Archetype, distance, pathQuality float64) float64 {
	chance := Accuracy(a, distance, pathQuality)
	if a.Tracking {
		chance = math.Min(chance+trackingBonus, trackingHitCap)
	}
	return chance
}

// RollHit draws one uniform value in [0,1) and hits when it is <= chance.
func RollHit(rng *rand.Rand, chance float64) bool {
	return rng.Float64() <= chance
}

// RollCritical hits strictly below chance so a zero critical chance never fires.
func RollCritical(rng *rand.Rand, chance float64) bool {
	return rng.Float64() < chance
}

// FalloffDamage is the damage at dist sectors from the epicenter: full at the
// center, linear down to zero at the area-of-effect boundary. With no area of
// effect only the epicenter is hit.
func FalloffDamage(baseDamage, areaOfEffect, dist float64) float64 {
	if areaOfEffect <= 0 {
		if dist == 0 {
			return baseDamage
		}
		return 0
	}
	return baseDamage * math.Max(0, 1-dist/areaOfEffect)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
