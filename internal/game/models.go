/*
Package game
File: models.go
Description:
    Defines the static data structures of Sector Command: projectile
    archetypes, height curves, map layouts, scenarios and the root
    configuration record. These map directly to 'sector.yaml' and to the
    JSON API responses.

    Records are built once at load time and never mutated afterwards.
    Archetypes are shared by pointer across every action that fires them.
*/

package game

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind selects the flight-path rules of an archetype.
type Kind int

const (
	KindBallistic Kind = iota
	KindBeam
	KindMissile
	KindArtillery
	KindCustom
)

var kindNames = [...]string{"ballistic", "beam", "missile", "artillery", "custom"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind accepts the lower-case kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown projectile kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// CurveKey is one keyframe of a height curve.
type CurveKey struct {
	T float64 `yaml:"t" json:"t"` // Progress along the flight, 0..1
	V float64 `yaml:"v" json:"v"` // Height factor at that progress
}

// Curve is a piecewise-linear height-over-progress curve. Keys must be sorted
// by T; ParseConfig sorts them. An empty curve is the identity line 0 -> 1.
type Curve []CurveKey

// Evaluate samples the curve at t, clamping t to [0,1] and holding the end
// values outside the keyed range.
func (c Curve) Evaluate(t float64) float64 {
	t = clamp01(t)
	switch len(c) {
	case 0:
		return t
	case 1:
		return c[0].V
	}
	if t <= c[0].T {
		return c[0].V
	}
	last := c[len(c)-1]
	if t >= last.T {
		return last.V
	}
	for i := 1; i < len(c); i++ {
		if t > c[i].T {
			continue
		}
		a, b := c[i-1], c[i]
		span := b.T - a.T
		if span <= 0 {
			return b.V
		}
		return a.V + (b.V-a.V)*(t-a.T)/span
	}
	return last.V
}

func (c Curve) sorted() Curve {
	out := append(Curve(nil), c...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}

// Archetype is the immutable combat and flight description of one projectile.
type Archetype struct {
	Key         string `yaml:"key" json:"key"`                 // Unique ID (e.g., "standard_missile")
	Name        string `yaml:"name" json:"name"`               // Display name
	Description string `yaml:"description" json:"description"` // Flavor text
	Kind        Kind   `yaml:"kind" json:"kind"`

	// Combat Stats
	BaseDamage   float64 `yaml:"base_damage" json:"base_damage"`
	BaseAccuracy float64 `yaml:"base_accuracy" json:"base_accuracy"`   // 0..1 at point blank
	AreaOfEffect float64 `yaml:"area_of_effect" json:"area_of_effect"` // Radius in sectors, 0 = single sector
	Range        float64 `yaml:"range" json:"range"`                   // Grid distance where accuracy reaches zero

	// Resource Costs
	EnergyCost   int `yaml:"energy_cost" json:"energy_cost"`
	MaterialCost int `yaml:"material_cost" json:"material_cost"`

	// Flight Path
	FlightSpeed      float64 `yaml:"flight_speed" json:"flight_speed"` // Path segments per second
	HeightCurve      Curve   `yaml:"height_curve" json:"height_curve"`
	AllowsCustomPath bool    `yaml:"allows_custom_path" json:"allows_custom_path"`

	// Special Properties
	Piercing       bool    `yaml:"piercing" json:"piercing"`
	Tracking       bool    `yaml:"tracking" json:"tracking"`
	CriticalChance float64 `yaml:"critical_chance" json:"critical_chance"`
}

// Cost returns the resources reserved when this archetype is committed.
func (a *Archetype) Cost() Cost {
	return Cost{Energy: a.EnergyCost, Materials: a.MaterialCost}
}

// TotalCost is energy plus materials, the figure shown next to a plan.
func (a *Archetype) TotalCost() int {
	return a.EnergyCost + a.MaterialCost
}

// TerrainEntry overrides the type of one sector of a map.
type TerrainEntry struct {
	X    int        `yaml:"x" json:"x"`
	Y    int        `yaml:"y" json:"y"`
	Type SectorType `yaml:"type" json:"type"`
}

// MapLayout describes a battlefield grid.
type MapLayout struct {
	Key             string         `yaml:"key" json:"key"`
	Name            string         `yaml:"name" json:"name"`
	Description     string         `yaml:"description" json:"description"`
	Width           int            `yaml:"width" json:"width"`
	Height          int            `yaml:"height" json:"height"`
	SectorSize      float64        `yaml:"sector_size" json:"sector_size"`           // World units per sector
	SectorIntegrity float64        `yaml:"sector_integrity" json:"sector_integrity"` // Starting integrity of every sector
	Terrain         []TerrainEntry `yaml:"terrain" json:"terrain"`
}

// Scenario is one playable setup: map, turn limit, economy and objectives.
type Scenario struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Briefing    string `yaml:"briefing" json:"briefing"`
	Difficulty  int    `yaml:"difficulty" json:"difficulty"` // 1-5 scale
	Map         string `yaml:"map" json:"map"`               // MapLayout key
	MaxTurns    int    `yaml:"max_turns" json:"max_turns"`

	// Economy
	StartingEnergy    int `yaml:"starting_energy" json:"starting_energy"`
	StartingMaterials int `yaml:"starting_materials" json:"starting_materials"`
	EnergyPerTurn     int `yaml:"energy_per_turn" json:"energy_per_turn"`
	MaterialsPerTurn  int `yaml:"materials_per_turn" json:"materials_per_turn"`
	MaxEnergy         int `yaml:"max_energy" json:"max_energy"`
	MaxMaterials      int `yaml:"max_materials" json:"max_materials"`

	Projectiles        []string         `yaml:"projectiles" json:"projectiles"` // Archetype keys usable here
	Objectives         []ObjectiveDef   `yaml:"objectives" json:"objectives"`
	Victory            VictoryCondition `yaml:"victory_condition" json:"victory_condition"`
	RequiredObjectives int              `yaml:"required_objectives" json:"required_objectives"`

	// LineOfSight makes blocked beam shots miss outright.
	LineOfSight bool `yaml:"line_of_sight" json:"line_of_sight"`
}

// Pacing holds the presentation delays of the execution phase. All zero is
// the headless setting.
type Pacing struct {
	ActionDelay  time.Duration `yaml:"action_delay" json:"action_delay"`   // After each resolved action
	FinalDelay   time.Duration `yaml:"final_delay" json:"final_delay"`     // Before entering Results
	ResultsDelay time.Duration `yaml:"results_delay" json:"results_delay"` // Results auto-advance
}

// DefaultPacing matches the live client.
var DefaultPacing = Pacing{
	ActionDelay:  1500 * time.Millisecond,
	FinalDelay:   time.Second,
	ResultsDelay: 3 * time.Second,
}

// DrawingConfig tunes the interactive path drawing policy.
type DrawingConfig struct {
	MinPointDistance float64 `yaml:"min_point_distance" json:"min_point_distance"`
	MaxPathPoints    int     `yaml:"max_path_points" json:"max_path_points"`
	SmoothingFactor  float64 `yaml:"smoothing_factor" json:"smoothing_factor"`
	AutoSmooth       *bool   `yaml:"auto_smooth" json:"auto_smooth"`
}

// Config is the root configuration struct, mapping to the entire 'sector.yaml' file.
type Config struct {
	Arsenal   []Archetype   `yaml:"arsenal"`
	Maps      []MapLayout   `yaml:"maps"`
	Scenarios []Scenario    `yaml:"scenarios"`
	Pacing    *Pacing       `yaml:"pacing"`
	Drawing   DrawingConfig `yaml:"drawing"`
}
