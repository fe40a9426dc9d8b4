/*
Package game
File: config.go
Description:
    Loads 'sector.yaml' into a Config, applies defaults and validates the
    archetype invariants. A file that violates any invariant is rejected
    whole; nothing partially loaded ever reaches a controller.
*/

package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when 'sector.yaml' leaves a field empty.
const (
	defaultMaxTurns         = 10
	defaultSectorSize       = 1.0
	defaultMinPointDistance = 0.5
	defaultMaxPathPoints    = 20
	defaultSmoothingFactor  = 0.3
)

// LoadConfig reads the YAML file at path and returns the validated configuration.
func LoadConfig(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(f)
}

// ParseConfig unmarshals, defaults and validates a configuration document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pacing == nil {
		p := DefaultPacing
		c.Pacing = &p
	}

	if c.Drawing.MinPointDistance == 0 {
		c.Drawing.MinPointDistance = defaultMinPointDistance
	}
	if c.Drawing.MaxPathPoints == 0 {
		c.Drawing.MaxPathPoints = defaultMaxPathPoints
	}
	if c.Drawing.SmoothingFactor == 0 {
		c.Drawing.SmoothingFactor = defaultSmoothingFactor
	}
	if c.Drawing.AutoSmooth == nil {
		on := true
		c.Drawing.AutoSmooth = &on
	}

	for i := range c.Arsenal {
		c.Arsenal[i].HeightCurve = c.Arsenal[i].HeightCurve.sorted()
	}
	for i := range c.Maps {
		m := &c.Maps[i]
		if m.SectorSize == 0 {
			m.SectorSize = defaultSectorSize
		}
		if m.SectorIntegrity == 0 {
			m.SectorIntegrity = defaultSectorIntegrity
		}
	}
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if s.MaxTurns == 0 {
			s.MaxTurns = defaultMaxTurns
		}
		if s.MaxEnergy == 0 {
			s.MaxEnergy = defaultMaxEnergy
		}
		if s.MaxMaterials == 0 {
			s.MaxMaterials = defaultMaxMaterials
		}
		if s.Victory == VictoryMinimumObjectives && s.RequiredObjectives == 0 {
			s.RequiredObjectives = 1
		}
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for _, a := range c.Arsenal {
		if a.Key == "" {
			return fmt.Errorf("archetype %q: missing key", a.Name)
		}
		if seen[a.Key] {
			return fmt.Errorf("archetype %q: duplicate key", a.Key)
		}
		seen[a.Key] = true

		switch {
		case a.BaseAccuracy < 0 || a.BaseAccuracy > 1:
			return fmt.Errorf("archetype %q: base_accuracy %.2f outside [0,1]", a.Key, a.BaseAccuracy)
		case a.CriticalChance < 0 || a.CriticalChance > 1:
			return fmt.Errorf("archetype %q: critical_chance %.2f outside [0,1]", a.Key, a.CriticalChance)
		case a.Range <= 0:
			return fmt.Errorf("archetype %q: range must be > 0", a.Key)
		case a.FlightSpeed <= 0:
			return fmt.Errorf("archetype %q: flight_speed must be > 0", a.Key)
		case a.AreaOfEffect < 0:
			return fmt.Errorf("archetype %q: area_of_effect must be >= 0", a.Key)
		case a.EnergyCost < 0 || a.MaterialCost < 0:
			return fmt.Errorf("archetype %q: costs must be >= 0", a.Key)
		case a.BaseDamage < 0:
			return fmt.Errorf("archetype %q: base_damage must be >= 0", a.Key)
		}
	}

	for _, m := range c.Maps {
		if m.Width <= 0 || m.Height <= 0 {
			return fmt.Errorf("map %q: width and height must be > 0", m.Key)
		}
		if m.SectorSize < 0 {
			return fmt.Errorf("map %q: sector_size must be > 0", m.Key)
		}
	}

	for _, s := range c.Scenarios {
		if s.Map != "" && c.MapLayout(s.Map) == nil {
			return fmt.Errorf("scenario %q: unknown map %q", s.Key, s.Map)
		}
		for _, key := range s.Projectiles {
			if !seen[key] {
				return fmt.Errorf("scenario %q: unknown projectile %q", s.Key, key)
			}
		}
		if s.MaxTurns < 0 {
			return fmt.Errorf("scenario %q: max_turns must be >= 0", s.Key)
		}
	}
	return nil
}

// Archetype is a helper to retrieve an Archetype pointer by its Key.
// Returns nil if not found.
func (c *Config) Archetype(key string) *Archetype {
	for i := range c.Arsenal {
		if c.Arsenal[i].Key == key {
			return &c.Arsenal[i]
		}
	}
	return nil
}

// MapLayout is a helper to retrieve a MapLayout pointer by its Key.
func (c *Config) MapLayout(key string) *MapLayout {
	for i := range c.Maps {
		if c.Maps[i].Key == key {
			return &c.Maps[i]
		}
	}
	return nil
}

// Scenario is a helper to retrieve a Scenario pointer by its Key.
func (c *Config) Scenario(key string) *Scenario {
	for i := range c.Scenarios {
		if c.Scenarios[i].Key == key {
			return &c.Scenarios[i]
		}
	}
	return nil
}
