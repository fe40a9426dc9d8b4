/*
Package game
File: events.go
Description:
    Engine notifications. Observers subscribe to a Notifier and hear about
    every planned action, phase change and resolved impact in the order the
    controller produces them.
*/

package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Impact is the outcome of one shot on one sector. A miss produces a single
// Impact on the target with zero damage; a hit produces one per sector in the
// area of effect.
type Impact struct {
	Turn      int     `json:"turn"`
	ActionID  int     `json:"action_id"`
	Archetype string  `json:"archetype"`
	Cell      Cell    `json:"cell"`
	Epicenter Cell    `json:"epicenter"`
	Damage    float64 `json:"damage"`
	Hit       bool    `json:"hit"`
	Critical  bool    `json:"critical"`
	HitChance float64 `json:"hit_chance"`
	Blocked   bool    `json:"blocked,omitempty"` // Missed for lack of line of sight

	// Where the simulated flight ended and how long it flew. Beams arrive
	// on launch with zero flight time.
	ImpactPoint mgl64.Vec3    `json:"impact_point"`
	FlightTime  time.Duration `json:"flight_time"`
}

// Observer receives the engine's notifications. Subscribers must not call
// back into the controller from a callback.
type Observer interface {
	OnActionPlanned(plan ActionPlan)
	OnTurnPhaseChanged(phase Phase, turn int)
	OnImpactResolved(impact Impact)
}

// Notifier fans notifications out to its subscribers in subscription order.
// The engine works the same with zero subscribers.
type Notifier struct {
	observers []Observer
}

// Subscribe appends o; nil is ignored.
func (n *Notifier) Subscribe(o Observer) {
	if o == nil {
		return
	}
	n.observers = append(n.observers, o)
}

// Unsubscribe removes the first registration of o.
func (n *Notifier) Unsubscribe(o Observer) {
	for i, existing := range n.observers {
		if existing == o {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

func (n *Notifier) actionPlanned(p *ActionPlan) {
	for _, o := range n.observers {
		o.OnActionPlanned(p.clone())
	}
}

func (n *Notifier) phaseChanged(phase Phase, turn int) {
	for _, o := range n.observers {
		o.OnTurnPhaseChanged(phase, turn)
	}
}

func (n *Notifier) impactResolved(i Impact) {
	for _, o := range n.observers {
		o.OnImpactResolved(i)
	}
}
