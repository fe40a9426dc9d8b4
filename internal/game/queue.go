/*
Package game
File: queue.go
Description:
    The action queue. Plans are appended in Planning, the last one can be
    cancelled for a full refund, and execution pops them oldest first.
*/

package game

// ActionPlan is a committed, resource-reserved intent to fire one archetype
// from one cell at another.
type ActionPlan struct {
	ID                int        `json:"id"`
	Turn              int        `json:"turn"`
	Origin            Cell       `json:"origin"`
	Target            Cell       `json:"target"`
	Archetype         *Archetype `json:"-"`
	ArchetypeKey      string     `json:"archetype"`
	CustomPath        FlightPath `json:"custom_path,omitempty"`
	PathQuality       float64    `json:"path_quality"`
	EstimatedAccuracy float64    `json:"estimated_accuracy"`
	Reserved          Cost       `json:"reserved"`
	ReservedCost      int        `json:"reserved_cost"` // Reserved.Total()
}

// clone copies the plan including its path so observers cannot alias it.
func (p *ActionPlan) clone() ActionPlan {
	c := *p
	c.CustomPath = p.CustomPath.Clone()
	return c
}

// ActionQueue keeps committed plans in commit order, which is also
// resolution order.
type ActionQueue struct {
	plans []*ActionPlan
}

func (q *ActionQueue) Len() int { return len(q.plans) }

// Plans returns copies of the queued plans, oldest first.
func (q *ActionQueue) Plans() []ActionPlan {
	out := make([]ActionPlan, len(q.plans))
	for i, p := range q.plans {
		out[i] = p.clone()
	}
	return out
}

func (q *ActionQueue) push(p *ActionPlan) { q.plans = append(q.plans, p) }

// popLast removes the most recently committed plan.
func (q *ActionQueue) popLast() *ActionPlan {
	n := len(q.plans)
	if n == 0 {
		return nil
	}
	p := q.plans[n-1]
	q.plans[n-1] = nil
	q.plans = q.plans[:n-1]
	return p
}

// popFront removes the oldest plan.
func (q *ActionQueue) popFront() *ActionPlan {
	if len(q.plans) == 0 {
		return nil
	}
	p := q.plans[0]
	q.plans[0] = nil
	q.plans = q.plans[1:]
	return p
}

func (q *ActionQueue) clear() { q.plans = nil }
