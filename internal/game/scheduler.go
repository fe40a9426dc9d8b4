/*
Package game
File: scheduler.go
Description:
    A logical-time step queue. The controller turns the execution-phase
    pacing (delay between actions, delay before results, results
    auto-advance) into scheduled steps; an external driver moves the clock
    with Advance (live heartbeat) or Drain (headless). Steps run on the
    caller's goroutine, one at a time, in due-time order and then in the
    order they were scheduled.
*/

package game

import "time"

// maxDrainSteps stops Drain from spinning on a step that keeps rescheduling itself.
const maxDrainSteps = 1 << 20

// StepID identifies a scheduled step for cancellation.
type StepID uint64

type step struct {
	id    StepID
	due   time.Duration
	label string
	fn    func()
}

// Scheduler holds pending steps against a logical clock.
type Scheduler struct {
	now    time.Duration
	nextID StepID
	steps  []step
}

func NewScheduler() *Scheduler { return &Scheduler{} }

// Now is the logical time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration { return s.now }

// Pending is the number of steps waiting to run.
func (s *Scheduler) Pending() int { return len(s.steps) }

// PendingLabels lists waiting steps in run order.
func (s *Scheduler) PendingLabels() []string {
	out := make([]string, 0, len(s.steps))
	rest := append([]step(nil), s.steps...)
	for len(rest) > 0 {
		i := earliest(rest)
		out = append(out, rest[i].label)
		rest = append(rest[:i], rest[i+1:]...)
	}
	return out
}

// After schedules fn to run delay after the current logical time.
func (s *Scheduler) After(delay time.Duration, label string, fn func()) StepID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	s.steps = append(s.steps, step{id: s.nextID, due: s.now + delay, label: label, fn: fn})
	return s.nextID
}

// Cancel removes a pending step. Returns false if it already ran or never existed.
func (s *Scheduler) Cancel(id StepID) bool {
	for i, st := range s.steps {
		if st.id == id {
			s.steps = append(s.steps[:i], s.steps[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by dt, running every step that falls due on
// the way, including steps scheduled by steps run during this call.
// Returns the number of steps run.
func (s *Scheduler) Advance(dt time.Duration) int {
	target := s.now + dt
	ran := 0
	for len(s.steps) > 0 {
		i := earliest(s.steps)
		if s.steps[i].due > target {
			break
		}
		s.runAt(i)
		ran++
	}
	s.now = target
	return ran
}

// Drain runs every pending step, jumping the clock to each due time.
func (s *Scheduler) Drain() int {
	ran := 0
	for len(s.steps) > 0 && ran < maxDrainSteps {
		s.runAt(earliest(s.steps))
		ran++
	}
	return ran
}

func (s *Scheduler) runAt(i int) {
	st := s.steps[i]
	s.steps = append(s.steps[:i], s.steps[i+1:]...)
	if st.due > s.now {
		s.now = st.due
	}
	st.fn()
}

// earliest picks the lowest due time; ties go to the lowest id.
func earliest(steps []step) int {
	best := 0
	for i := 1; i < len(steps); i++ {
		if steps[i].due < steps[best].due ||
			(steps[i].due == steps[best].due && steps[i].id < steps[best].id) {
			best = i
		}
	}
	return best
}
