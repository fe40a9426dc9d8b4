/*
Package game
File: turnlog.go
Description:
    TurnLog records every engine notification as a flat entry so the
    headless runner can print a run and tests can count hits and misses.
*/

package game

import (
	"fmt"
	"strings"
)

// LogEntry is one recorded engine notification.
type LogEntry struct {
	Turn     int
	Category string  // plan, phase, impact
	Key      string  // archetype key, phase name, or hit/miss/critical
	Value    string  // human-readable detail
	NumVal   float64 // damage, accuracy or zero
}

// String formats the entry as a fixed-width log line.
//
//	[T=03] impact   hit              standard_missile (5,5) dmg=25.0
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%02d] %-8s %-16s %s", e.Turn, e.Category, e.Key, e.Value)
}

// TurnLog is an Observer that keeps every notification in order. The headless
// runner prints it and tests query it.
type TurnLog struct {
	entries []LogEntry
}

// NewTurnLog returns an empty log ready to subscribe.
func NewTurnLog() *TurnLog { return &TurnLog{} }

// OnActionPlanned records a plan entry.
func (l *TurnLog) OnActionPlanned(p ActionPlan) {
	l.add(LogEntry{
		Turn:     p.Turn,
		Category: "plan",
		Key:      p.ArchetypeKey,
		Value:    fmt.Sprintf("#%d %s -> %s acc=%.2f cost=%d", p.ID, p.Origin, p.Target, p.EstimatedAccuracy, p.ReservedCost),
		NumVal:   p.EstimatedAccuracy,
	})
}

// OnTurnPhaseChanged records a phase entry.
func (l *TurnLog) OnTurnPhaseChanged(phase Phase, turn int) {
	l.add(LogEntry{Turn: turn, Category: "phase", Key: phase.String(), Value: phase.String()})
}

// OnImpactResolved records an impact keyed hit, miss or critical.
func (l *TurnLog) OnImpactResolved(i Impact) {
	key := "miss"
	switch {
	case i.Critical:
		key = "critical"
	case i.Hit:
		key = "hit"
	}
	value := fmt.Sprintf("#%d %s %s dmg=%.1f", i.ActionID, i.Archetype, i.Cell, i.Damage)
	if i.Blocked {
		value += " (no line of sight)"
	}
	l.add(LogEntry{Turn: i.Turn, Category: "impact", Key: key, Value: value, NumVal: i.Damage})
}

func (l *TurnLog) add(e LogEntry) { l.entries = append(l.entries, e) }

// Entries returns all recorded entries.
func (l *TurnLog) Entries() []LogEntry { return l.entries }

// Filter returns entries matching category and key; empty matches anything.
func (l *TurnLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match category and key.
func (l *TurnLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *TurnLog) LastOf(category, key string) (LogEntry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Format returns the full log, one entry per line.
func (l *TurnLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
