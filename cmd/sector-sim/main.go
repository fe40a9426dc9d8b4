package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Clegas3/Sector-Command/internal/game"
)

// maxPlansPerTurn stops the barrage from looping on free archetypes.
const maxPlansPerTurn = 32

func main() {
	var configPath, scenario string
	var seed int64
	var copyReport, verbose bool

	flag.StringVar(&configPath, "config", "sector.yaml", "battlefield configuration file")
	flag.StringVar(&scenario, "scenario", "basic_training", "scenario key")
	flag.Int64Var(&seed, "seed", 42, "RNG seed")
	flag.BoolVar(&copyReport, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&verbose, "v", false, "print controller log lines")
	flag.Parse()

	cfg, err := game.LoadConfig(configPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "sim ", log.Lmicroseconds)
	}

	report, err := runBarrage(cfg, scenario, seed, logger)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	fmt.Print(report)

	if copyReport {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Println("clipboard:", err)
			return
		}
		fmt.Println("(report copied to clipboard)")
	}
}

// runBarrage plays scenario to GameOver with a fixed script and returns the
// formatted report.
func runBarrage(cfg *game.Config, scenario string, seed int64, logger *log.Logger) (string, error) {
	ctrl, err := game.NewController(cfg, scenario, game.Options{
		Rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- reproducible runs
		Logger: logger,
		Pacing: &game.Pacing{},
	})
	if err != nil {
		return "", err
	}
	turnLog := game.NewTurnLog()
	ctrl.Subscribe(turnLog)

	origin := game.Cell{X: 0, Y: 0}
	targets := barrageTargets(cfg, ctrl.Scenario())

	for ctrl.Phase() != game.PhaseGameOver {
		for i := 0; i < maxPlansPerTurn; i++ {
			a := cheapestAffordable(ctrl)
			if a == nil {
				break
			}
			if _, err := ctrl.PlanAction(origin, targets[i%len(targets)], a, nil); err != nil {
				return "", fmt.Errorf("turn %d: %w", ctrl.Turn(), err)
			}
		}
		if err := ctrl.ExecuteTurn(); err != nil {
			return "", err
		}
		ctrl.RunToIdle()
	}

	return formatReport(ctrl.Scenario(), seed, turnLog, ctrl.Outcome()), nil
}

// barrageTargets are the destroy-target sectors of the scenario, or the map
// centre when it has none.
func barrageTargets(cfg *game.Config, s *game.Scenario) []game.Cell {
	var out []game.Cell
	for _, o := range s.Objectives {
		if o.Type == game.ObjectiveDestroyTarget {
			out = append(out, o.Target)
		}
	}
	if len(out) == 0 {
		centre := game.Cell{}
		if m := cfg.MapLayout(s.Map); m != nil {
			centre = game.Cell{X: m.Width / 2, Y: m.Height / 2}
		}
		out = append(out, centre)
	}
	return out
}

// cheapestAffordable picks the affordable archetype with the lowest total
// cost; ties keep configuration order.
func cheapestAffordable(ctrl *game.Controller) *game.Archetype {
	var best *game.Archetype
	for _, a := range ctrl.Arsenal() {
		if !ctrl.CanAfford(a) {
			continue
		}
		if best == nil || a.TotalCost() < best.TotalCost() {
			best = a
		}
	}
	return best
}

func formatReport(s *game.Scenario, seed int64, turnLog *game.TurnLog, o game.Outcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s (seed %d) ===\n", s.Name, seed)
	sb.WriteString(turnLog.Format())
	sb.WriteString("--- outcome ---\n")
	fmt.Fprintf(&sb, "turns played:   %d/%d\n", o.FinalTurn, s.MaxTurns)
	fmt.Fprintf(&sb, "shots:          %d fired, %d hit (%.0f%%)\n", o.ShotsFired, o.ShotsHit, o.Accuracy*100)
	for _, st := range o.Objectives {
		mark := " "
		if st.Complete {
			mark = "x"
		}
		fmt.Fprintf(&sb, "[%s] %-16s %s\n", mark, st.Type, st.Description)
	}
	result := "DEFEAT"
	if o.Won {
		result = "VICTORY"
	}
	fmt.Fprintf(&sb, "result:         %s (%d/%d objectives)\n", result, o.ObjectivesComplete, len(o.Objectives))
	return sb.String()
}
