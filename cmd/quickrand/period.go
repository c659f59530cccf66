package main

import (
	"fmt"

	"github.com/lox/quickrand/internal/period"
	"github.com/lox/quickrand/rng"
)

// PeriodCmd verifies the state recurrence algebraically and probes a few
// seeds for short cycles.
type PeriodCmd struct {
	Steps int `kong:"default='1048576',help='Steps to walk from each probe seed looking for a short cycle'"`
	Probe int `kong:"default='8',help='Number of probe seeds'"`
}

func (c *PeriodCmd) Run(g *Globals) error {
	logger := g.logger()

	logger.Debug().Msg("Building recurrence matrix")
	report := period.Check(period.Recurrence())
	fmt.Printf("%s%s\n", labelStyle.Render("recurrence"), report)
	if !report.Full() {
		return fmt.Errorf("recurrence does not have full period: %s", report)
	}

	for i := 0; i < c.Probe; i++ {
		seed := rng.SeedFrom(uint64(i))
		state := rng.New(seed).State()
		if n := period.ShortCycle(state, c.Steps); n != 0 {
			return fmt.Errorf("seed %s cycles after %d steps", seed, n)
		}
		logger.Debug().Stringer("seed", seed).Int("steps", c.Steps).Msg("No short cycle")
	}
	fmt.Printf("%s%s\n", labelStyle.Render("short cycles"),
		fmt.Sprintf("none within %d steps of %d seeds", c.Steps, c.Probe))
	return nil
}
