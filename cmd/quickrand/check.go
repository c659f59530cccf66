package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/lox/quickrand/cmd/quickrand/shared"
	"github.com/lox/quickrand/internal/check"
	"github.com/lox/quickrand/internal/fileutil"
)

// CheckCmd runs the statistical self-checks.
type CheckCmd struct {
	Seed    string   `kong:"help='First seed, decimal or 0x hex up to 128 bits (default: config, then clock)'"`
	Samples int      `kong:"help='Draws per check and seed (default: config, then 1000000)'"`
	Seeds   int      `kong:"help='Number of consecutive seeds (default: config, then 4)'"`
	Only    []string `kong:"sep=',',help='Run only these checks'"`
	Report  string   `kong:"type='path',help='Write results as JSON to this file'"`
}

type checkReport struct {
	Version string         `json:"version"`
	Seed    string         `json:"seed"`
	Samples int            `json:"samples"`
	Passed  bool           `json:"passed"`
	Results []check.Result `json:"results"`
}

func (c *CheckCmd) Run(g *Globals) error {
	logger := g.logger()

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	seed, err := resolveSeed(c.Seed, cfg.Seed, logger)
	if err != nil {
		return err
	}

	level := log.WarnLevel
	if g.Debug {
		level = log.DebugLevel
	}
	checkLogger := log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "check"})

	samples := firstPositive(c.Samples, cfg.Check.Samples)
	checker := check.New(check.Config{
		Samples: samples,
		Seeds:   firstPositive(c.Seeds, cfg.Check.Seeds),
		Seed:    seed,
		Only:    c.Only,
		Logger:  checkLogger,
	})

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	results, err := checker.Run(ctx)
	if err != nil {
		return fmt.Errorf("checks did not complete: %w", err)
	}

	fmt.Println(renderCheckTable(results))

	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name)
		}
	}

	if c.Report != "" {
		report := checkReport{
			Version: version,
			Seed:    seed.String(),
			Samples: samples,
			Passed:  len(failed) == 0,
			Results: results,
		}
		if err := fileutil.WriteJSONAtomic(c.Report, report, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info().Str("path", c.Report).Msg("Report written")
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d checks failed: %s", len(failed), len(results), strings.Join(failed, ", "))
	}
	return nil
}

func renderCheckTable(results []check.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := passStyle.Render("PASS")
		if !r.Passed {
			status = failStyle.Render("FAIL")
		}
		rows = append(rows, []string{
			r.Name,
			status,
			fmt.Sprintf("%.3f", r.Statistic),
			fmt.Sprintf("%.3f", r.Threshold),
			r.Detail,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CHECK", "RESULT", "STATISTIC", "LIMIT", "DETAIL").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Rows(rows...).
		Render()
}
