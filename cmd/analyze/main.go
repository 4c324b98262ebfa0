// Command analyze estimates how likely each tile is to start filled for the
// presets in the configs directory. Every preset is simulated in both build
// modes so the bias of interleaved seeding toward early cells is visible next
// to the even spread of deferred seeding.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tapmerge/game/config"
	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

// FillReport summarises many freshly built boards
type FillReport struct {
	Mode       engine.BuildMode
	Trials     int
	Fill       [][]float64 // indexed [row][col]
	MeanFilled float64
	MinFilled  int
	MaxFilled  int
}

// simulate builds trials boards from cfg using mode and records how often
// each tile starts non-empty
func simulate(cfg *engine.BoardConfig, mode engine.BuildMode, trials int, rng engine.Random) (*FillReport, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}

	variant := *cfg
	variant.BuildMode = mode

	counts := make([][]int, cfg.Rows)
	for r := range counts {
		counts[r] = make([]int, cfg.Cols)
	}

	report := &FillReport{Mode: mode, Trials: trials, MinFilled: cfg.Cols * cfg.Rows}
	total := 0
	for i := 0; i < trials; i++ {
		board, err := engine.NewBoardFromConfig(&variant, rng)
		if err != nil {
			return nil, err
		}
		state := board.Snapshot()

		filled := 0
		for r, row := range state.Tiles {
			for c, t := range row {
				if t.Value != 0 {
					counts[r][c]++
					filled++
				}
			}
		}
		total += filled
		if filled < report.MinFilled {
			report.MinFilled = filled
		}
		if filled > report.MaxFilled {
			report.MaxFilled = filled
		}
	}

	report.Fill = make([][]float64, cfg.Rows)
	for r := range counts {
		report.Fill[r] = make([]float64, cfg.Cols)
		for c, n := range counts[r] {
			report.Fill[r][c] = float64(n) / float64(trials)
		}
	}
	report.MeanFilled = float64(total) / float64(trials)
	return report, nil
}

// writeReport prints a fill report as a grid of percentages
func writeReport(w io.Writer, report *FillReport) {
	fmt.Fprintf(w, "Build mode: %s (%d boards)\n", report.Mode, report.Trials)
	fmt.Fprintf(w, "Filled tiles: mean %.2f, min %d, max %d\n",
		report.MeanFilled, report.MinFilled, report.MaxFilled)
	for _, row := range report.Fill {
		cells := make([]string, len(row))
		for c, p := range row {
			cells[c] = fmt.Sprintf("%5.1f%%", p*100)
		}
		fmt.Fprintln(w, "  "+strings.Join(cells, " "))
	}
}

// analyzeConfig simulates one preset in both build modes
func analyzeConfig(w io.Writer, cfg *engine.BoardConfig, trials int, rng engine.Random) error {
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Board: %dx%d, build drop chance %.2f\n", cfg.Cols, cfg.Rows, cfg.BuildDropChance)

	for _, mode := range []engine.BuildMode{engine.BuildInterleaved, engine.BuildDeferred} {
		report, err := simulate(cfg, mode, trials, rng)
		if err != nil {
			return err
		}
		writeReport(w, report)
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	infos, err := configs.ListConfigs()
	if err != nil {
		return err
	}

	rng := engine.NewRandomSource(int64(cmd.Int("seed")))
	trials := int(cmd.Int("trials"))

	for _, info := range infos {
		if name := cmd.String("config"); name != "" && name != info.ConfigID {
			continue
		}

		cfg, err := configs.LoadConfig(info.ConfigID)
		if err != nil {
			logrus.WithError(err).WithField("config", info.ConfigID).Warn("Skipping preset")
			continue
		}

		fmt.Fprintf(os.Stdout, "\n=== Analyzing %s ===\n", info.Filename)
		if err := analyzeConfig(os.Stdout, cfg, trials, rng); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	app := &cli.Command{
		Name:  "analyze",
		Usage: "Estimate starting fill probabilities for board presets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing board presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Only analyze this preset",
			},
			&cli.IntFlag{
				Name:  "trials",
				Value: 10000,
				Usage: "Boards to build per preset and mode",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Random seed (0 uses the current time)",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("analyze failed")
	}
}
