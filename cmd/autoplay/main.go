// Command autoplay plays Tap Merge boards with a greedy strategy and reports
// the highest tile it reaches. Taps are planned in batches and sent through
// the game service as bulk taps, so it exercises the same path as MCP agents.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tapmerge/game/config"
	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
	"github.com/wricardo/mcp-training/tapmerge/game/session"
)

// AttemptResult summarises one attempt
type AttemptResult struct {
	Attempt  int
	Taps     int
	MaxValue int
	Merges   int
	Drops    int
	Stuck    bool
}

// Player drives one session with a strategy
type Player struct {
	svc       service.GameService
	sessionID string
	strategy  *GreedyStrategy
	batch     int
	log       *logrus.Entry
}

// playAttempt resets the board and taps until maxTaps is reached or the
// strategy has nothing useful left
func (p *Player) playAttempt(ctx context.Context, attempt, maxTaps int) (*AttemptResult, error) {
	state, err := p.svc.Reset(ctx, p.sessionID)
	if err != nil {
		return nil, err
	}
	p.strategy.Reset()

	result := &AttemptResult{Attempt: attempt, MaxValue: state.MaxValue}
	for result.Taps < maxTaps {
		batch := p.batch
		if remaining := maxTaps - result.Taps; remaining < batch {
			batch = remaining
		}

		plan := p.strategy.NextTaps(state, batch)
		if len(plan) == 0 {
			result.Stuck = true
			break
		}

		bulk, err := p.svc.BulkTap(ctx, p.sessionID, plan, false)
		if err != nil {
			return nil, err
		}
		result.Taps += bulk.TapsExecuted
		result.Merges += bulk.Merges
		result.Drops += bulk.Drops
		state = bulk.BoardState
		if state.MaxValue > result.MaxValue {
			result.MaxValue = state.MaxValue
		}

		p.log.WithFields(logrus.Fields{
			"taps": result.Taps,
			"max":  state.MaxValue,
		}).Debug("Batch played")

		if !bulk.Success {
			return result, fmt.Errorf("bulk tap stopped: %s", bulk.StoppedReason)
		}
	}
	return result, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	svc := service.NewGameService(session.NewManager(), configManager)

	info, err := svc.CreateSession(ctx, cmd.String("config"))
	if err != nil {
		return err
	}

	batch := int(cmd.Int("batch"))
	if batch <= 0 || batch > engine.MaxBulkTaps {
		batch = engine.MaxBulkTaps
	}

	log := logrus.WithFields(logrus.Fields{"component": "autoplay", "session_id": info.ID})
	player := &Player{
		svc:       svc,
		sessionID: info.ID,
		strategy:  NewGreedyStrategy(engine.NewRandomSource(int64(cmd.Int("seed")))),
		batch:     batch,
		log:       log,
	}

	log.WithField("config", info.ConfigName).Info("Session created")

	best := &AttemptResult{}
	attempts := int(cmd.Int("attempts"))
	maxTaps := int(cmd.Int("max-taps"))
	start := time.Now()

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := player.playAttempt(ctx, attempt, maxTaps)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"taps":    result.Taps,
			"max":     result.MaxValue,
			"merges":  result.Merges,
			"stuck":   result.Stuck,
		}).Info("Attempt finished")

		if result.MaxValue > best.MaxValue {
			best = result
		}
	}

	fmt.Fprintf(os.Stdout, "Best tile %d in attempt %d (%d taps, %d merges) after %s\n",
		best.MaxValue, best.Attempt, best.Taps, best.Merges, time.Since(start).Round(time.Millisecond))
	return nil
}

func main() {
	app := &cli.Command{
		Name:  "autoplay",
		Usage: "Play boards with a greedy strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing board presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Preset to play (defaults to classic)",
			},
			&cli.IntFlag{
				Name:  "attempts",
				Value: 10,
				Usage: "Number of attempts",
			},
			&cli.IntFlag{
				Name:  "max-taps",
				Value: 500,
				Usage: "Maximum taps per attempt",
			},
			&cli.IntFlag{
				Name:  "batch",
				Value: 10,
				Usage: "Taps planned per bulk tap",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Strategy tie-break seed (0 uses the current time)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose output",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("autoplay failed")
	}
}
