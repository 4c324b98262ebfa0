// Command desktop plays Tap Merge in a window. Click or touch a tile to tap it,
// R resets the board and Esc or Q quits.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tapmerge/game/config"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
	"github.com/wricardo/mcp-training/tapmerge/game/session"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Error loading .env file")
	}

	app := &cli.Command{
		Name:  "tapmerge-desktop",
		Usage: "Play Tap Merge in a window",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing board presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Preset to play (defaults to classic)",
				Sources: cli.EnvVars("TAPMERGE_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("TAPMERGE_DEBUG"),
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("desktop failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	gameService := service.NewGameService(session.NewManager(), configManager)

	ebiten.SetWindowTitle("Tap Merge")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(NewGame(ctx, gameService, cmd.String("config")))
}
