// Command tapmerge plays Tap Merge.
//
// It supports three commands:
//  1. "play" (default) – plays a board in the terminal
//  2. "mcp" – serves the board as MCP tools over stdio for AI agents
//  3. "configs" – lists the available board presets
//
// Flags control the preset directory, debug logging, log format and an
// optional fixed random seed. Values may also come from a .env file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tapmerge/game/config"
	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
	"github.com/wricardo/mcp-training/tapmerge/game/session"
	"github.com/wricardo/mcp-training/tapmerge/transport/mcp"
	"github.com/wricardo/mcp-training/tapmerge/ui/terminal"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tap Merge"
)

// main loads .env, builds the command tree and runs it until a signal arrives.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logrus.WithError(err).Fatal("tapmerge failed")
	}
}

// newApp builds the root command
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "tapmerge",
		Usage:   "Tap tiles next to the armed one to move and merge numbers",
		Version: Version,
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
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "Log format: text or json",
				Sources: cli.EnvVars("TAPMERGE_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Write logs to this file while playing in the terminal",
				Sources: cli.EnvVars("TAPMERGE_LOG_FILE"),
			},
			&cli.IntFlag{
				Name:    "seed",
				Usage:   "Fixed random seed for every new board (0 keeps the preset's seed)",
				Sources: cli.EnvVars("TAPMERGE_SEED"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, setupLogging(cmd.Bool("debug"), cmd.String("log-format"))
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "Play a board in the terminal (default)",
				Action: runPlay,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Serve MCP tools over stdio",
				Action:  runMCP,
			},
			{
				Name:   "configs",
				Usage:  "List available board presets",
				Action: runConfigs,
			},
		},
	}
}

// setupLogging configures the global logrus logger
func setupLogging(debug bool, format string) error {
	logrus.SetOutput(os.Stderr)
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	switch format {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", format)
	}
	return nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	// The terminal owns stdout and stderr while playing
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logrus.SetOutput(f)
	} else {
		logrus.SetOutput(io.Discard)
	}

	gameService, _, err := initializeServices(cmd.String("config-dir"), int64(cmd.Int("seed")))
	if err != nil {
		return err
	}

	return terminal.Run(ctx, gameService, cmd.String("config"))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the protocol
	logrus.SetOutput(os.Stderr)
	logrus.WithField("version", Version).Infof("Starting %s MCP server", AppName)

	gameService, sessions, err := initializeServices(cmd.String("config-dir"), int64(cmd.Int("seed")))
	if err != nil {
		return err
	}

	go sessionCleanupRoutine(ctx, sessions)

	return mcp.NewServer(gameService).ServeStdio()
}

func runConfigs(ctx context.Context, cmd *cli.Command) error {
	gameService, _, err := initializeServices(cmd.String("config-dir"), 0)
	if err != nil {
		return err
	}

	configs, err := gameService.ListConfigs(ctx)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	for _, c := range configs {
		fmt.Fprintf(out, "%-16s %-20s %dx%d  %s\n", c.ConfigID, c.Name, c.Cols, c.Rows, c.Description)
	}
	return nil
}

// initializeServices wires the session and config managers into a game service
func initializeServices(configDir string, seed int64) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	var configs service.ConfigManager = configManager
	if seed != 0 {
		configs = &seededConfigs{ConfigManager: configManager, seed: seed}
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configs), sessionManager, nil
}

// seededConfigs hands out copies of presets with a fixed seed
type seededConfigs struct {
	service.ConfigManager
	seed int64
}

func (s *seededConfigs) LoadConfig(name string) (*engine.BoardConfig, error) {
	cfg, err := s.ConfigManager.LoadConfig(name)
	if err != nil {
		return nil, err
	}
	return s.withSeed(cfg), nil
}

func (s *seededConfigs) GetDefault() *engine.BoardConfig {
	return s.withSeed(s.ConfigManager.GetDefault())
}

func (s *seededConfigs) withSeed(cfg *engine.BoardConfig) *engine.BoardConfig {
	if cfg == nil {
		return nil
	}
	seeded := *cfg
	seeded.Seed = s.seed
	return &seeded
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(24 * time.Hour); removed > 0 {
				logrus.WithField("removed", removed).Info("Cleaned up expired sessions")
			}
		}
	}
}
