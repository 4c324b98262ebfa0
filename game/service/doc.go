// Package service provides the business logic layer for Tap Merge.
//
// The service package implements:
//   - Multi-session board management
//   - Preset listing, loading and saving
//   - Single and bulk taps with per-tap events
//   - Paginated tap history
//
// Core Interfaces:
//
// GameService is the main interface used by the terminal UI, the desktop
// window and the MCP tool server. SessionManager stores boards and
// ConfigManager resolves presets; both are implemented in sibling packages.
//
// Architecture:
//
// The service layer sits between the frontends and the engine. It serialises
// access to boards with a single lock, converts engine results into events
// ("tap", "merge", "move", "toggle", "drop", "reset") and renders the grid as
// text for clients that cannot draw.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameService.Tap(ctx, sessionInfo.ID, 1, 2, false)
//
// Out-of-range taps are not errors at this layer: they come back as an
// unsuccessful outcome with a message, and stop a bulk tap.
package service
