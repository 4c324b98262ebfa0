// Package mcp exposes Tap Merge to AI agents over the Model Context Protocol.
//
// The server wraps a service.GameService and registers one tool per
// operation:
//   - create_session, list_sessions, get_session: board lifecycle
//   - board_state: grid, armed tiles, blanks and highest value
//   - tap, bulk_tap: play the board (bulk taps stop at the first rejected tap)
//   - reset_board: rebuild from the preset
//   - tap_history: paginated history
//   - list_configs: available presets
//   - describe_tile: preview a tap without random drops
//   - game_instructions: the rules
//
// Only stdio transport is supported:
//
//	server := mcp.NewServer(gameService)
//	if err := server.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
//
// Logs must go to stderr while serving, stdout carries the protocol.
package mcp
