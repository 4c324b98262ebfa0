// Package engine provides the core rules for the Tap Merge puzzle.
//
// The engine package implements:
//   - Tiles with a numeric value and a transient armed flag
//   - A fixed grid of tiles addressed by column and row
//   - The tap rule that merges or moves armed neighbours into the tapped tile
//   - Random value-1 drops into empty tiles
//   - Board presets, their validation, and JSON/YAML loading
//
// Core Types:
//
// Board owns the grid and applies the rules. GameEngine wraps a Board with its
// preset, its random source and a tap history, and implements the Engine
// interface consumed by the service layer.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultBoardConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Tap the tile at column 1, row 2
//	result, err := gameEngine.Tap(1, 2)
//	state := gameEngine.GetState()
//
// Rules:
//
// Tapping a tile looks at its four orthogonal neighbours in the order left, up,
// down, right. Each armed neighbour loses its armed flag and arms the target
// instead; equal values merge into the target (doubling it), a neighbour's value
// moves into an empty target, and different values stay put. After the tap a
// drop happens with probability 0.3: each empty tile independently becomes 1
// with probability 1/blanks.
//
// Randomness comes from a single Random source per board, so tests can script
// every roll.
package engine
