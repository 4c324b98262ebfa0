// Package config provides board preset management for Tap Merge.
//
// The config package handles:
//   - Loading board presets from JSON or YAML files
//   - Preset validation through the engine
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets live in a single directory, one file per preset. The file name
// without extension is the config ID used when creating sessions. Each preset
// defines the grid size, the tap and build drop chances, the tile armed at
// start, the build mode and an optional seed.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific preset
//	boardConfig, err := manager.LoadConfig("tall")
//
//	// Get the default preset
//	defaultConfig := manager.GetDefault()
//
// The default is classic when present, otherwise the first valid preset in the
// directory, otherwise engine.DefaultBoardConfig.
package config
