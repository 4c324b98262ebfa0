package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateBoardConfig validates a board preset for correctness
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}

	// Validate dimensions
	if config.Cols < MinBoardDimension || config.Rows < MinBoardDimension {
		return fmt.Errorf("%w: cols and rows must be positive, got %dx%d", ErrInvalidDimensions, config.Cols, config.Rows)
	}
	if config.Cols > MaxBoardDimension || config.Rows > MaxBoardDimension {
		return fmt.Errorf("%w: cols and rows must be at most %d, got %dx%d",
			ErrInvalidConfig, MaxBoardDimension, config.Cols, config.Rows)
	}

	// Validate probabilities
	if config.TapDropChance < 0 || config.TapDropChance > 1 {
		return fmt.Errorf("%w: tap_drop_chance must be between 0 and 1, got %v", ErrInvalidConfig, config.TapDropChance)
	}
	if config.BuildDropChance < 0 || config.BuildDropChance > 1 {
		return fmt.Errorf("%w: build_drop_chance must be between 0 and 1, got %v", ErrInvalidConfig, config.BuildDropChance)
	}

	// Validate initial armed tile
	if p := config.InitialArmed; p != nil {
		if p.Col < 0 || p.Col >= config.Cols || p.Row < 0 || p.Row >= config.Rows {
			return fmt.Errorf("%w: initial_armed (%d,%d) is outside the %dx%d board",
				ErrInvalidConfig, p.Col, p.Row, config.Cols, config.Rows)
		}
	}

	switch config.BuildMode {
	case "", BuildInterleaved, BuildDeferred:
	default:
		return fmt.Errorf("%w: unknown build_mode %q", ErrInvalidConfig, config.BuildMode)
	}

	return nil
}

// DefaultBoardConfig returns the classic 4x5 board with (1,1) armed
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:            "classic",
		Description:     "Classic 4x5 board, tile (1,1) armed, interleaved seeding",
		Cols:            DefaultCols,
		Rows:            DefaultRows,
		TapDropChance:   DefaultTapDropChance,
		BuildDropChance: DefaultBuildDropChance,
		InitialArmed:    &Position{Col: 1, Row: 1},
		BuildMode:       BuildInterleaved,
	}
}

// ParseBoardConfig decodes a preset. YAML is used for .yaml and .yml names,
// JSON for everything else.
func ParseBoardConfig(name string, data []byte) (*BoardConfig, error) {
	var config BoardConfig

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config '%s': %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config '%s': %w", name, err)
		}
	}

	return &config, nil
}

// LoadBoardConfig loads and validates a board preset from a file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseBoardConfig(filename, data)
	if err != nil {
		return nil, err
	}

	if err := ValidateBoardConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filepath.Base(filename), err)
	}

	return config, nil
}
