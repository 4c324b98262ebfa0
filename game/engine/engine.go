package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for board operations
type Engine interface {
	// Board state management
	GetState() *BoardState
	SetState(state *BoardState) error
	Reset() (*BoardState, error)
	GetBoard() *Board

	// Tap operations
	Tap(col, row int) (*TapResult, error)
	BulkTap(taps []Position) ([]*TapResult, error)
	Drop() []Position

	// Configuration
	GetConfig() *BoardConfig
	SetConfig(config *BoardConfig) error

	// History
	GetTapHistory() []TapHistoryEntry
	GetCurrentTaps() []TapHistoryEntry
	GetLastTap() *TapHistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	board  *Board
	config *BoardConfig
	rng    Random

	// history is cumulative; current holds only the taps since the last reset.
	history []TapHistoryEntry
	current []TapHistoryEntry
}

// NewEngine creates a new engine from a preset, seeding chance from config.Seed
func NewEngine(config *BoardConfig) (*GameEngine, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}
	return NewEngineWithRandom(config, NewRandomSource(config.Seed))
}

// NewEngineWithRandom creates a new engine drawing chance from rng
func NewEngineWithRandom(config *BoardConfig, rng Random) (*GameEngine, error) {
	if rng == nil {
		rng = NewRandomSource(0)
	}

	board, err := NewBoardFromConfig(config, rng)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		board:   board,
		config:  config,
		rng:     rng,
		history: []TapHistoryEntry{},
		current: []TapHistoryEntry{},
	}, nil
}

// NewEngineWithDefaults creates a new engine with the classic preset
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultBoardConfig())
	if err != nil {
		// The default preset is always valid
		panic(err)
	}
	return engine
}

// GetState returns a snapshot of the board with engine counters
func (e *GameEngine) GetState() *BoardState {
	state := e.board.Snapshot()
	state.ConfigName = e.config.Name
	state.TotalTaps = len(e.history)
	state.CurrentTaps = len(e.current)
	return state
}

// SetState overwrites tile values and armed flags (used by tests and tools)
func (e *GameEngine) SetState(state *BoardState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	return e.board.Restore(state)
}

// Reset rebuilds the board from the preset. Cumulative history is kept.
// If the preset no longer builds, the board and current taps are left as they were.
func (e *GameEngine) Reset() (*BoardState, error) {
	board, err := NewBoardFromConfig(e.config, e.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild board: %w", err)
	}
	e.board = board
	e.current = []TapHistoryEntry{}
	return e.GetState(), nil
}

// GetBoard exposes the underlying board for renderers
func (e *GameEngine) GetBoard() *Board {
	return e.board
}

// Tap applies the tap rule and records the outcome
func (e *GameEngine) Tap(col, row int) (*TapResult, error) {
	result, err := e.board.HandleTap(col, row)
	if err != nil {
		e.addTapToHistory(Position{Col: col, Row: row}, nil, false)
		return nil, err
	}
	e.addTapToHistory(result.Target, result, true)
	return result, nil
}

// BulkTap applies taps in order, stopping at the first invalid one
func (e *GameEngine) BulkTap(taps []Position) ([]*TapResult, error) {
	results := make([]*TapResult, 0, len(taps))

	for i, pos := range taps {
		result, err := e.Tap(pos.Col, pos.Row)
		if err != nil {
			return results, fmt.Errorf("tap %d: %w", i+1, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// Drop runs a drop outside of a tap
func (e *GameEngine) Drop() []Position {
	return e.board.Drop()
}

// GetConfig returns the current preset
func (e *GameEngine) GetConfig() *BoardConfig {
	return e.config
}

// SetConfig switches presets and rebuilds the board
func (e *GameEngine) SetConfig(config *BoardConfig) error {
	board, err := NewBoardFromConfig(config, e.rng)
	if err != nil {
		return err
	}

	e.config = config
	e.board = board
	e.current = []TapHistoryEntry{}
	return nil
}

// GetTapHistory returns the complete tap history
func (e *GameEngine) GetTapHistory() []TapHistoryEntry {
	return e.history
}

// GetCurrentTaps returns the taps since the last reset
func (e *GameEngine) GetCurrentTaps() []TapHistoryEntry {
	return e.current
}

// GetLastTap returns the last tap made, or nil if no taps
func (e *GameEngine) GetLastTap() *TapHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

func (e *GameEngine) addTapToHistory(target Position, result *TapResult, success bool) {
	entry := TapHistoryEntry{
		Target:       target,
		Interactions: []Interaction{},
		Timestamp:    time.Now().Unix(),
		Success:      success,
		TapNumber:    len(e.history) + 1,
	}
	if result != nil {
		entry.Interactions = result.Interactions
		entry.Dropped = result.Dropped
	}

	e.history = append(e.history, entry)
	e.current = append(e.current, entry)
}
