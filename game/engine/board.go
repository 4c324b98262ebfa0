package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange        = errors.New("position out of range")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrInvalidConfig     = errors.New("invalid board configuration")
)

// Board owns a fixed grid of tiles and applies the tap rule to them.
//
// Tiles are stored column-major (index col*rows+row), which is also the order in
// which they are created and the order drops visit them.
type Board struct {
	cols  int
	rows  int
	tiles []*Tile
	rng   Random

	tapDropChance float64
}

// NewBoard creates a board with every tile empty and unarmed.
// A nil rng falls back to a time-seeded source.
func NewBoard(cols, rows int, rng Random) (*Board, error) {
	b, err := newBoardShell(cols, rows, rng)
	if err != nil {
		return nil, err
	}
	for i := 0; i < cols*rows; i++ {
		b.tiles = append(b.tiles, &Tile{})
	}
	return b, nil
}

// NewBoardFromConfig creates a board and seeds it with the preset's
// initialisation policy: the initial armed tile plus random drops during
// construction.
func NewBoardFromConfig(config *BoardConfig, rng Random) (*Board, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	b, err := newBoardShell(config.Cols, config.Rows, rng)
	if err != nil {
		return nil, err
	}
	b.tapDropChance = config.TapDropChance

	armed := func(col, row int) bool {
		return config.InitialArmed != nil && config.InitialArmed.Col == col && config.InitialArmed.Row == row
	}

	switch config.BuildMode {
	case BuildDeferred:
		for c := 0; c < b.cols; c++ {
			for r := 0; r < b.rows; r++ {
				t := &Tile{}
				if armed(c, r) {
					t.ToggleArmed()
				}
				b.tiles = append(b.tiles, t)
			}
		}
		for range b.tiles {
			if b.rng.Float64() < config.BuildDropChance {
				b.Drop()
			}
		}
	default:
		// Each drop only sees the cells created so far, so early cells are
		// more likely to be filled than late ones.
		for c := 0; c < b.cols; c++ {
			for r := 0; r < b.rows; r++ {
				t := &Tile{}
				if armed(c, r) {
					t.ToggleArmed()
				}
				b.tiles = append(b.tiles, t)
				if b.rng.Float64() < config.BuildDropChance {
					b.Drop()
				}
			}
		}
	}

	return b, nil
}

func newBoardShell(cols, rows int, rng Random) (*Board, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, cols, rows)
	}
	if rng == nil {
		rng = NewRandomSource(0)
	}
	return &Board{
		cols:          cols,
		rows:          rows,
		tiles:         make([]*Tile, 0, cols*rows),
		rng:           rng,
		tapDropChance: DefaultTapDropChance,
	}, nil
}

// Cols returns the number of columns
func (b *Board) Cols() int {
	return b.cols
}

// Rows returns the number of rows
func (b *Board) Rows() int {
	return b.rows
}

// InRange reports whether (col, row) addresses a cell of this board
func (b *Board) InRange(col, row int) bool {
	return col >= 0 && col < b.cols && row >= 0 && row < b.rows
}

// At returns the tile at (col, row), or nil when there is none
func (b *Board) At(col, row int) *Tile {
	if !b.InRange(col, row) {
		return nil
	}
	idx := col*b.rows + row
	if idx >= len(b.tiles) {
		return nil
	}
	return b.tiles[idx]
}

// TapDropChance returns the probability of a drop after each tap
func (b *Board) TapDropChance() float64 {
	return b.tapDropChance
}

// SetTapDropChance overrides the probability of a drop after each tap
func (b *Board) SetTapDropChance(p float64) {
	b.tapDropChance = p
}

// Drop fills empty tiles with 1. Every blank tile is an independent trial with
// probability 1/blanks, so a call fills one tile on average but may fill none
// or several. It returns the filled positions in grid order.
func (b *Board) Drop() []Position {
	blanks := 0
	for _, t := range b.tiles {
		if t.IsEmpty() {
			blanks++
		}
	}
	if blanks == 0 {
		return nil
	}

	var filled []Position
	for i, t := range b.tiles {
		if t.IsEmpty() && b.rng.Float64() < 1.0/float64(blanks) {
			t.SetValue(1)
			filled = append(filled, b.positionOf(i))
		}
	}
	return filled
}

// Snapshot returns a copy of the board for renderers
func (b *Board) Snapshot() *BoardState {
	tiles := make([][]TileState, b.rows)
	for r := 0; r < b.rows; r++ {
		tiles[r] = make([]TileState, b.cols)
		for c := 0; c < b.cols; c++ {
			if t := b.At(c, r); t != nil {
				tiles[r][c] = t.State()
			}
		}
	}

	return &BoardState{
		Cols:     b.cols,
		Rows:     b.rows,
		Tiles:    tiles,
		Blanks:   CountBlanks(tiles),
		MaxValue: MaxValue(tiles),
		Armed:    ArmedPositions(tiles),
	}
}

// Restore overwrites tile values and armed flags from a snapshot of the same size
func (b *Board) Restore(state *BoardState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Cols != b.cols || state.Rows != b.rows || len(state.Tiles) != b.rows {
		return fmt.Errorf("%w: snapshot is %dx%d, board is %dx%d",
			ErrInvalidDimensions, state.Cols, state.Rows, b.cols, b.rows)
	}
	for r, row := range state.Tiles {
		if len(row) != b.cols {
			return fmt.Errorf("%w: row %d has %d tiles, expected %d", ErrInvalidDimensions, r, len(row), b.cols)
		}
		for c, ts := range row {
			if ts.Value < 0 {
				return fmt.Errorf("tile (%d,%d) has negative value %d", c, r, ts.Value)
			}
		}
	}

	for r, row := range state.Tiles {
		for c, ts := range row {
			t := b.At(c, r)
			t.value = ts.Value
			t.armed = ts.Armed
		}
	}
	return nil
}

func (b *Board) positionOf(idx int) Position {
	return Position{Col: idx / b.rows, Row: idx % b.rows}
}
