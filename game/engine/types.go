package engine

// InteractionKind describes what happened between an armed neighbour and the tapped tile
type InteractionKind string

const (
	Merge  InteractionKind = "merge"
	Shift  InteractionKind = "move"
	Toggle InteractionKind = "toggle"
)

// BuildMode selects how the initial tiles are seeded while the grid is built
type BuildMode string

const (
	BuildInterleaved BuildMode = "interleaved"
	BuildDeferred    BuildMode = "deferred"
)

const (
	// Validation constants
	MinBoardDimension = 1
	MaxBoardDimension = 32
	MaxBulkTaps       = 50

	DefaultCols            = 4
	DefaultRows            = 5
	DefaultTapDropChance   = 0.3
	DefaultBuildDropChance = 0.5
)

// Position identifies a grid cell by column and row
type Position struct {
	Col int `json:"col" yaml:"col"`
	Row int `json:"row" yaml:"row"`
}

// BoardConfig represents a board preset loaded from JSON or YAML
type BoardConfig struct {
	Name            string    `json:"name" yaml:"name"`
	Description     string    `json:"description" yaml:"description"`
	Cols            int       `json:"cols" yaml:"cols"`
	Rows            int       `json:"rows" yaml:"rows"`
	TapDropChance   float64   `json:"tap_drop_chance" yaml:"tap_drop_chance"`
	BuildDropChance float64   `json:"build_drop_chance" yaml:"build_drop_chance"`
	InitialArmed    *Position `json:"initial_armed,omitempty" yaml:"initial_armed,omitempty"`
	BuildMode       BuildMode `json:"build_mode,omitempty" yaml:"build_mode,omitempty"`
	Seed            int64     `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// TileState is the read-only view of a tile handed to renderers
type TileState struct {
	Value int  `json:"value"`
	Armed bool `json:"armed"`
}

// BoardState represents a snapshot of the board
type BoardState struct {
	Cols  int           `json:"cols"`
	Rows  int           `json:"rows"`
	Tiles [][]TileState `json:"tiles"` // indexed [row][col]

	Blanks   int        `json:"blanks"`
	MaxValue int        `json:"max_value"`
	Armed    []Position `json:"armed"`

	ConfigName string `json:"config_name"`

	// TotalTaps is cumulative across resets; CurrentTaps counts taps since the last reset.
	TotalTaps   int `json:"total_taps"`
	CurrentTaps int `json:"current_taps"`
}

// Interaction records one armed neighbour processed during a tap
type Interaction struct {
	Kind   InteractionKind `json:"kind"`
	Source Position        `json:"source"`

	SourceBefore int `json:"source_before"`
	TargetBefore int `json:"target_before"`
	SourceAfter  int `json:"source_after"`
	TargetAfter  int `json:"target_after"`
}

// TapResult describes everything a single tap changed
type TapResult struct {
	Target       Position      `json:"target"`
	Interactions []Interaction `json:"interactions"`
	DropRolled   bool          `json:"drop_rolled"`
	Dropped      []Position    `json:"dropped,omitempty"`
}

// Changed reports whether the tap altered any value or armed flag
func (r *TapResult) Changed() bool {
	return len(r.Interactions) > 0 || len(r.Dropped) > 0
}

// TapHistoryEntry represents a single tap in the engine's history
type TapHistoryEntry struct {
	Target       Position      `json:"target"`
	Interactions []Interaction `json:"interactions"`
	Dropped      []Position    `json:"dropped,omitempty"`
	Timestamp    int64         `json:"timestamp"`
	Success      bool          `json:"success"`
	TapNumber    int           `json:"tap_number"`
}
