package service

import (
	"time"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

// Event types reported by tap, bulk tap and reset
const (
	EventTap    = "tap"
	EventMerge  = "merge"
	EventMove   = "move"
	EventToggle = "toggle"
	EventDrop   = "drop"
	EventReset  = "reset"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	BoardState     *engine.BoardState  `json:"board_state"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// TapOutcome contains the result of a single tap
type TapOutcome struct {
	Success    bool               `json:"success"`
	BoardState *engine.BoardState `json:"board_state"`
	Message    string             `json:"message"`
	Events     []GameEvent        `json:"events,omitempty"`
	Result     *engine.TapResult  `json:"result,omitempty"`
	Grid       string             `json:"grid"`
}

// BulkTapResult contains the result of a sequence of taps
type BulkTapResult struct {
	TapsExecuted  int                `json:"taps_executed"`
	RequestedTaps int                `json:"requested_taps"`
	Success       bool               `json:"success"`
	BoardState    *engine.BoardState `json:"board_state"`
	Events        []GameEvent        `json:"events"`
	StoppedReason string             `json:"stopped_reason,omitempty"`
	StoppedOnTap  int                `json:"stopped_on_tap,omitempty"` // 1-based
	Truncated     bool               `json:"truncated,omitempty"`
	Limit         int                `json:"limit,omitempty"`

	// Per-tap outcomes for this call only
	Results []*engine.TapResult `json:"results,omitempty"`

	// Start/end summary
	StartMaxValue int `json:"start_max_value"`
	EndMaxValue   int `json:"end_max_value"`
	StartBlanks   int `json:"start_blanks"`
	EndBlanks     int `json:"end_blanks"`
	Merges        int `json:"merges"`
	Drops         int `json:"drops"`

	Grid string `json:"grid"`
}

// GameEvent represents something that happened during a tap or reset
type GameEvent struct {
	Type      string          `json:"type"` // "tap", "merge", "move", "toggle", "drop", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures tap history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated tap history
type HistoryResponse struct {
	Taps        []engine.TapHistoryEntry `json:"taps"`
	TotalTaps   int                      `json:"total_taps"`
	Page        int                      `json:"page"`
	PageSize    int                      `json:"page_size"`
	TotalPages  int                      `json:"total_pages"`
	HasNext     bool                     `json:"has_next"`
	HasPrevious bool                     `json:"has_previous"`
}

// ConfigInfo provides information about a board preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Cols        int    `json:"cols"`
	Rows        int    `json:"rows"`
}
