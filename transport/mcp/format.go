package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
)

const instructions = `Tap Merge - Complete Instructions

BOARD
A grid of cols x rows tiles. Each tile holds a number (0 means empty, shown
as ".") and an armed flag (shown as a trailing "*"). Coordinates are 0-based:
(col, row) with col 0 on the left and row 0 at the top.

TAPPING
Tap any tile. Its orthogonal neighbours are checked in this order:
left (col-1), up (row-1), down (row+1), right (col+1).
For every neighbour that is armed:
  - the armed flag passes from the neighbour to the tapped tile
    (both flags flip)
  - if both tiles hold the same number, the tapped tile doubles and the
    neighbour becomes empty (merge)
  - otherwise, if the tapped tile is empty, it takes the neighbour's number
    and the neighbour becomes empty (move)
  - otherwise only the flags flip (toggle)
Tapping a tile with no armed neighbour changes nothing on the board.

Because flags flip, two armed neighbours can leave the tapped tile unarmed
again. Order matters: the left neighbour is handled before the one above.

DROPS
After every tap there is a chance (the preset's tap_drop_chance) that a
new 1 drops into an empty tile. Boards are also seeded with drops while
they are built.

GOAL
There is no win or loss condition. Grow the highest tile you can.

TOOLS
- tap: {session_id, col, row, intent}
- bulk_tap: {session_id, taps: [{col, row}, ...], intent} (max 50 per call)
- describe_tile: preview a tap without drops
- board_state, tap_history, reset_board

STRATEGY TIPS
1. Keep track of the armed tile: it is the only thing that moves numbers.
2. Tap an empty tile next to the armed one to walk a number around.
3. Line up equal numbers and tap one while the other is armed to merge.`

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(session.BoardState))
}

func formatBoardState(state *engine.BoardState) string {
	if state == nil {
		return "No board state available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Grid: %dx%d | Max: %d | Blanks: %d | Taps: %d\n",
		state.Cols, state.Rows, state.MaxValue, state.Blanks, state.TotalTaps))
	result.WriteString("Armed: " + formatPositions(state.Armed) + "\n\n")
	result.WriteString(engine.RenderGrid(state))
	result.WriteString("\nLegend: . = empty, * = armed. Coordinates are (col,row), 0-based.")
	return result.String()
}

func formatPositions(positions []engine.Position) string {
	if len(positions) == 0 {
		return "none"
	}
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("(%d,%d)", p.Col, p.Row)
	}
	return strings.Join(parts, " ")
}

func formatTapOutcome(outcome *service.TapOutcome) string {
	response := ""
	if outcome.Success {
		response = "✓ " + outcome.Message + "\n"
	} else {
		response = "✗ " + outcome.Message + "\n"
	}

	if outcome.Result != nil {
		for _, ia := range outcome.Result.Interactions {
			response += formatInteraction(ia, outcome.Result.Target)
		}
	}

	if len(outcome.Events) > 0 {
		response += "Events:\n"
		for _, event := range outcome.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatBoardState(outcome.BoardState)
	return response
}

func formatInteraction(ia engine.Interaction, target engine.Position) string {
	return fmt.Sprintf("  %s (%d,%d)→(%d,%d): %d,%d → %d,%d\n",
		ia.Kind, ia.Source.Col, ia.Source.Row, target.Col, target.Row,
		ia.SourceBefore, ia.TargetBefore, ia.SourceAfter, ia.TargetAfter)
}

func formatBulkTapResult(sessionID string, result *service.BulkTapResult) string {
	var b strings.Builder

	configName := ""
	if result.BoardState != nil {
		configName = result.BoardState.ConfigName
	}
	b.WriteString(fmt.Sprintf("Session: %s • Config: %s\n", sessionID, configName))

	b.WriteString(fmt.Sprintf("Executed %d/%d taps\n", result.TapsExecuted, result.RequestedTaps))
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated to the first %d taps\n", result.Limit))
	}
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped on tap %d: %s\n", result.StoppedOnTap, result.StoppedReason))
	}
	b.WriteString(fmt.Sprintf("Max: %d → %d | Blanks: %d → %d | Merges: %d | Drops: %d\n",
		result.StartMaxValue, result.EndMaxValue, result.StartBlanks, result.EndBlanks,
		result.Merges, result.Drops))

	if len(result.Results) > 0 {
		b.WriteString("\nTaps (this call):\n")
		for i, r := range result.Results {
			b.WriteString(formatTapLine(i+1, r))
		}
	}

	b.WriteString("\n" + formatBoardState(result.BoardState))
	return b.String()
}

func formatTapLine(idx int, r *engine.TapResult) string {
	kinds := make([]string, 0, len(r.Interactions))
	for _, ia := range r.Interactions {
		kinds = append(kinds, string(ia.Kind))
	}
	summary := "no-op"
	if len(kinds) > 0 {
		summary = strings.Join(kinds, ",")
	}
	if len(r.Dropped) > 0 {
		summary += fmt.Sprintf(" +drop %s", formatPositions(r.Dropped))
	}
	return fmt.Sprintf("%d. tap (%d,%d) %s\n", idx, r.Target.Col, r.Target.Row, summary)
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Tap History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalTaps)

	for _, tap := range history.Taps {
		status := "✓"
		if !tap.Success {
			status = "✗"
		}
		kinds := make([]string, 0, len(tap.Interactions))
		for _, ia := range tap.Interactions {
			kinds = append(kinds, string(ia.Kind))
		}
		detail := "no-op"
		if len(kinds) > 0 {
			detail = strings.Join(kinds, ",")
		}
		if len(tap.Dropped) > 0 {
			detail += fmt.Sprintf(" +%d drop", len(tap.Dropped))
		}
		result += fmt.Sprintf("%d. (%d,%d) %s %s\n",
			tap.TapNumber, tap.Target.Col, tap.Target.Row, status, detail)
	}

	return result
}

func formatTileDescription(state *engine.BoardState, pos engine.Position, preview *engine.TapResult) string {
	tile := state.Tiles[pos.Row][pos.Col]

	var b strings.Builder
	value := "empty"
	if tile.Value != 0 {
		value = fmt.Sprint(tile.Value)
	}
	b.WriteString(fmt.Sprintf("Tile (%d,%d): %s", pos.Col, pos.Row, value))
	if tile.Armed {
		b.WriteString(", armed")
	}
	b.WriteString("\n")

	if preview == nil || len(preview.Interactions) == 0 {
		b.WriteString("Tapping it would change nothing: no armed neighbours.\n")
		return b.String()
	}

	b.WriteString("Tapping it would (before any drop):\n")
	for _, ia := range preview.Interactions {
		b.WriteString(formatInteraction(ia, pos))
	}
	return b.String()
}
