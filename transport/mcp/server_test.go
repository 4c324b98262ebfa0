package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/mcp-training/tapmerge/game/config"
	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
	"github.com/wricardo/mcp-training/tapmerge/game/session"
)

const quietPreset = `{
  "name": "Quiet",
  "description": "Empty 3x3 board, no drops",
  "cols": 3,
  "rows": 3,
  "tap_drop_chance": 0,
  "build_drop_chance": 0,
  "initial_armed": {"col": 1, "row": 1}
}`

func newTestServer(t *testing.T) (*Server, service.GameService) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quiet.json"), []byte(quietPreset), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}

	configMgr, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	svc := service.NewGameService(session.NewManager(), configMgr)
	return NewServer(svc), svc
}

func createSession(t *testing.T, svc service.GameService) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), "quiet")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s returned error: %v", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("%s returned empty result", name)
	}

	textContent, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("%s: expected text content, got %T", name, result.Content[0])
	}
	return textContent.Text, result.IsError
}

func TestNewServer(t *testing.T) {
	server, _ := newTestServer(t)

	if server.GetMCPServer() == nil {
		t.Fatal("Expected MCP server to be initialized")
	}
}

func TestServer_CreateSession(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("default preset", func(t *testing.T) {
		text, isErr := callTool(t, server.handleCreateSession, "create_session", map[string]interface{}{})
		if isErr {
			t.Fatalf("Unexpected error: %s", text)
		}
		if !strings.Contains(text, "Created session:") {
			t.Errorf("Expected session creation message, got: %s", text)
		}
		if !strings.Contains(text, "Armed: (1,1)") {
			t.Errorf("Expected initial armed tile in output, got: %s", text)
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		text, isErr := callTool(t, server.handleCreateSession, "create_session", map[string]interface{}{
			"config_name": "missing",
		})
		if !isErr {
			t.Errorf("Expected error result, got: %s", text)
		}
		if !strings.Contains(text, "quiet") {
			t.Errorf("Expected available presets in error, got: %s", text)
		}
	})
}

func TestServer_Tap(t *testing.T) {
	server, svc := newTestServer(t)
	sessionID := createSession(t, svc)

	t.Run("tap next to armed tile", func(t *testing.T) {
		text, isErr := callTool(t, server.handleTap, "tap", map[string]interface{}{
			"session_id": sessionID,
			"col":        float64(0),
			"row":        float64(1),
			"intent":     "walk the armed tile left",
		})
		if isErr {
			t.Fatalf("Unexpected error: %s", text)
		}
		if !strings.HasPrefix(text, "✓") {
			t.Errorf("Expected successful tap, got: %s", text)
		}
		if !strings.Contains(text, "Armed: (0,1)") {
			t.Errorf("Expected armed flag to move to (0,1), got: %s", text)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		text, isErr := callTool(t, server.handleTap, "tap", map[string]interface{}{
			"session_id": sessionID,
			"col":        float64(5),
			"row":        float64(0),
		})
		if isErr {
			t.Fatalf("Out-of-range tap should not be a tool error: %s", text)
		}
		if !strings.HasPrefix(text, "✗") {
			t.Errorf("Expected failed tap marker, got: %s", text)
		}
	})

	t.Run("missing coordinates", func(t *testing.T) {
		text, isErr := callTool(t, server.handleTap, "tap", map[string]interface{}{
			"session_id": sessionID,
			"col":        "left",
		})
		if !isErr {
			t.Errorf("Expected error result, got: %s", text)
		}
	})

	t.Run("fractional column", func(t *testing.T) {
		before, err := svc.GetBoardState(context.Background(), sessionID)
		if err != nil {
			t.Fatalf("Failed to get board state: %v", err)
		}

		text, isErr := callTool(t, server.handleTap, "tap", map[string]interface{}{
			"session_id": sessionID,
			"col":        1.7,
			"row":        float64(1),
		})
		if !isErr || !strings.Contains(text, "col must be an integer") {
			t.Errorf("Expected integer error, got: %s", text)
		}

		state, err := svc.GetBoardState(context.Background(), sessionID)
		if err != nil {
			t.Fatalf("Failed to get board state: %v", err)
		}
		if state.TotalTaps != before.TotalTaps {
			t.Errorf("Expected rejected tap not to be applied, got %d taps (was %d)", state.TotalTaps, before.TotalTaps)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, isErr := callTool(t, server.handleTap, "tap", map[string]interface{}{
			"session_id": "nope",
			"col":        float64(0),
			"row":        float64(0),
		})
		if !isErr {
			t.Error("Expected error for unknown session")
		}
	})
}

func TestServer_BulkTap(t *testing.T) {
	server, svc := newTestServer(t)
	sessionID := createSession(t, svc)

	text, isErr := callTool(t, server.handleBulkTap, "bulk_tap", map[string]interface{}{
		"session_id": sessionID,
		"taps": []interface{}{
			map[string]interface{}{"col": float64(0), "row": float64(1)},
			map[string]interface{}{"col": float64(0), "row": float64(0)},
			map[string]interface{}{"col": float64(9), "row": float64(9)},
			map[string]interface{}{"col": float64(1), "row": float64(0)},
		},
	})
	if isErr {
		t.Fatalf("Unexpected error: %s", text)
	}
	if !strings.Contains(text, "Executed 2/4 taps") {
		t.Errorf("Expected 2 of 4 taps executed, got: %s", text)
	}
	if !strings.Contains(text, "Stopped on tap 3") {
		t.Errorf("Expected stop on third tap, got: %s", text)
	}

	state, err := svc.GetBoardState(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Failed to get state: %v", err)
	}
	if len(state.Armed) != 1 || state.Armed[0] != (engine.Position{Col: 0, Row: 0}) {
		t.Errorf("Expected armed tile at (0,0), got %v", state.Armed)
	}

	t.Run("malformed tap", func(t *testing.T) {
		_, isErr := callTool(t, server.handleBulkTap, "bulk_tap", map[string]interface{}{
			"session_id": sessionID,
			"taps":       []interface{}{"up"},
		})
		if !isErr {
			t.Error("Expected error for malformed tap entry")
		}
	})
}

func TestServer_DescribeTile(t *testing.T) {
	server, svc := newTestServer(t)
	sessionID := createSession(t, svc)

	tests := []struct {
		name     string
		col, row int
		isErr    bool
		contains string
	}{
		{"neighbour of armed tile", 1, 0, false, "Tapping it would"},
		{"armed tile itself", 1, 1, false, "armed"},
		{"far corner", 2, 2, false, "no armed neighbours"},
		{"outside board", 3, 0, true, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, server.handleDescribeTile, "describe_tile", map[string]interface{}{
				"session_id": sessionID,
				"col":        float64(tt.col),
				"row":        float64(tt.row),
			})
			if isErr != tt.isErr {
				t.Fatalf("Expected isError=%v, got %v: %s", tt.isErr, isErr, text)
			}
			if !strings.Contains(text, tt.contains) {
				t.Errorf("Expected %q in output, got: %s", tt.contains, text)
			}
		})
	}

	// Preview must not touch the real board
	state, _ := svc.GetBoardState(context.Background(), sessionID)
	if len(state.Armed) != 1 || state.Armed[0] != (engine.Position{Col: 1, Row: 1}) {
		t.Errorf("Describe changed the board: armed %v", state.Armed)
	}
}

func TestServer_ResetAndHistory(t *testing.T) {
	server, svc := newTestServer(t)
	sessionID := createSession(t, svc)

	for _, pos := range []engine.Position{{Col: 1, Row: 0}, {Col: 2, Row: 0}} {
		if _, err := svc.Tap(context.Background(), sessionID, pos.Col, pos.Row, false); err != nil {
			t.Fatalf("Tap failed: %v", err)
		}
	}

	text, isErr := callTool(t, server.handleTapHistory, "tap_history", map[string]interface{}{
		"session_id": sessionID,
		"order":      "asc",
	})
	if isErr {
		t.Fatalf("Unexpected error: %s", text)
	}
	if !strings.Contains(text, "Total: 2") {
		t.Errorf("Expected 2 taps in history, got: %s", text)
	}
	if strings.Index(text, "(1,0)") > strings.Index(text, "(2,0)") {
		t.Errorf("Expected ascending order, got: %s", text)
	}

	text, isErr = callTool(t, server.handleReset, "reset_board", map[string]interface{}{
		"session_id": sessionID,
	})
	if isErr {
		t.Fatalf("Unexpected error: %s", text)
	}
	if !strings.Contains(text, "Armed: (1,1)") {
		t.Errorf("Expected armed tile restored after reset, got: %s", text)
	}
}

func TestServer_ListTools(t *testing.T) {
	server, svc := newTestServer(t)
	createSession(t, svc)

	text, isErr := callTool(t, server.handleListSessions, "list_sessions", nil)
	if isErr || !strings.Contains(text, "Active Sessions (1)") {
		t.Errorf("Unexpected list_sessions output: %s", text)
	}

	text, isErr = callTool(t, server.handleListConfigs, "list_configs", nil)
	if isErr || !strings.Contains(text, "quiet") || !strings.Contains(text, "Grid: 3x3") {
		t.Errorf("Unexpected list_configs output: %s", text)
	}

	text, _ = callTool(t, server.handleGameInstructions, "game_instructions", nil)
	if !strings.Contains(text, "TAPPING") {
		t.Errorf("Expected rules text, got: %s", text)
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{
		"f": float64(3),
		"i": 4,
		"s": "5",
	}

	if v, ok := intArg(args, "f"); !ok || v != 3 {
		t.Errorf("float64: got %d, %v", v, ok)
	}
	if v, ok := intArg(args, "i"); !ok || v != 4 {
		t.Errorf("int: got %d, %v", v, ok)
	}
	if _, ok := intArg(map[string]interface{}{"f": 1.7}, "f"); ok {
		t.Error("fractional float64 should not parse as int")
	}
	if v, ok := intArg(map[string]interface{}{"f": float64(-2)}, "f"); !ok || v != -2 {
		t.Errorf("negative float64: got %d, %v", v, ok)
	}
	if _, ok := intArg(args, "s"); ok {
		t.Error("string should not parse as int")
	}
	if _, ok := intArg(args, "missing"); ok {
		t.Error("missing key should not parse")
	}
}

func TestFormatBoardState(t *testing.T) {
	state := &engine.BoardState{
		Cols: 2,
		Rows: 1,
		Tiles: [][]engine.TileState{
			{{Value: 2, Armed: true}, {Value: 0}},
		},
		Blanks:   1,
		MaxValue: 2,
		Armed:    []engine.Position{{Col: 0, Row: 0}},
	}

	result := formatBoardState(state)
	for _, want := range []string{"Grid: 2x1", "Max: 2", "Blanks: 1", "Armed: (0,0)", "2*"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in output:\n%s", want, result)
		}
	}

	if formatBoardState(nil) != "No board state available" {
		t.Error("Expected placeholder for nil state")
	}
}
