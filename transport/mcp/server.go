package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
)

// Server exposes a GameService as MCP tools
type Server struct {
	svc       service.GameService
	mcpServer *server.MCPServer
	log       *logrus.Entry
}

// NewServer creates an MCP server backed by the given service
func NewServer(svc service.GameService) *Server {
	s := &Server{
		svc: svc,
		log: logrus.WithField("component", "mcp"),
	}

	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Tap Merge",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tap Merge - MCP Interface

A grid of numbered tiles. Exactly one tile starts "armed". Tapping a tile pulls
every armed orthogonal neighbour into it: equal numbers merge (the tapped tile
doubles), a number moves into an empty tapped tile, and the armed marker always
passes to the tapped tile. After each tap new 1s may drop into empty tiles.

AVAILABLE TOOLS:
- create_session: Create a new board (optional preset)
- list_sessions / get_session: Inspect boards
- board_state: Current grid, armed tiles, blanks and highest value
- tap: Tap one tile by column and row - requires intent explanation
- bulk_tap: Tap several tiles in order - requires intent explanation
- reset_board: Rebuild the board from its preset
- tap_history: View past taps
- list_configs: List available presets
- describe_tile: Inspect one tile and preview what tapping it would do
- game_instructions: Full rules

Coordinates are 0-based: col runs left to right, row runs top to bottom.`),
	)

	s.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Session management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config ID of the preset to use (optional)",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active boards",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGetSession)

	// Board operations
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleBoardState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "tap",
		Description: "Tap a tile, pulling armed neighbours into it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the tile to tap (0-based)",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the tile to tap (0-based)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this tap (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before tapping",
				},
			},
			Required: []string{"session_id", "col", "row"},
		},
	}, s.handleTap)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_tap",
		Description: fmt.Sprintf("Tap several tiles in sequence (at most %d). Stops at the first out-of-range tap.", engine.MaxBulkTaps),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"taps": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"col": map[string]interface{}{"type": "integer"},
							"row": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"col", "row"},
					},
					"description": "Tiles to tap, in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of taps (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before tapping",
				},
			},
			Required: []string{"session_id", "taps"},
		},
	}, s.handleBulkTap)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_board",
		Description: "Rebuild the board from its preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleReset)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "tap_history",
		Description: "Get tap history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc, most recent first)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleTapHistory)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Describe one tile and preview what tapping it would do (ignoring random drops)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the tile (0-based)",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the tile (0-based)",
				},
			},
			Required: []string{"session_id", "col", "row"},
		},
	}, s.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	s.log.Info("Serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func positionArg(args map[string]interface{}) (engine.Position, error) {
	col, ok := intArg(args, "col")
	if !ok {
		return engine.Position{}, fmt.Errorf("col must be an integer")
	}
	row, ok := intArg(args, "row")
	if !ok {
		return engine.Position{}, fmt.Errorf("row must be an integer")
	}
	return engine.Position{Col: col, Row: row}, nil
}

// Tool handlers

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)

	session, err := s.svc.CreateSession(ctx, configName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatBoardState(session.BoardState))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.svc.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s, Max: %d)\n",
			sess.ID, sess.ConfigName, sess.CreatedAt.Format("15:04:05"), sess.BoardState.MaxValue)
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	session, err := s.svc.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(session)), nil
}

func (s *Server) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	state, err := s.svc.GetBoardState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoardState(state)), nil
}

func (s *Server) handleTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if intent != "" {
		s.log.WithFields(logrus.Fields{"session_id": sessionID, "intent": intent}).Debug("Tap intent")
	}

	outcome, err := s.svc.Tap(ctx, sessionID, pos.Col, pos.Row, reset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTapOutcome(outcome)), nil
}

func (s *Server) handleBulkTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	tapsRaw, _ := args["taps"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	taps := make([]engine.Position, 0, len(tapsRaw))
	for i, raw := range tapsRaw {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("tap %d must be an object with col and row", i+1)), nil
		}
		pos, err := positionArg(obj)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("tap %d: %v", i+1, err)), nil
		}
		taps = append(taps, pos)
	}

	if intent != "" {
		s.log.WithFields(logrus.Fields{"session_id": sessionID, "intent": intent}).Debug("Bulk tap intent")
	}

	result, err := s.svc.BulkTap(ctx, sessionID, taps, reset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkTapResult(sessionID, result)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	state, err := s.svc.Reset(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Board reset\n\n" + formatBoardState(state)), nil
}

func (s *Server) handleTapHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	opts := service.HistoryOptions{}
	if page, ok := intArg(args, "page"); ok {
		opts.Page = page
	}
	if limit, ok := intArg(args, "limit"); ok {
		opts.Limit = limit
	}
	opts.Order, _ = args["order"].(string)

	history, err := s.svc.GetTapHistory(ctx, sessionID, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(history)), nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.svc.ListConfigs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Grid: %dx%d\n\n",
			config.ConfigID, config.Name, config.Description, config.Cols, config.Rows)
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (s *Server) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.svc.GetBoardState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if pos.Col < 0 || pos.Col >= state.Cols || pos.Row < 0 || pos.Row >= state.Rows {
		return mcp.NewToolResultError(fmt.Sprintf("Tile (%d, %d) is out of range. Board is %dx%d (cols 0-%d, rows 0-%d)",
			pos.Col, pos.Row, state.Cols, state.Rows, state.Cols-1, state.Rows-1)), nil
	}

	preview, _, err := engine.PreviewTap(state, pos.Col, pos.Row)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTileDescription(state, pos, preview)), nil
}
