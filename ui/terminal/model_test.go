package terminal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wricardo/mcp-training/tapmerge/game/config"
	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
	"github.com/wricardo/mcp-training/tapmerge/game/session"
	"github.com/wricardo/mcp-training/tapmerge/ui/scene"
)

func newTestService(t *testing.T) service.GameService {
	t.Helper()

	preset := `{"name": "Quiet", "description": "No drops", "cols": 3, "rows": 3,
"tap_drop_chance": 0, "build_drop_chance": 0, "initial_armed": {"col": 1, "row": 1}}`

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quiet.json"), []byte(preset), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}
	configMgr, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return service.NewGameService(session.NewManager(), configMgr)
}

// startModel runs the init command so the model is on the board scene
func startModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(context.Background(), newTestService(t), "quiet")

	msg := m.Init()()
	if e, ok := msg.(errMsg); ok {
		t.Fatalf("Init failed: %v", e.err)
	}
	m.Update(msg)

	if !m.director.Is(scene.Board) {
		t.Fatalf("Expected board scene after init, got %q", m.director.Current())
	}
	return m
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_Loading(t *testing.T) {
	m := NewModel(context.Background(), newTestService(t), "quiet")

	if !strings.Contains(m.View(), "Loading...") {
		t.Errorf("Expected loading view, got:\n%s", m.View())
	}

	// Taps are ignored until the board exists
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.last != nil {
		t.Error("Tap should be ignored while loading")
	}
}

func TestModel_CursorStartsOnArmedTile(t *testing.T) {
	m := startModel(t)

	if m.cursor != (engine.Position{Col: 1, Row: 1}) {
		t.Errorf("Expected cursor at (1,1), got %v", m.cursor)
	}
	if !strings.Contains(m.View(), "[ *]") {
		t.Errorf("Expected cursor around the armed tile, got:\n%s", m.View())
	}
}

func TestModel_MoveCursor(t *testing.T) {
	m := startModel(t)

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want engine.Position
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, engine.Position{Col: 0, Row: 1}},
		{"clamped at left edge", key('h'), engine.Position{Col: 0, Row: 1}},
		{"up with k", key('k'), engine.Position{Col: 0, Row: 0}},
		{"clamped at top edge", tea.KeyMsg{Type: tea.KeyUp}, engine.Position{Col: 0, Row: 0}},
		{"right with l", key('l'), engine.Position{Col: 1, Row: 0}},
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, engine.Position{Col: 1, Row: 1}},
		{"down with j", key('j'), engine.Position{Col: 1, Row: 2}},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, engine.Position{Col: 2, Row: 2}},
	}

	for _, tt := range tests {
		m.Update(tt.msg)
		if m.cursor != tt.want {
			t.Errorf("%s: expected cursor %v, got %v", tt.name, tt.want, m.cursor)
		}
	}
}

func TestModel_TapAndReset(t *testing.T) {
	m := startModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if m.last == nil || !m.last.Success {
		t.Fatalf("Expected successful tap, got %+v", m.last)
	}
	if len(m.state.Armed) != 1 || m.state.Armed[0] != (engine.Position{Col: 0, Row: 1}) {
		t.Errorf("Expected armed tile at (0,1), got %v", m.state.Armed)
	}
	if !strings.Contains(m.View(), "merge from (1,1)") {
		t.Errorf("Expected interaction in view, got:\n%s", m.View())
	}

	m.Update(key('r'))
	if !m.director.Is(scene.Board) {
		t.Errorf("Expected board scene after reset, got %q", m.director.Current())
	}
	if len(m.state.Armed) != 1 || m.state.Armed[0] != (engine.Position{Col: 1, Row: 1}) {
		t.Errorf("Expected armed tile back at (1,1), got %v", m.state.Armed)
	}
	if m.last != nil {
		t.Error("Expected last tap cleared by reset")
	}
}

func TestModel_Quit(t *testing.T) {
	m := startModel(t)

	_, cmd := m.Update(key('q'))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if !m.director.Is(scene.Quit) {
		t.Errorf("Expected quit scene, got %q", m.director.Current())
	}
	if m.View() != "" {
		t.Errorf("Expected empty view after quit, got %q", m.View())
	}
}

func TestRenderBoard(t *testing.T) {
	state := &engine.BoardState{
		Cols: 2,
		Rows: 2,
		Tiles: [][]engine.TileState{
			{{Value: 4, Armed: true}, {Value: 0}},
			{{Value: 0}, {Value: 2}},
		},
		MaxValue: 4,
	}

	got := renderBoard(state, engine.Position{Col: 1, Row: 1})
	want := " 4*     \n    [ 2]\n"
	if got != want {
		t.Errorf("renderBoard mismatch\nwant %q\ngot  %q", want, got)
	}
}
