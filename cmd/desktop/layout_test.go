package main

import (
	"testing"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

func TestTileAt(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		want   engine.Position
		wantOK bool
	}{
		{"top-left tile", 1, headerHeight + 1, engine.Position{Col: 0, Row: 0}, true},
		{"second column", tileSize + 5, headerHeight + 5, engine.Position{Col: 1, Row: 0}, true},
		{"last tile", 4*tileSize - 1, headerHeight + 5*tileSize - 1, engine.Position{Col: 3, Row: 4}, true},
		{"header", 10, headerHeight - 1, engine.Position{}, false},
		{"right of board", 4 * tileSize, headerHeight + 10, engine.Position{}, false},
		{"footer", 10, headerHeight + 5*tileSize, engine.Position{}, false},
		{"negative x", -1, headerHeight + 10, engine.Position{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tileAt(tt.x, tt.y, 4, 5)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("tileAt(%d,%d) = %v,%v, want %v,%v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTileOriginRoundTrip(t *testing.T) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 5; row++ {
			x, y := tileOrigin(col, row)
			got, ok := tileAt(x, y, 4, 5)
			if !ok || got != (engine.Position{Col: col, Row: row}) {
				t.Errorf("origin of (%d,%d) maps back to %v,%v", col, row, got, ok)
			}
		}
	}
}

func TestScreenSize(t *testing.T) {
	w, h := screenSize(4, 5)
	if w != 4*tileSize {
		t.Errorf("Expected width %d, got %d", 4*tileSize, w)
	}
	if h != headerHeight+5*tileSize+footerHeight {
		t.Errorf("Expected height %d, got %d", headerHeight+5*tileSize+footerHeight, h)
	}
}

func TestTileColor(t *testing.T) {
	if tileColor(0) != emptyTileColor {
		t.Error("Empty tiles should use the empty colour")
	}
	if tileColor(1) != tileColors[0] {
		t.Error("1 should use the first colour")
	}
	if tileColor(16) != tileColors[4] {
		t.Error("16 should use the fifth colour")
	}
	if tileColor(256) != tileColors[0] {
		t.Error("Colours should wrap after 128")
	}
}
