package main

import (
	"image/color"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

const (
	tileSize     = 100
	tileGap      = 6
	pressDepth   = 4 // armed tiles are drawn pressed down by this many pixels
	headerHeight = 40
	footerHeight = 24
)

var (
	backgroundColor = color.RGBA{0x22, 0x22, 0x2a, 0xff}
	textColor       = color.RGBA{0xee, 0xee, 0xee, 0xff}
	dimTextColor    = color.RGBA{0x99, 0x99, 0xa8, 0xff}
	emptyTileColor  = color.RGBA{0x3a, 0x3a, 0x46, 0xff}
	armedEdgeColor  = color.RGBA{0xf0, 0xc0, 0x40, 0xff}
	shadowColor     = color.RGBA{0x14, 0x14, 0x18, 0xff}
)

// tileColors by power of two, wrapping for very large values
var tileColors = []color.RGBA{
	{0x5c, 0x7c, 0xa8, 0xff}, // 1
	{0x4f, 0x9a, 0x8c, 0xff}, // 2
	{0x6f, 0xa8, 0x4f, 0xff}, // 4
	{0xb0, 0xa8, 0x3c, 0xff}, // 8
	{0xc8, 0x80, 0x3c, 0xff}, // 16
	{0xc8, 0x58, 0x3c, 0xff}, // 32
	{0xb0, 0x3c, 0x6c, 0xff}, // 64
	{0x80, 0x3c, 0xb0, 0xff}, // 128
}

// screenSize returns the window size for a board
func screenSize(cols, rows int) (int, int) {
	return cols * tileSize, headerHeight + rows*tileSize + footerHeight
}

// tileOrigin returns the top-left pixel of a tile's slot
func tileOrigin(col, row int) (int, int) {
	return col * tileSize, headerHeight + row*tileSize
}

// tileAt maps a screen point to the tile under it
func tileAt(x, y, cols, rows int) (engine.Position, bool) {
	if x < 0 || y < headerHeight {
		return engine.Position{}, false
	}
	col := x / tileSize
	row := (y - headerHeight) / tileSize
	if col >= cols || row >= rows {
		return engine.Position{}, false
	}
	return engine.Position{Col: col, Row: row}, true
}

// tileColor picks the fill for a tile value
func tileColor(value int) color.RGBA {
	if value <= 0 {
		return emptyTileColor
	}
	power := 0
	for v := value; v > 1; v >>= 1 {
		power++
	}
	return tileColors[power%len(tileColors)]
}
