package engine

import (
	"fmt"
	"strings"
)

// CountBlanks counts the empty tiles in a snapshot grid
func CountBlanks(tiles [][]TileState) int {
	count := 0
	for _, row := range tiles {
		for _, t := range row {
			if t.Value == 0 {
				count++
			}
		}
	}
	return count
}

// MaxValue returns the largest tile value in a snapshot grid
func MaxValue(tiles [][]TileState) int {
	highest := 0
	for _, row := range tiles {
		for _, t := range row {
			if t.Value > highest {
				highest = t.Value
			}
		}
	}
	return highest
}

// ArmedPositions lists armed tiles in column-major order
func ArmedPositions(tiles [][]TileState) []Position {
	armed := []Position{}
	if len(tiles) == 0 {
		return armed
	}
	for c := 0; c < len(tiles[0]); c++ {
		for r := 0; r < len(tiles); r++ {
			if tiles[r][c].Armed {
				armed = append(armed, Position{Col: c, Row: r})
			}
		}
	}
	return armed
}

// RenderGrid draws the board as fixed-width text. Empty tiles print as ".",
// armed tiles carry a trailing "*".
func RenderGrid(state *BoardState) string {
	if state == nil {
		return ""
	}

	width := len(fmt.Sprint(state.MaxValue)) + 1
	if width < 2 {
		width = 2
	}

	var sb strings.Builder
	for _, row := range state.Tiles {
		for c, t := range row {
			if c > 0 {
				sb.WriteString(" ")
			}
			label := "."
			if t.Value != 0 {
				label = fmt.Sprint(t.Value)
			}
			if t.Armed {
				label += "*"
			}
			sb.WriteString(fmt.Sprintf("%*s", width, label))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
