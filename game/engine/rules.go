package engine

import (
	"fmt"
	"math"
)

// Neighbors returns the orthogonal neighbours of (col, row) that exist on the
// board, in the order the tap rule visits them: (-1,0), (0,-1), (0,1), (1,0).
func (b *Board) Neighbors(col, row int) []Position {
	neighbors := make([]Position, 0, 4)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if abs(dx)+abs(dy) != 1 {
				continue
			}
			if b.At(col+dx, row+dy) == nil {
				continue
			}
			neighbors = append(neighbors, Position{Col: col + dx, Row: row + dy})
		}
	}
	return neighbors
}

// HandleTap applies the tap rule at (col, row).
//
// Every armed neighbour hands its state to the target: both armed flags flip,
// then equal values merge into the target (doubling it), a non-empty neighbour
// moves into an empty target, and anything else leaves values alone. Two empty
// tiles "merge" into an empty tile. Afterwards a drop happens with the board's
// tap drop chance.
func (b *Board) HandleTap(col, row int) (*TapResult, error) {
	target := b.At(col, row)
	if target == nil {
		return nil, fmt.Errorf("%w: tap at (%d,%d) on %dx%d board", ErrOutOfRange, col, row, b.cols, b.rows)
	}

	result := &TapResult{
		Target:       Position{Col: col, Row: row},
		Interactions: []Interaction{},
	}

	for _, pos := range b.Neighbors(col, row) {
		source := b.At(pos.Col, pos.Row)
		if !source.IsArmed() {
			continue
		}

		ia := Interaction{
			Kind:         Toggle,
			Source:       pos,
			SourceBefore: source.Value(),
			TargetBefore: target.Value(),
		}

		source.ToggleArmed()
		target.ToggleArmed()

		if source.Value() == target.Value() {
			target.SetValue(target.Value() * 2)
			source.SetValue(0)
			ia.Kind = Merge
		} else if target.IsEmpty() {
			target.SetValue(source.Value())
			source.SetValue(0)
			ia.Kind = Shift
		}

		ia.SourceAfter = source.Value()
		ia.TargetAfter = target.Value()
		result.Interactions = append(result.Interactions, ia)
	}

	if b.rng.Float64() < b.tapDropChance {
		result.DropRolled = true
		result.Dropped = b.Drop()
	}

	return result, nil
}

// noChance never fires a probability check below 1
type noChance struct{}

func (noChance) Float64() float64 { return math.Nextafter(1, 0) }

// PreviewTap applies a tap to a copy of state with drops disabled and returns
// what changed together with the resulting board. state is not modified.
func PreviewTap(state *BoardState, col, row int) (*TapResult, *BoardState, error) {
	if state == nil {
		return nil, nil, fmt.Errorf("state cannot be nil")
	}

	board, err := NewBoard(state.Cols, state.Rows, noChance{})
	if err != nil {
		return nil, nil, err
	}
	if err := board.Restore(state); err != nil {
		return nil, nil, err
	}
	board.SetTapDropChance(0)

	result, err := board.HandleTap(col, row)
	if err != nil {
		return nil, nil, err
	}
	return result, board.Snapshot(), nil
}
