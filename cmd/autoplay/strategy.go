package main

import (
	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

// GreedyStrategy picks taps by previewing every useful tap on a copy of the
// board and scoring the result. Merges win; otherwise the armed tile walks
// toward the nearest tile it could merge with.
type GreedyStrategy struct {
	rng     engine.Random
	visited map[engine.Position]int
}

// NewGreedyStrategy creates a strategy. rng breaks ties between equal scores.
func NewGreedyStrategy(rng engine.Random) *GreedyStrategy {
	return &GreedyStrategy{
		rng:     rng,
		visited: make(map[engine.Position]int),
	}
}

// Reset forgets visited tiles between attempts
func (s *GreedyStrategy) Reset() {
	s.visited = make(map[engine.Position]int)
}

// NextTap returns the best tap for state, or false if no tap changes anything
func (s *GreedyStrategy) NextTap(state *engine.BoardState) (engine.Position, bool) {
	best := engine.Position{}
	bestScore := 0.0
	found := false

	for _, candidate := range candidates(state) {
		result, after, err := engine.PreviewTap(state, candidate.Col, candidate.Row)
		if err != nil || len(result.Interactions) == 0 {
			continue
		}

		score := scoreTap(result, after) - 0.5*float64(s.visited[candidate])
		// Random jitter below the smallest score step keeps ties from looping
		score += s.rng.Float64() * 0.1

		if !found || score > bestScore {
			best, bestScore, found = candidate, score, true
		}
	}

	if found {
		s.visited[best]++
	}
	return best, found
}

// NextTaps plans up to max taps ahead, assuming no drops happen in between
func (s *GreedyStrategy) NextTaps(state *engine.BoardState, max int) []engine.Position {
	taps := make([]engine.Position, 0, max)
	current := state
	for len(taps) < max {
		tap, ok := s.NextTap(current)
		if !ok {
			break
		}
		_, next, err := engine.PreviewTap(current, tap.Col, tap.Row)
		if err != nil {
			break
		}
		taps = append(taps, tap)
		current = next
	}
	return taps
}

// candidates lists tiles next to an armed tile. Nothing else can change on a tap.
func candidates(state *engine.BoardState) []engine.Position {
	seen := make(map[engine.Position]bool)
	var out []engine.Position
	for _, armed := range state.Armed {
		for _, d := range []engine.Position{{Col: -1}, {Row: -1}, {Row: 1}, {Col: 1}} {
			p := engine.Position{Col: armed.Col + d.Col, Row: armed.Row + d.Row}
			if p.Col < 0 || p.Col >= state.Cols || p.Row < 0 || p.Row >= state.Rows || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// scoreTap rates a previewed tap
func scoreTap(result *engine.TapResult, after *engine.BoardState) float64 {
	score := 0.0
	for _, ia := range result.Interactions {
		switch {
		case ia.Kind == engine.Merge && ia.TargetAfter > 0:
			score += 10 * float64(ia.TargetAfter)
		case ia.Kind == engine.Shift:
			score += 1
		}
	}

	// Reward carrying a value toward a partner
	for _, armed := range after.Armed {
		value := after.Tiles[armed.Row][armed.Col].Value
		if value == 0 {
			continue
		}
		if dist, ok := nearestEqual(after, armed, value); ok && dist < 5 {
			score += float64(5 - dist)
		}
	}
	return score
}

// nearestEqual finds the Manhattan distance from p to the closest other tile holding value
func nearestEqual(state *engine.BoardState, p engine.Position, value int) (int, bool) {
	best := -1
	for r, row := range state.Tiles {
		for c, t := range row {
			if t.Value != value || (c == p.Col && r == p.Row) {
				continue
			}
			d := abs(c-p.Col) + abs(r-p.Row)
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best, best >= 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
