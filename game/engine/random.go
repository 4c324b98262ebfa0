package engine

import (
	"math/rand"
	"time"
)

// Random is the single source of chance used by a board.
// Float64 must return a value in [0.0, 1.0).
type Random interface {
	Float64() float64
}

// NewRandomSource returns a seeded generator. A zero seed uses the current time.
func NewRandomSource(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
