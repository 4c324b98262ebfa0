package engine

// Tile is a single grid cell. Tiles never move; only their value and armed flag change.
type Tile struct {
	value int
	armed bool
}

// Value returns the tile's number, 0 when empty
func (t *Tile) Value() int {
	return t.value
}

// SetValue replaces the tile's number
func (t *Tile) SetValue(v int) {
	t.value = v
}

// IsEmpty reports whether the tile holds no number
func (t *Tile) IsEmpty() bool {
	return t.value == 0
}

// ToggleArmed flips the armed flag
func (t *Tile) ToggleArmed() {
	t.armed = !t.armed
}

// IsArmed reports whether the tile is a pending merge source
func (t *Tile) IsArmed() bool {
	return t.armed
}

// State returns the renderer-facing view of the tile
func (t *Tile) State() TileState {
	return TileState{Value: t.value, Armed: t.armed}
}
