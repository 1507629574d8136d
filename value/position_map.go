package value

import "github.com/pianohacker/scarab/reader"

// PositionMap records the source position of value nodes the parser
// materialized, keyed by node identity (pointer address) rather than
// structural equality — two structurally-equal nodes parsed from different
// source locations get independent entries. Nodes built later (for instance
// a synthetic Boolean(true) emitted by the compiler) need not be registered.
type PositionMap struct {
	positions map[*Value]reader.Position
}

// NewPositionMap returns an empty PositionMap.
func NewPositionMap() *PositionMap {
	return &PositionMap{positions: make(map[*Value]reader.Position)}
}

// Insert records pos for v's identity.
func (m *PositionMap) Insert(v *Value, pos reader.Position) {
	m.positions[v] = pos
}

// Lookup returns the recorded position for v's identity, if any.
func (m *PositionMap) Lookup(v *Value) (reader.Position, bool) {
	pos, ok := m.positions[v]
	return pos, ok
}

// Len returns the number of recorded entries.
func (m *PositionMap) Len() int { return len(m.positions) }
