// Package buf contains helpers for endian-safe decoding of device-tree
// property cells.
package buf

import "encoding/binary"

// CellSize is the size of one device-tree property cell.
const CellSize = 4

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < CellSize {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// CellAt reads the big-endian cell with index i. ok is false when the
// cell lies outside b.
func CellAt(b []byte, i int) (uint32, bool) {
	off, ok := MulOverflowSafe(i, CellSize)
	if !ok {
		return 0, false
	}
	cell, ok := Slice(b, off, CellSize)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(cell), true
}

// PutCellsBE encodes cells as consecutive big-endian words.
func PutCellsBE(cells ...uint32) []byte {
	out := make([]byte, len(cells)*CellSize)
	for i, c := range cells {
		binary.BigEndian.PutUint32(out[i*CellSize:], c)
	}
	return out
}
