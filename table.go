package cuspatial

import (
	"fmt"

	"github.com/LeviBarnes/cuspatial/column"
)

// Table is the columnar description of the quadtree: one row per quadrant in
// breadth-first, key-ascending order. Internal rows describe the contiguous
// block of child rows [Offset, Offset+Length); leaf rows describe the
// contiguous run [Offset, Offset+Length) of the reordered edge array.
type Table struct {
	keys    *column.Column[uint32]
	levels  *column.Column[uint8]
	isNode  *column.Column[bool]
	lengths *column.Column[uint32]
	offsets *column.Column[uint32]
}

func newTable(keys []uint32, levels []uint8, isNode []bool, lengths, offsets []uint32) *Table {
	return &Table{
		keys:    column.New(keys...),
		levels:  column.New(levels...),
		isNode:  column.New(isNode...),
		lengths: column.New(lengths...),
		offsets: column.New(offsets...),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.keys.Len() }

// Key returns the quadrant key of row i, expressed at the row's level.
func (t *Table) Key(i int) uint32 { return t.keys.At(i) }

// Level returns the depth of row i. Level 0 is the root.
func (t *Table) Level(i int) uint8 { return t.levels.At(i) }

// IsNode reports whether row i is an internal (non-leaf) quadrant.
func (t *Table) IsNode(i int) bool { return t.isNode.At(i) }

// Length returns the number of edges in a leaf row, or the number of child
// rows of an internal row.
func (t *Table) Length(i int) uint32 { return t.lengths.At(i) }

// Offset returns the start of a leaf row's run in the reordered edge array,
// or the first child row index of an internal row.
func (t *Table) Offset(i int) uint32 { return t.offsets.At(i) }

// Children returns the child row range [start, end) of an internal row.
func (t *Table) Children(i int) (start, end int) {
	return int(t.offsets.At(i)), int(t.offsets.At(i) + t.lengths.At(i))
}

// Leaves returns the row indices of all leaf quadrants, in row order.
func (t *Table) Leaves() []int {
	var leaves []int
	for i := 0; i < t.Len(); i++ {
		if !t.isNode.At(i) {
			leaves = append(leaves, i)
		}
	}
	return leaves
}

// Validate checks the structural invariants of the table: every row's length
// is positive, internal rows reference in-range child blocks whose keys carry
// the parent key plus a two-bit suffix at the next level, and leaf runs tile
// the reordered edge array contiguously from zero in row order.
func (t *Table) Validate() error {
	edgesOut := uint32(0)
	for i := 0; i < t.Len(); i++ {
		if t.Length(i) == 0 {
			return fmt.Errorf("row %d: zero length", i)
		}
		if !t.IsNode(i) {
			if t.Offset(i) != edgesOut {
				return fmt.Errorf("row %d: leaf offset %d, want %d", i, t.Offset(i), edgesOut)
			}
			edgesOut += t.Length(i)
			continue
		}
		start, end := t.Children(i)
		if t.Length(i) > 4 {
			return fmt.Errorf("row %d: internal row with %d children", i, t.Length(i))
		}
		if start <= i || end > t.Len() {
			return fmt.Errorf("row %d: child range [%d,%d) out of bounds", i, start, end)
		}
		for c := start; c < end; c++ {
			if t.Level(c) != t.Level(i)+1 {
				return fmt.Errorf("row %d: child %d at level %d, want %d", i, c, t.Level(c), t.Level(i)+1)
			}
			if keyParent(t.Key(c)) != t.Key(i) {
				return fmt.Errorf("row %d: child %d key %d not under parent key %d", i, c, t.Key(c), t.Key(i))
			}
			if c > start && t.Key(c) <= t.Key(c-1) {
				return fmt.Errorf("row %d: child keys not ascending at %d", i, c)
			}
		}
	}
	return nil
}
