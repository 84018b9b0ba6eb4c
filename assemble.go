package cuspatial

import "github.com/LeviBarnes/cuspatial/column"

// assemble lays the surviving quadrants out as table rows in breadth-first,
// key-ascending order and gathers the edge permutation in leaf-row order.
//
// The root row is emitted only when the root is a leaf: an internal root
// would describe nothing but the level-1 block that opens the table, and
// empty input yields an empty table rather than a degenerate root row.
func assemble(levels [][]quadNode, slots []edgeSlot) ([]int32, *Table) {
	first := 0
	if len(levels) > 0 && len(levels[0]) == 1 && !levels[0][0].leaf {
		first = 1
	}

	// Row index of the start of each level's block.
	base := make([]int, len(levels)+1)
	for l := first; l < len(levels); l++ {
		base[l+1] = base[l] + len(levels[l])
	}
	nRows := base[len(levels)]

	keys := make([]uint32, 0, nRows)
	rowLevels := make([]uint8, 0, nRows)
	isNode := make([]bool, 0, nRows)
	lengths := make([]uint32, 0, nRows)
	offsets := make([]uint32, 0, nRows)

	var parts [][]int32
	edgesOut := 0
	for l := first; l < len(levels); l++ {
		ci := 0 // cursor into the next level's nodes
		for _, q := range levels[l] {
			keys = append(keys, q.key)
			rowLevels = append(rowLevels, uint8(l))
			isNode = append(isNode, !q.leaf)
			if q.leaf {
				lengths = append(lengths, uint32(q.end-q.start))
				offsets = append(offsets, uint32(edgesOut))
				indices := make([]int32, 0, q.end-q.start)
				for _, s := range slots[q.start:q.end] {
					indices = append(indices, s.index)
				}
				parts = append(parts, indices)
				edgesOut += len(indices)
				continue
			}
			// Children were appended in parent order, so they are the next
			// run of the following level whose parent key matches.
			next := levels[l+1]
			firstChild := ci
			for ci < len(next) && keyParent(next[ci].key) == q.key {
				ci++
			}
			lengths = append(lengths, uint32(ci-firstChild))
			offsets = append(offsets, uint32(base[l+1]+firstChild))
		}
	}

	return column.Concat(parts...), newTable(keys, rowLevels, isNode, lengths, offsets)
}
