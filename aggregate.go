package cuspatial

import "github.com/LeviBarnes/cuspatial/column"

// quadNode is one surviving quadrant with its slot range in the key-sorted
// edge array. Child quadrants, when the node subdivides, partition the same
// range.
type quadNode struct {
	key        Key
	leaf       bool
	start, end int32
}

// aggregate decides, level by level from the root down, which quadrants
// subdivide and which terminate. A quadrant stays a leaf when it is at max
// depth, when its occupancy is at or below MinSize, or when it holds an edge
// that straddles its children (the edge's deepest containing quadrant is this
// one, so subdividing would leave it homeless). Because the slots are sorted
// by max-depth key, the children of any quadrant are contiguous runs of the
// range, recoverable with a run-length count over truncated keys.
func aggregate(slots []edgeSlot, dom Domain) [][]quadNode {
	levels := make([][]quadNode, dom.MaxDepth+1)
	if len(slots) == 0 {
		return levels
	}
	levels[0] = []quadNode{{key: 0, start: 0, end: int32(len(slots))}}

	for l := 0; l <= dom.MaxDepth; l++ {
		for ni := range levels[l] {
			q := &levels[l][ni]
			if l == dom.MaxDepth ||
				q.end-q.start <= int32(dom.MinSize) ||
				straddlers(slots[q.start:q.end], l) > 0 {
				q.leaf = true
				continue
			}
			childKeys := make([]Key, 0, q.end-q.start)
			for _, s := range slots[q.start:q.end] {
				childKeys = append(childKeys, keyPrefix(s.key, dom.MaxDepth, l+1))
			}
			keys, counts := column.RunLengths(childKeys)
			off := q.start
			for ci := range keys {
				levels[l+1] = append(levels[l+1], quadNode{
					key:   keys[ci],
					start: off,
					end:   off + counts[ci],
				})
				off += counts[ci]
			}
		}
	}
	return levels
}

// straddlers counts edges whose deepest containing quadrant is exactly the
// one at the given level: they cannot be pushed into any child.
func straddlers(slots []edgeSlot, level int) int {
	n := 0
	for _, s := range slots {
		if int(s.level) == level {
			n++
		}
	}
	return n
}
