// Package cuspatial builds a quadtree spatial index over 2D edges, modeled
// on the quadtree indexing in RAPIDS cuSpatial: flat arrays, bulk sort-by-key
// passes and a columnar result table instead of a pointer tree.
//
// Space is subdivided into quadrants until each leaf holds at most MinSize
// edges or MaxDepth is reached. The result is a five-column table (quadrant
// key, level, is-node flag, length, offset) in breadth-first key-ascending
// order, plus a permutation mapping the key-ordered edge array back to the
// original input rows. Parent/child relationships are implicit in the key
// structure and in contiguous (offset, length) row ranges, which keeps range
// queries over the table free of pointer chasing.
package cuspatial
