// Package column is a small columnar container: typed append-only columns
// plus the bulk primitives an index build is made of — stable sort-by-key
// yielding a permutation, run-length counting of sorted keys, gather and
// concatenation.
package column

import (
	"cmp"
	"slices"
)

// Column is a typed, append-only column of values.
type Column[T any] struct {
	vals []T
}

// New wraps the given values in a column. The slice is not copied.
func New[T any](vals ...T) *Column[T] {
	return &Column[T]{vals: vals}
}

// Len returns the number of values in the column.
func (c *Column[T]) Len() int { return len(c.vals) }

// At returns the value at row i.
func (c *Column[T]) At(i int) T { return c.vals[i] }

// Append adds values to the end of the column.
func (c *Column[T]) Append(vals ...T) {
	c.vals = append(c.vals, vals...)
}

// Values exposes the backing slice. Callers must not grow it.
func (c *Column[T]) Values() []T { return c.vals }

// SortPerm returns the permutation that stably sorts keys ascending, leaving
// keys untouched. Equal keys keep their original relative order. Apply the
// permutation with Gather.
func SortPerm[K cmp.Ordered](keys []K) []int32 {
	perm := make([]int32, len(keys))
	for i := range perm {
		perm[i] = int32(i)
	}
	slices.SortStableFunc(perm, func(a, b int32) int {
		return cmp.Compare(keys[a], keys[b])
	})
	return perm
}

// Gather builds a new slice whose i'th element is vals[perm[i]].
func Gather[T any](vals []T, perm []int32) []T {
	out := make([]T, len(perm))
	for i, p := range perm {
		out[i] = vals[p]
	}
	return out
}

// RunLengths collapses consecutive equal keys into unique keys and run
// lengths. On sorted input this is a group-by-key count.
func RunLengths[K comparable](keys []K) ([]K, []int32) {
	var uniq []K
	var counts []int32
	for i := 0; i < len(keys); {
		j := i + 1
		for j < len(keys) && keys[j] == keys[i] {
			j++
		}
		uniq = append(uniq, keys[i])
		counts = append(counts, int32(j-i))
		i = j
	}
	return uniq, counts
}

// Concat joins slices into one newly allocated slice.
func Concat[T any](parts ...[]T) []T {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
