package cuspatial

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/LeviBarnes/cuspatial/column"
)

// edgeSlot carries everything the later passes need about one retained edge.
type edgeSlot struct {
	key   Key   // bbox min-corner key at max depth
	level uint8 // deepest level whose quadrant contains the whole bbox
	index int32 // original input row
}

// assignKeys runs the normalize + key-assignment pass over all edges. Each
// chunk of edges is independent, so the pass fans out on a bounded worker
// pool with every worker writing only its own slots. The returned slots are
// the edges whose bounding box intersects the domain, stably sorted by their
// max-depth key.
func (b *Builder) assignKeys(ctx context.Context) ([]edgeSlot, error) {
	n := len(b.edges)
	slots := make([]edgeSlot, n)
	keep := make([]bool, n)

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := (n + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}

	norm := newNormalizer(b.domain)
	bounds := b.domain.Bounds()
	maxDepth := b.domain.MaxDepth

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for start := 0; start < n; start += chunk {
		start := start // per-iteration copy for the closure under pre-1.22 loop semantics
		end := min(start+chunk, n)
		p.Go(func(ctx context.Context) error {
			for i := start; i < end; i++ {
				box := b.edges[i].Bounds()
				if !box.Intersects(bounds) {
					continue
				}
				qx1, qy1 := norm.cell(box.Min.X, box.Min.Y)
				qx2, qy2 := norm.cell(box.Max.X, box.Max.Y)
				kmin := mortonKey(qx1, qy1)
				kmax := mortonKey(qx2, qy2)
				slots[i] = edgeSlot{
					key:   kmin,
					level: uint8(commonLevel(kmin, kmax, maxDepth)),
					index: int32(i),
				}
				keep[i] = true
			}
			return ctx.Err()
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	retained := make([]edgeSlot, 0, n)
	keys := make([]Key, 0, n)
	for i := range slots {
		if keep[i] {
			retained = append(retained, slots[i])
			keys = append(keys, slots[i].key)
		}
	}

	// Stable sort by max-depth key; original input order breaks ties, which
	// fixes the edge order inside every leaf.
	return column.Gather(retained, column.SortPerm(keys)), nil
}
