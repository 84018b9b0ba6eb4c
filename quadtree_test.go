package cuspatial

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LeviBarnes/cuspatial/geom"
)

func unitDomain(maxDepth, minSize int) Domain {
	return Domain{
		MinX: 0, MaxX: 1, MinY: 0, MaxY: 1,
		Scale:    1 / float64(uint32(1)<<uint(maxDepth)),
		MaxDepth: maxDepth,
		MinSize:  minSize,
	}
}

func TestEmptyInput(t *testing.T) {
	perm, table, err := QuadtreeOnEdges(nil, nil, nil, nil, unitDomain(3, 2))
	require.NoError(t, err)
	require.Equal(t, 0, table.Len())
	require.Empty(t, perm)
}

func TestAllEdgesOutsideDomain(t *testing.T) {
	perm, table, err := QuadtreeOnEdges(
		[]float64{5, -3}, []float64{5, -3},
		[]float64{6, -2}, []float64{6, -2},
		unitDomain(3, 2))
	require.NoError(t, err)
	require.Equal(t, 0, table.Len())
	require.Empty(t, perm)
}

func TestSingleEdgeCollapsesToRoot(t *testing.T) {
	// One edge inside a single max-depth quadrant: occupancy never exceeds
	// MinSize, so the root itself is the only (leaf) row.
	perm, table, err := QuadtreeOnEdges(
		[]float64{0.1}, []float64{0.1},
		[]float64{0.2}, []float64{0.3},
		unitDomain(1, 1))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	require.Equal(t, uint32(0), table.Key(0))
	require.Equal(t, uint8(0), table.Level(0))
	require.False(t, table.IsNode(0))
	require.Equal(t, uint32(1), table.Length(0))
	require.Equal(t, uint32(0), table.Offset(0))
	require.Equal(t, []int32{0}, perm)
}

func TestTwoEdgesDisjointQuadrants(t *testing.T) {
	dom := Domain{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2, Scale: 1, MaxDepth: 1, MinSize: 1}
	perm, table, err := QuadtreeOnEdges(
		[]float64{0.2, 1.2}, []float64{0.2, 1.8},
		[]float64{0.6, 1.9}, []float64{0.6, 1.3},
		dom)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	for i := 0; i < 2; i++ {
		require.False(t, table.IsNode(i))
		require.Equal(t, uint32(1), table.Length(i))
	}
	require.Equal(t, uint32(0), table.Key(0))
	require.Equal(t, uint32(3), table.Key(1))
	require.Equal(t, uint32(0), table.Offset(0))
	require.Equal(t, uint32(1), table.Offset(1))
	require.Equal(t, []int32{0, 1}, perm)
}

func TestMaxDepthQuadrantStaysLeaf(t *testing.T) {
	// Five edges crowd one max-depth quadrant: despite exceeding MinSize the
	// quadrant cannot subdivide further and must be a leaf.
	b := NewBuilder(unitDomain(2, 1))
	for i := 0; i < 5; i++ {
		d := float64(i) * 0.01
		b.Add(0.01+d, 0.01, 0.02+d, 0.02)
	}
	res, err := b.Build(context.Background())
	require.NoError(t, err)
	table := res.Table
	require.NoError(t, table.Validate())

	last := table.Len() - 1
	require.False(t, table.IsNode(last))
	require.Equal(t, uint8(2), table.Level(last))
	require.Equal(t, uint32(5), table.Length(last))
	require.Len(t, res.Permutation, 5)
}

func TestStraddlingEdgeStopsSubdivision(t *testing.T) {
	// An edge crossing the centre cannot descend into any child quadrant, so
	// the root stays a leaf even though its occupancy exceeds MinSize.
	dom := Domain{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2, Scale: 1, MaxDepth: 1, MinSize: 1}
	perm, table, err := QuadtreeOnEdges(
		[]float64{0.5, 0.2, 1.2}, []float64{0.5, 0.2, 1.8},
		[]float64{1.5, 0.6, 1.9}, []float64{1.5, 0.6, 1.3},
		dom)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	require.False(t, table.IsNode(0))
	require.Equal(t, uint8(0), table.Level(0))
	require.Equal(t, uint32(3), table.Length(0))
	require.Len(t, perm, 3)
}

func TestInputValidation(t *testing.T) {
	_, _, err := QuadtreeOnEdges([]float64{1}, []float64{1}, []float64{2}, nil, unitDomain(3, 2))
	require.ErrorIs(t, err, ErrMismatchedLength)

	dom := unitDomain(3, 2)
	dom.MaxX = dom.MinX
	_, _, err = QuadtreeOnEdges(nil, nil, nil, nil, dom)
	require.ErrorIs(t, err, ErrInvalidDomain)

	dom = unitDomain(3, 2)
	dom.MinSize = -1
	_, _, err = QuadtreeOnEdges(nil, nil, nil, nil, dom)
	require.ErrorIs(t, err, ErrInvalidDomain)

	dom = unitDomain(3, 2)
	dom.MaxDepth = MaxDepthLimit + 1
	_, _, err = QuadtreeOnEdges(nil, nil, nil, nil, dom)
	require.ErrorIs(t, err, ErrDepthOutOfRange)

	dom = unitDomain(3, 2)
	dom.MaxDepth = -1
	_, _, err = QuadtreeOnEdges(nil, nil, nil, nil, dom)
	require.ErrorIs(t, err, ErrDepthOutOfRange)

	dom = unitDomain(1, 2)
	dom.Scale = 0.1 // 0.1 * 2 cannot cover a unit domain
	_, _, err = QuadtreeOnEdges(nil, nil, nil, nil, dom)
	require.ErrorIs(t, err, ErrInvalidScale)

	dom = unitDomain(1, 2)
	dom.Scale = 0
	_, _, err = QuadtreeOnEdges(nil, nil, nil, nil, dom)
	require.ErrorIs(t, err, ErrInvalidScale)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBuilder(unitDomain(3, 1))
	b.Add(0.1, 0.1, 0.2, 0.2)
	_, err := b.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func randomEdges(rng *rand.Rand, n int, span float64) []geom.Edge {
	edges := make([]geom.Edge, n)
	for i := range edges {
		x := rng.Float64()*span*1.4 - span*0.2
		y := rng.Float64()*span*1.4 - span*0.2
		edges[i] = geom.NewEdge(x, y, x+rng.Float64()*span*0.1, y+rng.Float64()*span*0.1)
	}
	return edges
}

func TestRandomizedStructure(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dom := unitDomain(4, 3)
	edges := randomEdges(rng, 500, 1)

	b := NewBuilder(dom)
	for _, e := range edges {
		b.AddEdge(e)
	}
	res, err := b.Build(context.Background())
	require.NoError(t, err)
	table := res.Table
	require.NoError(t, table.Validate())

	// Every edge intersecting the domain is retained exactly once.
	retained := 0
	for _, e := range edges {
		if e.Bounds().Intersects(dom.Bounds()) {
			retained++
		}
	}
	require.Len(t, res.Permutation, retained)
	seen := map[int32]bool{}
	for _, p := range res.Permutation {
		require.False(t, seen[p], "edge %d assigned twice", p)
		seen[p] = true
		require.True(t, edges[p].Bounds().Intersects(dom.Bounds()))
	}

	// Leaf lengths tile the permutation, and every edge of a leaf lies in
	// the leaf's quadrant.
	norm := newNormalizer(dom)
	leafSum := uint32(0)
	for _, row := range table.Leaves() {
		leafSum += table.Length(row)
		level := int(table.Level(row))
		for p := table.Offset(row); p < table.Offset(row)+table.Length(row); p++ {
			box := edges[res.Permutation[p]].Bounds()
			qx1, qy1 := norm.cell(box.Min.X, box.Min.Y)
			qx2, qy2 := norm.cell(box.Max.X, box.Max.Y)
			require.Equal(t, table.Key(row), keyPrefix(mortonKey(qx1, qy1), dom.MaxDepth, level))
			require.Equal(t, table.Key(row), keyPrefix(mortonKey(qx2, qy2), dom.MaxDepth, level))
		}
	}
	require.Equal(t, uint32(retained), leafSum)

	// Oversized leaves are only legitimate at max depth or when they hold a
	// straddling edge.
	for _, row := range table.Leaves() {
		if table.Length(row) <= uint32(dom.MinSize) || int(table.Level(row)) == dom.MaxDepth {
			continue
		}
		level := int(table.Level(row))
		stuck := false
		for p := table.Offset(row); p < table.Offset(row)+table.Length(row); p++ {
			box := edges[res.Permutation[p]].Bounds()
			qx1, qy1 := norm.cell(box.Min.X, box.Min.Y)
			qx2, qy2 := norm.cell(box.Max.X, box.Max.Y)
			if commonLevel(mortonKey(qx1, qy1), mortonKey(qx2, qy2), dom.MaxDepth) == level {
				stuck = true
				break
			}
		}
		require.True(t, stuck, "row %d: oversized leaf with no straddling edge", row)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dom := unitDomain(5, 4)
	edges := randomEdges(rng, 300, 1)

	var first *Result
	for run := 0; run < 3; run++ {
		b := NewBuilder(dom)
		b.Workers = run + 1
		for _, e := range edges {
			b.AddEdge(e)
		}
		res, err := b.Build(context.Background())
		require.NoError(t, err)
		if first == nil {
			first = res
			continue
		}
		require.Equal(t, first.Permutation, res.Permutation)
		require.Equal(t, first.Table.Len(), res.Table.Len())
		for i := 0; i < first.Table.Len(); i++ {
			require.Equal(t, first.Table.Key(i), res.Table.Key(i))
			require.Equal(t, first.Table.Offset(i), res.Table.Offset(i))
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	dom := Domain{MinX: 0, MaxX: 1000, MinY: 0, MaxY: 1000, Scale: 1000.0 / 256, MaxDepth: 8, MinSize: 32}
	edges := randomEdges(rng, 100_000, 1000)

	start := time.Now()
	builder := NewBuilder(dom)
	builder.Reserve(len(edges))
	for _, e := range edges {
		builder.AddEdge(e)
	}
	res, err := builder.Build(context.Background())
	if err != nil {
		b.Fatal(err)
	}
	b.Logf("Time to index %v edges into %v rows: %.0f milliseconds",
		len(edges), res.Table.Len(), time.Since(start).Seconds()*1000)
}
