package cuspatial

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/LeviBarnes/cuspatial/geom"
)

var logger = zerolog.Nop()

// SetLogger installs a logger for build diagnostics. The default discards
// everything.
func SetLogger(l zerolog.Logger) { logger = l }

// Domain describes the indexed region and the subdivision limits.
type Domain struct {
	MinX, MaxX float64
	MinY, MaxY float64

	// Scale is the quadrant side length at MaxDepth. Scale * 2^MaxDepth
	// must cover the larger of the domain's width and height.
	Scale float64

	// MaxDepth is the deepest subdivision level, in [0, MaxDepthLimit].
	MaxDepth int

	// MinSize is the occupancy at or below which a quadrant stays a leaf.
	MinSize int
}

// Bounds returns the domain extent as a box.
func (d Domain) Bounds() geom.Box {
	return geom.NewBox(d.MinX, d.MinY, d.MaxX, d.MaxY)
}

func (d Domain) validate() error {
	if d.MinX >= d.MaxX || d.MinY >= d.MaxY {
		return fmt.Errorf("%w: [%v,%v]x[%v,%v]", ErrInvalidDomain, d.MinX, d.MaxX, d.MinY, d.MaxY)
	}
	if d.MinSize < 0 {
		return fmt.Errorf("%w: min size %d is negative", ErrInvalidDomain, d.MinSize)
	}
	if d.MaxDepth < 0 || d.MaxDepth > MaxDepthLimit {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrDepthOutOfRange, d.MaxDepth, MaxDepthLimit)
	}
	if d.Scale <= 0 {
		return fmt.Errorf("%w: scale %v is not positive", ErrInvalidScale, d.Scale)
	}
	span := d.Scale * float64(uint32(1)<<uint(d.MaxDepth))
	if span < d.MaxX-d.MinX || span < d.MaxY-d.MinY {
		return fmt.Errorf("%w: scale %v covers %v per side at depth %d, domain is %vx%v",
			ErrInvalidScale, d.Scale, span, d.MaxDepth, d.MaxX-d.MinX, d.MaxY-d.MinY)
	}
	return nil
}

// Builder accumulates edges and builds the quadtree index over them.
type Builder struct {
	// Workers caps the goroutines used for the per-edge key pass.
	// Zero or less means one per CPU.
	Workers int

	domain Domain
	edges  []geom.Edge
}

// NewBuilder creates a builder for the given domain.
func NewBuilder(domain Domain) *Builder {
	return &Builder{domain: domain}
}

// Reserve pre-allocates space for the given number of edges.
func (b *Builder) Reserve(n int) {
	if cap(b.edges)-len(b.edges) < n {
		edges := make([]geom.Edge, len(b.edges), len(b.edges)+n)
		copy(edges, b.edges)
		b.edges = edges
	}
}

// Add appends an edge by its endpoint coordinates and returns its index.
// The index is zero based and corresponds 1:1 with the insertion order.
// All edges must be added before calling Build().
func (b *Builder) Add(x1, y1, x2, y2 float64) int {
	return b.AddEdge(geom.NewEdge(x1, y1, x2, y2))
}

// AddEdge appends an edge and returns its index.
func (b *Builder) AddEdge(e geom.Edge) int {
	b.edges = append(b.edges, e)
	return len(b.edges) - 1
}

// Result is the output of a build: the node table and the permutation giving,
// per reordered-edge position, the original input row index.
type Result struct {
	Permutation []int32
	Table       *Table
}

// Build constructs the quadtree. Edges whose bounding box does not intersect
// the domain are dropped; empty input yields a zero-row table. The context
// cancels the parallel key pass.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if err := b.domain.validate(); err != nil {
		return nil, err
	}
	slots, err := b.assignKeys(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("edges", len(b.edges)).
		Int("retained", len(slots)).
		Int("max_depth", b.domain.MaxDepth).
		Msg("assigned quadrant keys")

	levels := aggregate(slots, b.domain)
	perm, table := assemble(levels, slots)
	logger.Debug().Int("rows", table.Len()).Msg("assembled quadtree table")
	return &Result{Permutation: perm, Table: table}, nil
}

// QuadtreeOnEdges builds the index over four equal-length coordinate
// sequences, one edge per row: (x1[i], y1[i]) - (x2[i], y2[i]). It returns
// the edge permutation and the node table.
func QuadtreeOnEdges(x1, y1, x2, y2 []float64, dom Domain) ([]int32, *Table, error) {
	if len(x1) != len(y1) || len(x1) != len(x2) || len(x1) != len(y2) {
		return nil, nil, fmt.Errorf("%w: x1=%d y1=%d x2=%d y2=%d",
			ErrMismatchedLength, len(x1), len(y1), len(x2), len(y2))
	}
	b := NewBuilder(dom)
	b.Reserve(len(x1))
	for i := range x1 {
		b.Add(x1[i], y1[i], x2[i], y2[i])
	}
	res, err := b.Build(context.Background())
	if err != nil {
		return nil, nil, err
	}
	return res.Permutation, res.Table, nil
}
