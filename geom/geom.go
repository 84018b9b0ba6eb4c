// Package geom holds the plane geometry the quadtree needs: line segments,
// axis-aligned boxes and their bounding relations.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Edge is a 2D line segment between two endpoints.
type Edge struct {
	P1, P2 r2.Vec
}

// NewEdge builds an edge from endpoint coordinates.
func NewEdge(x1, y1, x2, y2 float64) Edge {
	return Edge{P1: r2.Vec{X: x1, Y: y1}, P2: r2.Vec{X: x2, Y: y2}}
}

// Bounds returns the axis-aligned bounding box of the edge.
func (e Edge) Bounds() Box {
	return Box{
		Min: r2.Vec{X: math.Min(e.P1.X, e.P2.X), Y: math.Min(e.P1.Y, e.P2.Y)},
		Max: r2.Vec{X: math.Max(e.P1.X, e.P2.X), Y: math.Max(e.P1.Y, e.P2.Y)},
	}
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max r2.Vec
}

// NewBox builds a box from its corner coordinates.
func NewBox(minX, minY, maxX, maxY float64) Box {
	return Box{Min: r2.Vec{X: minX, Y: minY}, Max: r2.Vec{X: maxX, Y: maxY}}
}

// Intersects reports whether the two boxes overlap, boundaries included.
func (b Box) Intersects(o Box) bool {
	return o.Max.X >= b.Min.X && o.Min.X <= b.Max.X &&
		o.Max.Y >= b.Min.Y && o.Min.Y <= b.Max.Y
}

// Contains reports whether o lies entirely inside b, boundaries included.
func (b Box) Contains(o Box) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }
