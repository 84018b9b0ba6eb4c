package cuspatial

import "github.com/LeviBarnes/cuspatial/geom"

// normalizer maps plane coordinates onto the integer quadrant grid at max
// depth. Coordinates are clamped to the grid, so callers must reject edges
// entirely outside the domain before normalizing.
type normalizer struct {
	minX, minY float64
	invScale   float64
	maxCell    uint32
}

func newNormalizer(d Domain) normalizer {
	return normalizer{
		minX:     d.MinX,
		minY:     d.MinY,
		invScale: 1 / d.Scale,
		maxCell:  uint32(1)<<uint(d.MaxDepth) - 1,
	}
}

// cell returns the max-depth grid cell containing (x, y).
func (n normalizer) cell(x, y float64) (uint32, uint32) {
	return n.clamp((x - n.minX) * n.invScale), n.clamp((y - n.minY) * n.invScale)
}

func (n normalizer) clamp(v float64) uint32 {
	if v <= 0 {
		return 0
	}
	c := uint32(v)
	if c > n.maxCell {
		return n.maxCell
	}
	return c
}

// QuadrantBox returns the plane extent of the quadrant named by key at the
// given level. Level 0 with key 0 is the root quadrant: the full grid of
// Scale * 2^MaxDepth per side anchored at (MinX, MinY), which may overhang
// the domain bounds.
func (d Domain) QuadrantBox(key Key, level int) geom.Box {
	side := d.Scale * float64(uint32(1)<<uint(d.MaxDepth-level))
	qx, qy := mortonCell(key)
	minX := d.MinX + float64(qx)*side
	minY := d.MinY + float64(qy)*side
	return geom.NewBox(minX, minY, minX+side, minY+side)
}
