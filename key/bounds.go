package key

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Bounds is an axis-aligned 3D box. Axis 0 is X, 1 is Y and 2 is Z.
type Bounds struct {
	Min r3.Vector
	Max r3.Vector
}

// NewBounds builds Bounds from the six-element EPT ordering
// [minx, miny, minz, maxx, maxy, maxz].
func NewBounds(minX, minY, minZ, maxX, maxY, maxZ float64) Bounds {
	return Bounds{
		Min: r3.Vector{X: minX, Y: minY, Z: minZ},
		Max: r3.Vector{X: maxX, Y: maxY, Z: maxZ},
	}
}

// BoundsFromSlice builds Bounds from a six-element slice.
// The second return is false when the slice length is not 6.
func BoundsFromSlice(v []float64) (Bounds, bool) {
	if len(v) != 6 {
		return Bounds{}, false
	}

	return NewBounds(v[0], v[1], v[2], v[3], v[4], v[5]), true
}

// Slice returns the bounds in EPT ordering.
func (b Bounds) Slice() []float64 {
	return []float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z}
}

// MinAt returns the minimum on the given axis.
func (b Bounds) MinAt(axis int) float64 {
	return component(b.Min, axis)
}

// MaxAt returns the maximum on the given axis.
func (b Bounds) MaxAt(axis int) float64 {
	return component(b.Max, axis)
}

// Mid returns the center of the box.
func (b Bounds) Mid() r3.Vector {
	return r3.Vector{
		X: b.Min.X + (b.Max.X-b.Min.X)/2,
		Y: b.Min.Y + (b.Max.Y-b.Min.Y)/2,
		Z: b.Min.Z + (b.Max.Z-b.Min.Z)/2,
	}
}

// Size returns the per-axis extent of the box.
func (b Bounds) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside the box, boundaries included.
func (b Bounds) Contains(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsBounds reports whether o lies entirely inside the box.
func (b Bounds) ContainsBounds(o Bounds) bool {
	return b.Contains(o.Min) && b.Contains(o.Max)
}

// Intersects reports whether the two boxes overlap. Touching faces count.
func (b Bounds) Intersects(o Bounds) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// IsZero reports whether the box is the zero value.
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g, %g, %g]", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

func component(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setComponent(v *r3.Vector, axis int, val float64) {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}
