package d3

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// EqualWithin reports whether every component of a and b differ by at
// most tol.
func EqualWithin(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol &&
		math32.Abs(a.Y-b.Y) <= tol &&
		math32.Abs(a.Z-b.Z) <= tol
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b ms3.Vec) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

type Set []ms3.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() ms3.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = ms3.MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() ms3.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = ms3.MaxElem(vmax, v)
	}
	return vmax
}

// Bounds returns the box enclosing every vector in the set.
// An empty set has a zero value box.
func (a Set) Bounds() ms3.Box {
	if len(a) == 0 {
		return ms3.Box{}
	}
	return ms3.Box{Min: a.Min(), Max: a.Max()}
}
