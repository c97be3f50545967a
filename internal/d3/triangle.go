package d3

import "github.com/soypat/glgl/math/ms3"

// TriangleNormal returns the unit normal of the triangle abc following
// the right hand rule. Degenerate triangles return the zero vector.
func TriangleNormal(a, b, c ms3.Vec) ms3.Vec {
	n := ms3.Triangle{a, b, c}.Normal()
	if ms3.Norm2(n) == 0 {
		return ms3.Vec{}
	}
	return ms3.Unit(n)
}

// CCWFromAbove reports whether abc winds counter-clockwise when
// projected onto the xy plane and viewed from +z.
func CCWFromAbove(a, b, c ms3.Vec) bool {
	return (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) > 0
}
