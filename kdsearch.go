package dfield

import (
	"math"

	"github.com/soypat/dfield/internal/d3"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = kdVertices{}
	_ kdtree.Comparable = kdVertex{}
)

// VertexTree answers exact nearest vertex queries over a whole mesh using
// a k-d tree. It is slower to build than a Spiral but needs no radius
// bound, which makes it a reference for the spiral search.
type VertexTree struct {
	tree  *kdtree.Tree
	verts []ms3.Vec
}

// NewVertexTree builds a k-d tree over all vertices of m, skirt included.
func NewVertexTree(m *Mesh) *VertexTree {
	verts := m.Vertices()
	kv := make(kdVertices, len(verts))
	for i, v := range verts {
		kv[i] = kdVertex{
			Vec: r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)},
			idx: i,
		}
	}
	return &VertexTree{
		tree:  kdtree.New(kv, false),
		verts: verts,
	}
}

// Nearest returns the vertex closest to p.
func (vt *VertexTree) Nearest(p ms3.Vec) ms3.Vec {
	got, _ := vt.tree.Nearest(kdVertex{
		Vec: r3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)},
		idx: -1,
	})
	return vt.verts[got.(kdVertex).idx]
}

// Distance returns the distance from p to the nearest vertex, computed in
// single precision like the spiral search.
func (vt *VertexTree) Distance(p ms3.Vec) float32 {
	if vt.tree.Root == nil {
		return float32(math.Inf(1))
	}
	return d3.Distance(vt.Nearest(p), p)
}

type kdVertex struct {
	r3.Vec
	idx int // index into mesh vertices.
}

type kdVertices []kdVertex

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), verts: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface { return k[start:end] }

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdVertex), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.Vec, b.(kdVertex).Vec))
}

// c = a.dim - b.dim
func kdComp(a, b kdVertex, dim int) (c float64) {
	switch dim {
	case 0:
		c = a.X - b.X
	case 1:
		c = a.Y - b.Y
	case 2:
		c = a.Z - b.Z
	}
	return c
}

type kdPlane struct {
	dim   int
	verts kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.verts[i], p.verts[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.verts[i], p.verts[j] = p.verts[j], p.verts[i]
}
func (p kdPlane) Len() int {
	return len(p.verts)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.verts = p.verts[start:end]
	return p
}
