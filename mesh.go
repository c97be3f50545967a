package dfield

import (
	"fmt"

	"github.com/soypat/dfield/internal/d3"
	"github.com/soypat/glgl/math/ms3"
)

// Mesh is a regular grid of vertices built from a heightmap, extended past
// the image edges by a skirt whose contents depend on the boundary policy.
//
// Mesh space has its origin at the bottom left corner of the image with y
// pointing up. The vertex of mesh cell (mx, my) sits at (mx+0.5, my+0.5)
// and cells range over [-Skirt, Width+Skirt) × [-Skirt, Height+Skirt).
// Vertices are stored row major over the extended grid, so the vertex of
// extended cell (gx, gy) has index gy*ExtWidth + gx.
type Mesh struct {
	// Width and Height are the heightmap dimensions.
	Width, Height int
	// ExtWidth and ExtHeight are the extended grid dimensions,
	// Width+2*Skirt and Height+2*Skirt.
	ExtWidth, ExtHeight int
	// Skirt is the number of extra cells on every side of the image.
	Skirt int
	// UsableRadius is the clamped search radius. It never exceeds the
	// configured radius nor the smaller image dimension.
	UsableRadius int
	Boundary     Boundary
	// Extrema of the whole heightmap.
	Extrema Extrema
	// Frame holds the extrema of the image border. Clamp skirt vertices
	// replicate border samples so their heights lie within Frame.
	Frame Extrema

	verts []ms3.Vec
}

// Face holds the vertex indices of a mesh triangle, counter-clockwise
// when viewed from +z.
type Face [3]int

// BuildMesh generates the extended vertex grid of hm. The returned mesh
// is never modified afterwards and may be shared between goroutines.
func BuildMesh(hm *Heightmap, s Settings) (*Mesh, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	ext, err := ScanExtrema(hm)
	if err != nil {
		return nil, err
	}
	frame, err := ScanBorderExtrema(hm)
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		Width:        hm.Width,
		Height:       hm.Height,
		UsableRadius: s.MaxRadius(ext, hm.Width, hm.Height),
		Boundary:     s.Boundary,
		Extrema:      ext,
		Frame:        frame,
	}
	switch s.Boundary {
	case BoundaryRepeat:
		// A flat image yields a zero radius, keep a one cell skirt anyway.
		m.Skirt = max(m.UsableRadius, 1)
	case BoundaryClamp:
		m.Skirt = 1
	}
	m.ExtWidth = m.Width + 2*m.Skirt
	m.ExtHeight = m.Height + 2*m.Skirt
	m.verts = make([]ms3.Vec, 0, m.ExtWidth*m.ExtHeight)
	for gy := 0; gy < m.ExtHeight; gy++ {
		my := gy - m.Skirt
		for gx := 0; gx < m.ExtWidth; gx++ {
			mx := gx - m.Skirt
			sx, sy := m.SourceCoord(mx, my)
			m.verts = append(m.verts, ms3.Vec{
				X: float32(mx) + 0.5,
				Y: float32(my) + 0.5,
				Z: s.PixelHeight(hm.At(sx, m.Height-1-sy)),
			})
		}
	}
	return m, nil
}

// SourceCoord maps mesh cell (mx, my) to the image cell whose sample it
// takes, in mesh space (y up). Repeat wraps each axis periodically, Clamp
// replicates the nearest edge cell.
func (m *Mesh) SourceCoord(mx, my int) (sx, sy int) {
	if m.Boundary == BoundaryClamp {
		return clampi(mx, 0, m.Width-1), clampi(my, 0, m.Height-1)
	}
	return wrap(mx, m.Width), wrap(my, m.Height)
}

// ZeroIndex is the index of the vertex of mesh cell (0, 0).
func (m *Mesh) ZeroIndex() int {
	return m.Skirt*m.ExtWidth + m.Skirt
}

// Index returns the vertex index of mesh cell (mx, my). It does not
// check bounds, see Contains.
func (m *Mesh) Index(mx, my int) int {
	return m.ZeroIndex() + mx + m.ExtWidth*my
}

// Contains reports whether mesh cell (mx, my) lies within the extended grid.
func (m *Mesh) Contains(mx, my int) bool {
	return mx >= -m.Skirt && mx < m.Width+m.Skirt &&
		my >= -m.Skirt && my < m.Height+m.Skirt
}

// Vertex returns the vertex of mesh cell (mx, my).
func (m *Mesh) Vertex(mx, my int) ms3.Vec {
	return m.verts[m.Index(mx, my)]
}

// Vertices returns all vertices in row major order over the extended grid.
// The returned slice must not be modified.
func (m *Mesh) Vertices() []ms3.Vec { return m.verts }

// Bounds returns the bounding box of all mesh vertices.
func (m *Mesh) Bounds() ms3.Box {
	return d3.Set(m.verts).Bounds()
}

// NumFaces returns the number of triangles in the mesh: two for every
// quad of four neighbouring vertices of the extended grid.
func (m *Mesh) NumFaces() int {
	if m.ExtWidth < 2 || m.ExtHeight < 2 {
		return 0
	}
	return 2 * (m.ExtWidth - 1) * (m.ExtHeight - 1)
}

// FaceAt returns the i'th face. Faces are ordered by quad, row major,
// with two faces per quad.
func (m *Mesh) FaceAt(i int) Face {
	q := i / 2
	quadsInRow := m.ExtWidth - 1
	lower := (q/quadsInRow)*m.ExtWidth + q%quadsInRow
	upper := lower + m.ExtWidth
	if i%2 == 0 {
		return Face{upper + 1, upper, lower}
	}
	return Face{upper + 1, lower, lower + 1}
}

// Faces returns every face of the mesh, see FaceAt.
func (m *Mesh) Faces() []Face {
	faces := make([]Face, m.NumFaces())
	for i := range faces {
		faces[i] = m.FaceAt(i)
	}
	return faces
}

// Triangle returns the vertices of face f.
func (m *Mesh) Triangle(f Face) ms3.Triangle {
	return ms3.Triangle{m.verts[f[0]], m.verts[f[1]], m.verts[f[2]]}
}

// FaceNormal returns the unit normal of face f. For a heightmap it
// always has a positive z component.
func (m *Mesh) FaceNormal(f Face) ms3.Vec {
	return d3.TriangleNormal(m.verts[f[0]], m.verts[f[1]], m.verts[f[2]])
}
