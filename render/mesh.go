package render

import (
	"io"

	"github.com/soypat/dfield"
	"github.com/soypat/glgl/math/ms3"
)

// ExportScale converts mesh units (one per pixel) to exported model units.
const ExportScale = 1.0 / 100

type meshRenderer struct {
	m     *dfield.Mesh
	scale float32
	next  int // index of next face to read.
}

// NewMeshRenderer returns a Renderer that streams the faces of m in order
// with every vertex multiplied by scale.
func NewMeshRenderer(m *dfield.Mesh, scale float32) Renderer {
	return &meshRenderer{m: m, scale: scale}
}

func (r *meshRenderer) ReadTriangles(t []ms3.Triangle) (int, error) {
	nf := r.m.NumFaces()
	if r.next >= nf {
		return 0, io.EOF
	}
	n := min(len(t), nf-r.next)
	for i := range t[:n] {
		tri := r.m.Triangle(r.m.FaceAt(r.next + i))
		for j := range tri {
			tri[j] = ms3.Scale(r.scale, tri[j])
		}
		t[i] = tri
	}
	r.next += n
	return n, nil
}
