package render

import (
	"github.com/soypat/glgl/math/ms3"
)

// Renderer streams triangles. ReadTriangles fills t and returns the number
// of triangles written. It returns io.EOF once no triangles remain.
type Renderer interface {
	ReadTriangles(t []ms3.Triangle) (int, error)
}
