package render

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/soypat/dfield"
	"github.com/soypat/glgl/math/ms3"
)

// WriteOBJ writes m as a Wavefront OBJ model. Every vertex of the extended
// grid is written multiplied by scale, followed by the faces using 1-based
// vertex indices.
func WriteOBJ(w io.Writer, m *dfield.Mesh, scale float32) error {
	if m.NumFaces() == 0 {
		return errors.New("mesh has no faces")
	}
	bw := bufio.NewWriter(w)
	var line []byte
	for _, v := range m.Vertices() {
		v = ms3.Scale(scale, v)
		line = append(line[:0], 'v')
		for _, c := range [3]float32{v.X, v.Y, v.Z} {
			line = append(line, ' ')
			line = strconv.AppendFloat(line, float64(c), 'g', -1, 32)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	for i := 0; i < m.NumFaces(); i++ {
		f := m.FaceAt(i)
		line = append(line[:0], 'f')
		for _, idx := range f {
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(idx+1), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CreateOBJ writes m to an OBJ file at path, see WriteOBJ.
func CreateOBJ(path string, m *dfield.Mesh, scale float32) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WriteOBJ(file, m, scale)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}
