package render

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/dfield"
	"github.com/soypat/dfield/internal/d3"
	"github.com/soypat/glgl/math/ms3"
)

func testMesh(t testing.TB, w, h int, boundary dfield.Boundary) *dfield.Mesh {
	hm := dfield.NewHeightmap(w, h)
	for i := range hm.Pix {
		hm.Pix[i] = uint8(i * 37)
	}
	m, err := dfield.BuildMesh(hm, dfield.Settings{Radius: 4, HeightMult: 1, Boundary: boundary})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-6
	m := testMesh(t, 12, 7, dfield.BoundaryRepeat)
	input, err := RenderAll(NewMeshRenderer(m, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(input) != m.NumFaces() {
		t.Fatalf("rendered %d triangles, mesh has %d faces", len(input), m.NumFaces())
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != sizeOfSTLHeader+stlTriangleSize*len(input) {
		t.Fatalf("unexpected STL size %d", b.Len())
	}
	output, err := readBinarySTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	for iface, expect := range input {
		got := output[iface]
		for i := range expect {
			if !d3.EqualWithin(got[i], expect[i], tol) {
				t.Fatalf("%dth triangle out of tolerance. got vertex %v, want %v", iface, got[i], expect[i])
			}
		}
	}
}

func TestCreateSTLMatchesWriteSTL(t *testing.T) {
	m := testMesh(t, 40, 33, dfield.BoundaryClamp)
	path := filepath.Join(t.TempDir(), "mesh.stl")
	err := CreateSTL(path, NewMeshRenderer(m, ExportScale))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := RenderAll(NewMeshRenderer(m, ExportScale))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestMeshRendererChunks(t *testing.T) {
	m := testMesh(t, 5, 4, dfield.BoundaryRepeat)
	want := m.NumFaces()
	for _, size := range []int{1, 3, want - 1, want, want + 10} {
		r := NewMeshRenderer(m, 2)
		buf := make([]ms3.Triangle, size)
		var got []ms3.Triangle
		var err error
		for err == nil {
			var n int
			n, err = r.ReadTriangles(buf)
			got = append(got, buf[:n]...)
		}
		if err != io.EOF {
			t.Fatal(err)
		}
		if len(got) != want {
			t.Fatalf("buffer %d: read %d triangles, want %d", size, len(got), want)
		}
		for i, tri := range got {
			expect := m.Triangle(m.FaceAt(i))
			for j := range tri {
				if tri[j] != ms3.Scale(2, expect[j]) {
					t.Fatalf("buffer %d: triangle %d vertex %d got %v", size, i, j, tri[j])
				}
			}
		}
	}
}

func TestReadBinarySTLErrors(t *testing.T) {
	if _, err := readBinarySTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("short header should fail")
	}
	if _, err := readBinarySTL(bytes.NewReader(make([]byte, sizeOfSTLHeader))); err == nil {
		t.Error("zero triangle count should fail")
	}
	truncated := make([]byte, sizeOfSTLHeader+10)
	truncated[80] = 2
	_, err := readBinarySTL(bytes.NewReader(truncated))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("want unexpected EOF, got %v", err)
	}
	if err := WriteSTL(io.Discard, nil); err == nil {
		t.Error("empty model should fail")
	}
}
