package main

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
)

func TestOutputPath(t *testing.T) {
	for _, test := range []struct{ in, want string }{
		{"height.png", "height_output.png"},
		{"dir/map.v2.JPG", "dir/map.v2_output.JPG"},
		{"terrain.tiff", "terrain_output.tiff"},
		{"terrain.webp", "terrain_output.png"},
		{"noext", "noext_output.png"},
	} {
		if got := outputPath(test.in, "output"); got != test.want {
			t.Errorf("outputPath(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestEncodersLossless(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 5, 3))
	for i := range g.Pix {
		g.Pix[i] = uint8(i * 17)
	}
	for ext, enc := range encoders {
		if ext == ".jpg" || ext == ".jpeg" {
			continue
		}
		var buf bytes.Buffer
		if err := enc(&buf, g); err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		img, _, err := image.Decode(&buf)
		if err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		for y := 0; y < 3; y++ {
			for x := 0; x < 5; x++ {
				got := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
				if got != g.GrayAt(x, y).Y {
					t.Fatalf("%s: pixel (%d,%d) got %d, want %d", ext, x, y, got, g.GrayAt(x, y).Y)
				}
			}
		}
	}
}

func writeInput(t *testing.T, name string, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x * y * 7) % 256)})
		}
	}
	path := filepath.Join(t.TempDir(), name)
	if err := saveImage(path, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	const w, h = 20, 12
	input := writeInput(t, "hm.bmp", w, h)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-interactive=false", "-radius", "8", "-obj", "-stl", "-preview", "10", "-print-config", input},
		nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	fp, err := os.Open(stem(input) + "_output.bmp")
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	out, _, err := image.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds().Dx() != w || out.Bounds().Dy() != h {
		t.Errorf("output size %v", out.Bounds())
	}
	mesh, err := fauxgl.LoadOBJ(stem(input) + "_output.obj")
	if err != nil {
		t.Fatal(err)
	}
	stl, err := fauxgl.LoadSTL(stem(input) + "_output.stl")
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Triangles) == 0 || len(mesh.Triangles) != len(stl.Triangles) {
		t.Errorf("OBJ has %d triangles, STL has %d", len(mesh.Triangles), len(stl.Triangles))
	}
	pfp, err := os.Open(stem(input) + "_preview.png")
	if err != nil {
		t.Fatal(err)
	}
	defer pfp.Close()
	cfg, _, err := image.DecodeConfig(pfp)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width > 10 || cfg.Height > 10 {
		t.Errorf("preview %dx%d larger than 10", cfg.Width, cfg.Height)
	}
	if !bytes.Contains(stdout.Bytes(), []byte("radius: 8")) {
		t.Errorf("printed config missing radius:\n%s", stdout.String())
	}
	if !bytes.Contains(stderr.Bytes(), []byte("image saved")) {
		t.Errorf("logs not written to the given stderr:\n%s", stderr.String())
	}
	if bytes.Contains(stdout.Bytes(), []byte("image saved")) {
		t.Error("logs leaked into stdout")
	}
}

func TestRunErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.png")
	if code := run([]string{"-interactive=false", missing}, nil, io.Discard, io.Discard); code != 1 {
		t.Errorf("missing input: exit code %d", code)
	}
	if code := run(nil, nil, io.Discard, io.Discard); code != 1 {
		t.Errorf("no arguments: exit code %d", code)
	}
	if code := run([]string{"-h"}, nil, io.Discard, io.Discard); code != 0 {
		t.Errorf("help: exit code %d", code)
	}
}
