package dfield

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/chewxy/math32"
	"gonum.org/v1/plot/cmpimg"
)

func TestEncodeImageFlip(t *testing.T) {
	// Mesh rows bottom first.
	dists := []Dist{
		{0, 0, 0}, {1, 0, 2}, {2, 0, 10},
		{0, 1, 10}, {1, 1, 10}, {2, 1, 0},
	}
	img, err := EncodeImage(3, 2, dists)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]uint8{
		{0, 0, 255},
		{255, 204, 0},
	}
	for y, row := range want {
		for x, v := range row {
			if got := img.GrayAt(x, y).Y; got != v {
				t.Errorf("(%d,%d): got %d, want %d", x, y, got, v)
			}
		}
	}
}

func TestEncodeImageDegenerate(t *testing.T) {
	for _, d := range []float32{0, math32.Inf(1)} {
		dists := make([]Dist, 6)
		for i := range dists {
			dists[i] = Dist{X: i % 3, Y: i / 3, D: d}
		}
		img, err := EncodeImage(3, 2, dists)
		if err != nil {
			t.Fatal(err)
		}
		for i, p := range img.Pix {
			if p != 255 {
				t.Fatalf("distance %v: pixel %d is %d, want 255", d, i, p)
			}
		}
	}
}

func TestEncodeImageCount(t *testing.T) {
	if _, err := EncodeImage(2, 2, make([]Dist, 3)); !errors.Is(err, ErrDistanceCount) {
		t.Errorf("want ErrDistanceCount, got %v", err)
	}
	img, err := EncodeImage(0, 0, nil)
	if err != nil || img.Bounds().Dx() != 0 {
		t.Errorf("empty encode: %v %v", img, err)
	}
}

func TestMaxDistance(t *testing.T) {
	const n = 1<<16 + 7
	dists := make([]Dist, n)
	for i := range dists {
		dists[i].D = float32(i % 1000)
	}
	dists[n-1].D = 5000
	dists[3].D = math32.Inf(1)
	if got := maxDistance(dists); got != 5000 {
		t.Errorf("got %v, want 5000", got)
	}
	if got := maxDistance(nil); got != 0 {
		t.Errorf("empty: got %v", got)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	hm := randomHeightmap(40, 30, 0, 255, 20)
	s := Settings{Radius: 6, HeightMult: 1}
	m := mustMesh(t, hm, s)
	var encoded [2][]byte
	for i, c := range []Computer{{Workers: 1}, {Workers: 4, ChunkSize: 9}} {
		img, err := EncodeImage(m.Width, m.Height, c.Compute(m, s, m.Extrema))
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		encoded[i] = buf.Bytes()
	}
	equal, err := cmpimg.EqualApprox("png", encoded[0], encoded[1], 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("encoded images differ between worker configurations")
	}
}
