package dfield

import "math/rand"

// heightmapFromRows builds a heightmap from raster rows, top row first.
func heightmapFromRows(rows [][]uint8) *Heightmap {
	hm := NewHeightmap(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(hm.Pix[y*hm.Width:], row)
	}
	return hm
}

// randomHeightmap returns a reproducible heightmap with samples in [lo, hi].
func randomHeightmap(width, height int, lo, hi uint8, seed int64) *Heightmap {
	rng := rand.New(rand.NewSource(seed))
	hm := NewHeightmap(width, height)
	for i := range hm.Pix {
		hm.Pix[i] = lo + uint8(rng.Intn(int(hi-lo)+1))
	}
	return hm
}

func uniformHeightmap(width, height int, v uint8) *Heightmap {
	hm := NewHeightmap(width, height)
	for i := range hm.Pix {
		hm.Pix[i] = v
	}
	return hm
}

func mustMesh(t interface{ Fatal(...any) }, hm *Heightmap, s Settings) *Mesh {
	m, err := BuildMesh(hm, s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
