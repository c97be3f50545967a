package dfield

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
)

// EncodeImage converts distances sorted by (Y, X) into a grayscale image of
// the given dimensions. The closest points are white: a pixel is
// 255 - round(d/maxd*255) where maxd is the largest distance. Mesh rows
// grow upwards while image rows grow downwards so the image is flipped
// vertically. If every distance is zero the image is all white.
func EncodeImage(width, height int, dists []Dist) (*image.Gray, error) {
	if width < 0 || height < 0 || len(dists) != width*height {
		return nil, fmt.Errorf("%w: %dx%d image, %d distances", ErrDistanceCount, width, height, len(dists))
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	maxd := maxDistance(dists)
	if maxd <= 0 || !isFinite(maxd) {
		for i := range img.Pix {
			img.Pix[i] = maxPixel
		}
		return img, nil
	}
	for r := 0; r < height; r++ {
		row := dists[(height-1-r)*width : (height-r)*width]
		pix := img.Pix[r*img.Stride : r*img.Stride+width]
		for c, d := range row {
			pix[c] = maxPixel - uint8(math32.Round(Clamp(d.D/maxd, 0, 1)*maxPixel))
		}
	}
	return img, nil
}

// maxDistance returns the largest finite distance in dists, reducing
// fixed size slices concurrently.
func maxDistance(dists []Dist) float32 {
	const minPerWorker = 1 << 14
	workers := min(runtime.NumCPU(), len(dists)/minPerWorker+1)
	per := (len(dists) + workers - 1) / workers
	partial := make([]float32, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := min(w*per, len(dists))
		hi := min(lo+per, len(dists))
		wg.Add(1)
		go func(w int, part []Dist) {
			defer wg.Done()
			var m float32
			for _, d := range part {
				if d.D > m && isFinite(d.D) {
					m = d.D
				}
			}
			partial[w] = m
		}(w, dists[lo:hi])
	}
	wg.Wait()
	var m float32
	for _, p := range partial {
		m = math32.Max(m, p)
	}
	return m
}
