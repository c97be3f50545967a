package dfield

import (
	"errors"

	"github.com/chewxy/math32"
)

const (
	// DefaultRadius is the search radius used when none is configured.
	DefaultRadius = 64
	// DefaultChunkSize is the side length of the square pixel blocks
	// evaluated concurrently by the distance field computer.
	DefaultChunkSize = 64
	// maxPixel is the largest 8-bit sample value.
	maxPixel = 255
)

var (
	// ErrEmptyImage is returned when a heightmap has no pixels.
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrDistanceCount is returned when the number of distance records
	// does not match the output image dimensions.
	ErrDistanceCount = errors.New("distance count does not match image dimensions")
)

// wrap returns c modulo n in the range [0, n). Assumes n > 0.
func wrap(c, n int) int {
	c %= n
	if c < 0 {
		c += n
	}
	return c
}

// clampi clamps x between a and b, assume a <= b.
func clampi(x, a, b int) int {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

func iabs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float32) float32 {
	return math32.Min(b, math32.Max(x, a))
}

// isFinite reports whether f is neither NaN nor infinite.
func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
