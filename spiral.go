package dfield

import "sort"

// Spiral is a list of grid offsets sorted by ascending distance from the
// origin. Walking it visits the cells around a point nearest first.
type Spiral []V2i

// NewSpiral returns every offset of the square [-radius, radius]² sorted
// by ascending dx²+dy². The order of offsets at equal distance is
// unspecified. A negative radius is treated as zero.
func NewSpiral(radius int) Spiral {
	radius = max(radius, 0)
	side := 2*radius + 1
	sp := make(Spiral, 0, side*side)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			sp = append(sp, V2i{dx, dy})
		}
	}
	sort.Slice(sp, func(i, j int) bool {
		return sp[i].Norm2() < sp[j].Norm2()
	})
	return sp
}

// Radius returns the largest component of the offsets in the spiral.
func (sp Spiral) Radius() int {
	if len(sp) == 0 {
		return 0
	}
	// The square's corners are the farthest offsets so they are last.
	return sp[len(sp)-1].AbsMax()
}
