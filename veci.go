/*

Integer 2D grid vectors

*/

package dfield

// V2i is a 2D integer vector. Used for grid offsets and coordinates.
type V2i [2]int

// Add adds two vectors. Return v = a + b.
func (a V2i) Add(b V2i) V2i {
	return V2i{a[0] + b[0], a[1] + b[1]}
}

// Norm2 returns the squared euclidean length of a.
func (a V2i) Norm2() int {
	return a[0]*a[0] + a[1]*a[1]
}

// AbsMax returns the largest absolute component of a (Chebyshev length).
func (a V2i) AbsMax() int {
	return max(iabs(a[0]), iabs(a[1]))
}
