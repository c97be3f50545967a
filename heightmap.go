package dfield

import (
	"image"
)

// Heightmap is a single channel 8-bit raster. Row 0 is the top row of
// the source image, as in package image.
type Heightmap struct {
	Width, Height int
	Pix           []uint8
}

// NewHeightmap returns a zeroed width×height heightmap.
func NewHeightmap(width, height int) *Heightmap {
	width = max(width, 0)
	height = max(height, 0)
	return &Heightmap{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// HeightmapFromImage samples the first channel of img: red for colour
// images and luma for gray ones. Source images are expected to be
// monochrome so the other channels are ignored.
func HeightmapFromImage(img image.Image) *Heightmap {
	b := img.Bounds()
	hm := NewHeightmap(b.Dx(), b.Dy())
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < hm.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(hm.Pix[y*hm.Width:(y+1)*hm.Width], src.Pix[off:off+hm.Width])
		}
	case *image.RGBA:
		for y := 0; y < hm.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < hm.Width; x++ {
				hm.Pix[y*hm.Width+x] = src.Pix[off+4*x]
			}
		}
	case *image.NRGBA:
		for y := 0; y < hm.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < hm.Width; x++ {
				hm.Pix[y*hm.Width+x] = src.Pix[off+4*x]
			}
		}
	default:
		for y := 0; y < hm.Height; y++ {
			for x := 0; x < hm.Width; x++ {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				hm.Pix[y*hm.Width+x] = uint8(r >> 8)
			}
		}
	}
	return hm
}

// At returns the sample at column x and raster row y.
func (hm *Heightmap) At(x, y int) uint8 {
	return hm.Pix[y*hm.Width+x]
}

// Set sets the sample at column x and raster row y.
func (hm *Heightmap) Set(x, y int, v uint8) {
	hm.Pix[y*hm.Width+x] = v
}

// Empty reports whether the heightmap has no pixels.
func (hm *Heightmap) Empty() bool {
	return hm == nil || hm.Width <= 0 || hm.Height <= 0
}
