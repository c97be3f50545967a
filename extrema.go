package dfield

// Extrema holds the smallest and largest samples of a heightmap.
type Extrema struct {
	Min, Max uint8
}

// saturated reports whether no further sample can change e.
func (e Extrema) saturated() bool {
	return e.Min == 0 && e.Max == maxPixel
}

func (e *Extrema) include(v uint8) {
	if v < e.Min {
		e.Min = v
	}
	if v > e.Max {
		e.Max = v
	}
}

// ScanExtrema returns the minimum and maximum samples of hm.
func ScanExtrema(hm *Heightmap) (Extrema, error) {
	if hm.Empty() {
		return Extrema{}, ErrEmptyImage
	}
	e := Extrema{Min: maxPixel, Max: 0}
	for _, v := range hm.Pix[:hm.Width*hm.Height] {
		e.include(v)
		if e.saturated() {
			break
		}
	}
	return e, nil
}

// ScanBorderExtrema is like ScanExtrema but only samples the outermost
// ring of pixels: the top and bottom rows and the left and right columns.
func ScanBorderExtrema(hm *Heightmap) (Extrema, error) {
	if hm.Empty() {
		return Extrema{}, ErrEmptyImage
	}
	e := Extrema{Min: maxPixel, Max: 0}
	last := hm.Height - 1
	for x := 0; x < hm.Width; x++ {
		e.include(hm.At(x, 0))
		e.include(hm.At(x, last))
		if e.saturated() {
			return e, nil
		}
	}
	last = hm.Width - 1
	for y := 1; y < hm.Height-1; y++ {
		e.include(hm.At(0, y))
		e.include(hm.At(last, y))
		if e.saturated() {
			break
		}
	}
	return e, nil
}
