package dfield

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Boundary selects how the heightmap is extended past its edges.
type Boundary uint8

const (
	// BoundaryRepeat tiles the heightmap periodically so searches near one
	// edge see vertices from the opposite edge.
	BoundaryRepeat Boundary = iota
	// BoundaryClamp replicates the edge samples outwards.
	BoundaryClamp
)

func (b Boundary) String() string {
	switch b {
	case BoundaryRepeat:
		return "repeat"
	case BoundaryClamp:
		return "clamp"
	}
	return "Boundary(" + strconv.Itoa(int(b)) + ")"
}

// ParseBoundary parses "repeat" or "clamp" (case insensitive).
// The numeric prompt answers "1" and "2" are accepted as well.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "repeat", "1":
		return BoundaryRepeat, nil
	case "clamp", "2":
		return BoundaryClamp, nil
	}
	return 0, fmt.Errorf("unknown boundary %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Boundary) MarshalText() ([]byte, error) {
	if b > BoundaryClamp {
		return nil, fmt.Errorf("invalid boundary %d", b)
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Boundary) UnmarshalText(text []byte) error {
	v, err := ParseBoundary(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// CaptureHeight is either generated from the heightmap maximum or a user
// supplied 8-bit value. The zero value is Generated.
type CaptureHeight struct {
	UserDefined bool
	Value       uint8
}

// GeneratedHeight returns a CaptureHeight derived from the image maximum.
func GeneratedHeight() CaptureHeight { return CaptureHeight{} }

// UserHeight returns a fixed CaptureHeight.
func UserHeight(v uint8) CaptureHeight { return CaptureHeight{UserDefined: true, Value: v} }

func (h CaptureHeight) String() string {
	if !h.UserDefined {
		return "generated"
	}
	return strconv.Itoa(int(h.Value))
}

// ParseCaptureHeight parses "generated" (or an empty string) and 0..255.
func ParseCaptureHeight(s string) (CaptureHeight, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "generated" || s == "auto" {
		return GeneratedHeight(), nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return CaptureHeight{}, fmt.Errorf("capture height %q: %w", s, err)
	}
	return UserHeight(uint8(v)), nil
}

// MarshalText implements encoding.TextMarshaler.
func (h CaptureHeight) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *CaptureHeight) UnmarshalText(text []byte) error {
	v, err := ParseCaptureHeight(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Settings configures mesh generation and distance computation.
// It is built once and passed by value to every stage.
type Settings struct {
	// Radius is the search radius and skirt depth in pixels. A pixel value
	// of 255 maps to a height of Radius*HeightMult.
	Radius     int           `yaml:"radius"`
	Boundary   Boundary      `yaml:"boundary"`
	Height     CaptureHeight `yaml:"height"`
	HeightMult float32       `yaml:"height_mult"`
}

// DefaultSettings returns radius 64, repeat boundary, generated capture
// height and a height multiplier of 1.
func DefaultSettings() Settings {
	return Settings{
		Radius:     DefaultRadius,
		Boundary:   BoundaryRepeat,
		Height:     GeneratedHeight(),
		HeightMult: 1,
	}
}

// Validate checks the settings can produce a well defined mesh.
func (s Settings) Validate() error {
	switch {
	case s.Radius <= 0:
		return fmt.Errorf("radius must be positive, got %d", s.Radius)
	case math32.IsNaN(s.HeightMult) || math32.IsInf(s.HeightMult, 0) || s.HeightMult <= 0:
		return fmt.Errorf("height multiplier must be positive and finite, got %v", s.HeightMult)
	case s.Boundary > BoundaryClamp:
		return fmt.Errorf("invalid boundary %d", s.Boundary)
	}
	return nil
}

// PixelHeight converts an 8-bit sample to a mesh height. The capture
// height uses the same conversion so both share units.
func (s Settings) PixelHeight(v uint8) float32 {
	return float32(v) / maxPixel * float32(s.Radius) * s.HeightMult
}

// CaptureBasis returns the 8-bit value the capture height derives from.
func (s Settings) CaptureBasis(ext Extrema) uint8 {
	if s.Height.UserDefined {
		return s.Height.Value
	}
	return ext.Max
}

// CaptureZ returns the height of the capture points above the mesh origin.
func (s Settings) CaptureZ(ext Extrema) float32 {
	return s.PixelHeight(s.CaptureBasis(ext))
}

// MaxRadius returns the largest horizontal distance at which a vertex can
// still be the nearest one to a capture point. Beyond it the vertex right
// below the capture point is always closer. The result never exceeds
// Radius nor the smaller image dimension.
func (s Settings) MaxRadius(ext Extrema, width, height int) int {
	basis := int(s.CaptureBasis(ext))
	span := max(basis-int(ext.Min), int(ext.Max)-basis, 0)
	limit := min(s.Radius, width, height)
	if limit <= 0 {
		return 0
	}
	r := float32(s.Radius) * float32(span) / maxPixel * s.HeightMult
	if !(r < float32(limit)) {
		// Also catches overflow to +Inf.
		return limit
	}
	return max(int(math32.Floor(r)), 0)
}
