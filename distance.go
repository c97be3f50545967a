package dfield

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/soypat/dfield/internal/d3"
	"github.com/soypat/glgl/math/ms3"
	"go.uber.org/zap"
)

// Dist is the distance from the capture point above pixel (X, Y) to the
// nearest mesh vertex. Coordinates are in mesh space (y up).
type Dist struct {
	X, Y int
	D    float32
}

// SearchMethod selects the nearest vertex search used by a Computer.
type SearchMethod uint8

const (
	// SearchSpiral walks a distance sorted offset list around each pixel
	// and stops as soon as no farther offset can be closer.
	SearchSpiral SearchMethod = iota
	// SearchKDTree queries a k-d tree over all mesh vertices.
	SearchKDTree
)

func (sm SearchMethod) String() string {
	switch sm {
	case SearchSpiral:
		return "spiral"
	case SearchKDTree:
		return "kdtree"
	}
	return fmt.Sprintf("SearchMethod(%d)", uint8(sm))
}

// ParseSearchMethod parses "spiral" or "kdtree".
func ParseSearchMethod(s string) (SearchMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spiral", "":
		return SearchSpiral, nil
	case "kdtree", "kd":
		return SearchKDTree, nil
	}
	return 0, fmt.Errorf("unknown search method %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (sm SearchMethod) MarshalText() ([]byte, error) {
	if sm > SearchKDTree {
		return nil, fmt.Errorf("invalid search method %d", sm)
	}
	return []byte(sm.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sm *SearchMethod) UnmarshalText(text []byte) error {
	v, err := ParseSearchMethod(string(text))
	if err != nil {
		return err
	}
	*sm = v
	return nil
}

// Computer evaluates distance fields over a mesh. The zero value is ready
// to use.
type Computer struct {
	// Workers is the number of goroutines evaluating chunks.
	// Defaults to runtime.NumCPU.
	Workers int
	// ChunkSize is the side length of the square pixel blocks handed to
	// workers. Defaults to DefaultChunkSize.
	ChunkSize int
	Method    SearchMethod
	// Log receives debug information. May be nil.
	Log *zap.Logger
}

// ComputeDistances returns the distance of every pixel of m sorted by
// (Y, X), using a Computer with default parameters.
func ComputeDistances(m *Mesh, s Settings, ext Extrema) []Dist {
	var c Computer
	return c.Compute(m, s, ext)
}

// Compute returns one Dist per pixel of m sorted by (Y, X). The capture
// height is derived from s and ext. Chunks are evaluated concurrently; m
// and the search structures are only read during evaluation.
func (c Computer) Compute(m *Mesh, s Settings, ext Extrema) []Dist {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	captureZ := s.CaptureZ(ext)

	start := time.Now()
	var search func(x, y int) float32
	switch c.Method {
	case SearchKDTree:
		vt := NewVertexTree(m)
		log.Debug("k-d tree built", zap.Int("vertices", len(m.Vertices())), zap.Duration("elapsed", time.Since(start)))
		search = func(x, y int) float32 {
			return vt.Distance(capturePoint(x, y, captureZ))
		}
	default:
		sp := NewSpiral(m.UsableRadius)
		log.Debug("spiral generated", zap.Int("offsets", len(sp)), zap.Int("radius", m.UsableRadius))
		search = func(x, y int) float32 {
			return spiralDistance(m, sp, x, y, captureZ)
		}
	}

	chunks := chunkGrid(m.Width, m.Height, size)
	results := make([][]Dist, len(chunks))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(chunks)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each chunk index is received by exactly one worker.
				results[i] = chunks[i].evaluate(search)
			}
		}()
	}
	for i := range chunks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	dists := make([]Dist, 0, m.Width*m.Height)
	for _, r := range results {
		dists = append(dists, r...)
	}
	sortDists(dists)
	log.Debug("distances computed",
		zap.Stringer("method", c.Method),
		zap.Int("chunks", len(chunks)),
		zap.Int("workers", workers),
		zap.Float32("captureZ", captureZ),
		zap.Duration("elapsed", time.Since(start)),
	)
	return dists
}

// capturePoint returns the query point above the centre of pixel (x, y).
func capturePoint(x, y int, z float32) ms3.Vec {
	return ms3.Vec{X: float32(x) + 0.5, Y: float32(y) + 0.5, Z: z}
}

// spiralDistance returns the distance from the capture point above pixel
// (x, y) to the nearest vertex visited by sp.
//
// Vertices and capture points both sit at cell centres so an offset's
// components are its exact horizontal displacement, which bounds the 3D
// distance from below. Since sp is sorted by distance, the walk may stop
// at the first offset whose displacement along an axis exceeds the best
// distance found.
//
// Repeat meshes have a skirt at least as wide as the spiral radius so
// every offset lands inside the extended grid. Clamp meshes have a one
// cell skirt and offsets landing outside it are skipped.
func spiralDistance(m *Mesh, sp Spiral, x, y int, captureZ float32) float32 {
	p := capturePoint(x, y, captureZ)
	best := math32.Inf(1)
	skipOutside := m.Boundary == BoundaryClamp
	zero := m.ZeroIndex()
	for _, off := range sp {
		if float32(iabs(off[0])) > best || float32(iabs(off[1])) > best {
			break
		}
		c := V2i{x, y}.Add(off)
		if skipOutside && !m.Contains(c[0], c[1]) {
			continue
		}
		d := d3.Distance(m.verts[zero+c[0]+m.ExtWidth*c[1]], p)
		if d < best {
			best = d
		}
	}
	return best
}

// chunk is a half open rectangle of pixels [x0,x1)×[y0,y1).
type chunk struct {
	x0, y0, x1, y1 int
}

// chunkGrid splits a width×height pixel grid into size×size chunks. Chunks
// on the right and top edges are clipped to the grid.
func chunkGrid(width, height, size int) []chunk {
	var chunks []chunk
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			chunks = append(chunks, chunk{
				x0: x, y0: y,
				x1: min(x+size, width), y1: min(y+size, height),
			})
		}
	}
	return chunks
}

func (c chunk) evaluate(search func(x, y int) float32) []Dist {
	dists := make([]Dist, 0, (c.x1-c.x0)*(c.y1-c.y0))
	for y := c.y0; y < c.y1; y++ {
		for x := c.x0; x < c.x1; x++ {
			dists = append(dists, Dist{X: x, Y: y, D: search(x, y)})
		}
	}
	return dists
}

// sortDists sorts d in row major order, by Y then X.
func sortDists(d []Dist) {
	sort.Slice(d, func(i, j int) bool {
		if d[i].Y != d[j].Y {
			return d[i].Y < d[j].Y
		}
		return d[i].X < d[j].X
	})
}
