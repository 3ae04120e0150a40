// Package mesh holds the geometry types the document engine computes against:
// the mesh surface consumed by the cache engine, grid meshes derived from
// image resources, and the transition datasets built when a key's resource is
// swapped.
package mesh

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a deformable surface resolved for a (node, frame) pair.
type Mesh interface {
	VertexCount() int
	Positions() []mgl32.Vec2
	// FrameSign tags the state the mesh was built from. Caches computed
	// against a different sign are stale.
	FrameSign() int32
}

var frameSignCounter atomic.Int32

// NextFrameSign returns a fresh validity epoch for a newly built mesh.
func NextFrameSign() int32 {
	return frameSignCounter.Add(1)
}

// GridMesh is a regular grid of vertices covering an image rectangle.
type GridMesh struct {
	positions []mgl32.Vec2
	cols      int
	rows      int
	frameSign int32
}

// NewGridMesh builds a grid over a width x height rectangle anchored at
// origin, with at most cell pixels between vertices. Degenerate dimensions
// yield an empty mesh.
func NewGridMesh(width, height float32, origin mgl32.Vec2, cell float32) *GridMesh {
	m := &GridMesh{frameSign: NextFrameSign()}
	if width <= 0 || height <= 0 {
		return m
	}
	if cell <= 0 {
		cell = 32
	}
	cols := int(width/cell) + 1
	rows := int(height/cell) + 1
	m.cols = cols + 1
	m.rows = rows + 1
	for y := 0; y <= rows; y++ {
		py := origin.Y() + height*float32(y)/float32(rows)
		for x := 0; x <= cols; x++ {
			px := origin.X() + width*float32(x)/float32(cols)
			m.positions = append(m.positions, mgl32.Vec2{px, py})
		}
	}
	return m
}

func (m *GridMesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.positions)
}

func (m *GridMesh) Positions() []mgl32.Vec2 {
	if m == nil {
		return nil
	}
	return m.positions
}

func (m *GridMesh) FrameSign() int32 {
	if m == nil {
		return 0
	}
	return m.frameSign
}
