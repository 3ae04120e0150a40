package timeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/mesh"
	"github.com/sakuga-dev/sakuga/resource"
)

// gridCell is the vertex spacing of meshes derived from image resources.
const gridCell = 32

// ImageKey binds an image resource to a frame. The grid mesh derived from
// the bound resource is cached and rebuilt lazily after invalidation.
type ImageKey struct {
	KeyBase
	res  resource.Handle
	grid *mesh.GridMesh
}

func NewImageKey(frame int, h resource.Handle) *ImageKey {
	k := &ImageKey{res: h}
	k.SetFrame(frame)
	return k
}

func (k *ImageKey) Type() KeyType { return TypeImage }

func (k *ImageKey) Resource() resource.Handle { return k.res }

// SetResource swaps the bound resource. The derived mesh stays stale until
// ResetMesh.
func (k *ImageKey) SetResource(h resource.Handle) { k.res = h }

// ResetMesh drops the derived grid mesh; the next Mesh call rebuilds it from
// the bound resource with a fresh frame sign.
func (k *ImageKey) ResetMesh() { k.grid = nil }

// Mesh returns the grid mesh for the bound resource, building it on demand.
// An empty handle yields an empty mesh.
func (k *ImageKey) Mesh() *mesh.GridMesh {
	if k.grid != nil {
		return k.grid
	}
	if !k.res.Valid() {
		k.grid = mesh.NewGridMesh(0, 0, mgl32.Vec2{}, gridCell)
		return k.grid
	}
	img := k.res.Get()
	sz := img.Size()
	k.grid = mesh.NewGridMesh(float32(sz.X), float32(sz.Y), img.Pos(), gridCell)
	return k.grid
}
