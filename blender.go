package sakuga

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/mesh"
	"github.com/sakuga-dev/sakuga/timeline"
)

// docBlender resolves time-dependent node state from the document itself:
// meshes come from the newest image key at or before the frame, transforms
// from the newest SRT key on each ancestor.
type docBlender struct{}

func (docBlender) AreaMesh(node *timeline.Node, frame int) mesh.Mesh {
	if tl := node.TimeLine(); tl != nil {
		if k := lastKeyAt(tl.Map(timeline.TypeImage), frame); k != nil {
			return k.(*timeline.ImageKey).Mesh()
		}
	}
	return node.Mesh()
}

func (docBlender) RelativeMatrix(node, owner *timeline.Node, frame int) mgl32.Mat4 {
	var sum mgl32.Vec2
	for n := node; n != nil && n != owner; n = n.Parent() {
		sum = sum.Add(srtPosAt(n, frame))
	}
	return mgl32.Translate3D(sum.X(), sum.Y(), 0)
}

// lastKeyAt returns the newest key at or before frame, or nil.
func lastKeyAt(m *timeline.KeyMap, frame int) timeline.Key {
	var found timeline.Key
	m.Range(math.MinInt32, frame, func(_ int, k timeline.Key) bool {
		found = k
		return true
	})
	return found
}

func srtPosAt(n *timeline.Node, frame int) mgl32.Vec2 {
	if tl := n.TimeLine(); tl != nil {
		if k := lastKeyAt(tl.Map(timeline.TypeSRT), frame); k != nil {
			return k.(*timeline.SRTKey).Pos
		}
	}
	return mgl32.Vec2{}
}
