// Package bone holds the skeleton model: the bone forest owned by a bone key,
// the per-node influence caches derived from it, and the codec that persists
// both with deferred node references.
package bone

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/stream"
	"github.com/sakuga-dev/sakuga/timeline"
)

// Bone is one node of a skeleton tree. Its local position is the tip offset
// relative to the parent tip, its local angle accumulates down the chain, and
// the two range vectors describe the influence falloff at the bone's root and
// tip (x: full-weight radius, y: falloff band width).
type Bone struct {
	name       string
	localPos   mgl32.Vec2
	localAngle float32
	rangeRoot  mgl32.Vec2
	rangeTip   mgl32.Vec2
	bindings   []timeline.Ref

	parent   *Bone
	children []*Bone
}

func NewBone(name string) *Bone {
	return &Bone{name: name}
}

func (b *Bone) Name() string { return b.name }

func (b *Bone) SetName(name string) { b.name = name }

func (b *Bone) LocalPos() mgl32.Vec2 { return b.localPos }

func (b *Bone) SetLocalPos(p mgl32.Vec2) { b.localPos = p }

func (b *Bone) LocalAngle() float32 { return b.localAngle }

func (b *Bone) SetLocalAngle(a float32) { b.localAngle = a }

// Range returns the influence ranges at the bone's root and tip.
func (b *Bone) Range() (root, tip mgl32.Vec2) { return b.rangeRoot, b.rangeTip }

func (b *Bone) SetRange(root, tip mgl32.Vec2) {
	b.rangeRoot = root
	b.rangeTip = tip
}

func (b *Bone) Parent() *Bone { return b.parent }

func (b *Bone) Children() []*Bone { return b.children }

// AddChild appends child and returns it.
func (b *Bone) AddChild(child *Bone) *Bone {
	if child == nil {
		return nil
	}
	child.parent = b
	b.children = append(b.children, child)
	return child
}

// BindNode attaches a node to this bone so posing the bone deforms it.
func (b *Bone) BindNode(n *timeline.Node) {
	if n == nil || b.IsBindingNode(n) {
		return
	}
	b.bindings = append(b.bindings, n.Pointee())
}

// UnbindNode removes the binding for n, if present.
func (b *Bone) UnbindNode(n *timeline.Node) {
	for i, ref := range b.bindings {
		if ref.Get() == n {
			b.bindings = append(b.bindings[:i], b.bindings[i+1:]...)
			return
		}
	}
}

// IsBindingNode reports whether this bone binds n.
func (b *Bone) IsBindingNode(n *timeline.Node) bool {
	if n == nil {
		return false
	}
	for _, ref := range b.bindings {
		if ref.Get() == n {
			return true
		}
	}
	return false
}

// Bindings returns the bound nodes that are still alive.
func (b *Bone) Bindings() []*timeline.Node {
	var nodes []*timeline.Node
	for _, ref := range b.bindings {
		if n := ref.Get(); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Clone deep-copies the bone and its whole subtree. The copy shares no bones
// with the source; node bindings refer to the same nodes.
func (b *Bone) Clone() *Bone {
	c := &Bone{
		name:       b.name,
		localPos:   b.localPos,
		localAngle: b.localAngle,
		rangeRoot:  b.rangeRoot,
		rangeTip:   b.rangeTip,
	}
	c.bindings = append(c.bindings, b.bindings...)
	for _, child := range b.children {
		c.AddChild(child.Clone())
	}
	return c
}

// each visits the subtree in pre-order until fn returns false.
func (b *Bone) each(fn func(*Bone) bool) bool {
	if !fn(b) {
		return false
	}
	for _, child := range b.children {
		if !child.each(fn) {
			return false
		}
	}
	return true
}

// Serialize writes the bone's own field block. Children are handled by the
// key's forest walk.
func (b *Bone) Serialize(w *stream.Writer) {
	w.WriteString(b.name)
	w.WriteVec2(b.localPos)
	w.WriteFloat32(b.localAngle)
	w.WriteVec2(b.rangeRoot)
	w.WriteVec2(b.rangeTip)

	w.WriteInt32(int32(len(b.bindings)))
	for _, ref := range b.bindings {
		w.WriteRef(ref.Get())
	}
}

// Deserialize reads the field block written by Serialize. Binding references
// resolve after the whole node graph exists; an unmatched ID drops the
// binding.
func (b *Bone) Deserialize(r *stream.Reader) error {
	b.name = r.ReadString()
	b.localPos = r.ReadVec2()
	b.localAngle = r.ReadFloat32()
	b.rangeRoot = r.ReadVec2()
	b.rangeTip = r.ReadVec2()

	bindingCount := r.ReadInt32()
	if bindingCount < 0 {
		return r.Errored("invalid binding count")
	}
	for i := int32(0); i < bindingCount; i++ {
		if !r.OrderRef(func(obj any) {
			if n, ok := obj.(*timeline.Node); ok {
				b.bindings = append(b.bindings, n.Pointee())
			}
		}) {
			return r.Errored("invalid binding reference id")
		}
	}
	return r.CheckStream()
}

// segment is one bone rendered into world space for weight computation.
type segment struct {
	origin mgl32.Vec2
	end    mgl32.Vec2
	range0 mgl32.Vec2
	range1 mgl32.Vec2
}

// flattenSegments renders the forest into world-space segments in pre-order,
// capped at max bones. A top bone has a degenerate segment at its own tip.
func flattenSegments(tops []*Bone, max int) []segment {
	var segs []segment

	var walk func(b *Bone, parentTip mgl32.Vec2, parentAngle float32, top bool) bool
	walk = func(b *Bone, parentTip mgl32.Vec2, parentAngle float32, top bool) bool {
		if len(segs) >= max {
			return false
		}
		angle := parentAngle + b.localAngle
		tip := parentTip.Add(mgl32.Rotate2D(parentAngle).Mul2x1(b.localPos))

		origin := parentTip
		if top {
			origin = tip
		}
		segs = append(segs, segment{
			origin: origin,
			end:    tip,
			range0: b.rangeRoot,
			range1: b.rangeTip,
		})
		for _, child := range b.children {
			if !walk(child, tip, angle, false) {
				return false
			}
		}
		return true
	}

	for _, top := range tops {
		if !walk(top, mgl32.Vec2{}, 0, true) {
			break
		}
	}
	return segs
}
