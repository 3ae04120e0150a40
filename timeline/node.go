package timeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/mesh"
)

// BlendMode selects how a node's render output combines with the layers
// below it. The document only stores the choice; compositing happens in the
// rendering layer.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdd
	BlendMultiply
	BlendScreen

	BlendModeCount
)

func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "Normal"
	case BlendAdd:
		return "Add"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	}
	return "Unknown"
}

// nodeLife is the liveness indirection behind weak node references. Destroy
// severs it, so stale Refs read nil instead of dangling.
type nodeLife struct {
	node *Node
}

// Ref is a weak reference to a Node. After the node is destroyed Get returns
// nil; the zero Ref is unset.
type Ref struct {
	life *nodeLife
}

// Get returns the referenced node, or nil when unset or destroyed.
func (r Ref) Get() *Node {
	if r.life == nil {
		return nil
	}
	return r.life.node
}

// Valid reports whether the target is still alive.
func (r Ref) Valid() bool { return r.Get() != nil }

// Node is an element of the animated scene graph. It optionally owns one
// TimeLine and one base mesh.
type Node struct {
	name      string
	parent    *Node
	children  []*Node
	timeline  *TimeLine
	mesh      mesh.Mesh
	depth     float32
	blendMode BlendMode
	clipped   bool
	folded    bool
	life      *nodeLife
}

func NewNode(name string) *Node {
	n := &Node{name: name}
	n.life = &nodeLife{node: n}
	return n
}

// Pointee returns a weak reference that outlives the node safely.
func (n *Node) Pointee() Ref { return Ref{life: n.life} }

// Destroy severs the node's weak references and those of its subtree, and
// detaches it from its parent.
func (n *Node) Destroy() {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.destroySubtree()
}

func (n *Node) destroySubtree() {
	n.life.node = nil
	for _, c := range n.children {
		c.destroySubtree()
	}
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Name() string { return n.name }

func (n *Node) SetName(name string) { n.name = name }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// AddChild appends child and returns it. A child already parented elsewhere
// is detached first.
func (n *Node) AddChild(child *Node) *Node {
	if child == nil {
		return nil
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

func (n *Node) TimeLine() *TimeLine { return n.timeline }

func (n *Node) SetTimeLine(tl *TimeLine) { n.timeline = tl }

// Mesh is the node's base mesh, used when no image key overrides it.
func (n *Node) Mesh() mesh.Mesh { return n.mesh }

func (n *Node) SetMesh(m mesh.Mesh) { n.mesh = m }

func (n *Node) Depth() float32 { return n.depth }

func (n *Node) SetDepth(d float32) { n.depth = d }

func (n *Node) BlendMode() BlendMode { return n.blendMode }

func (n *Node) SetBlendMode(b BlendMode) { n.blendMode = b }

func (n *Node) Clipped() bool { return n.clipped }

func (n *Node) SetClipped(v bool) { n.clipped = v }

// Folded reports whether the node's subtree is collapsed in timeline views.
func (n *Node) Folded() bool { return n.folded }

func (n *Node) SetFolded(v bool) { n.folded = v }

// CenterOffset is the node's geometric center relative to its origin,
// derived from its base mesh. Nodes without geometry sit at the origin.
func (n *Node) CenterOffset() mgl32.Vec3 {
	if n.mesh == nil || n.mesh.VertexCount() == 0 {
		return mgl32.Vec3{}
	}
	ps := n.mesh.Positions()
	min, max := ps[0], ps[0]
	for _, p := range ps[1:] {
		if p.X() < min.X() {
			min[0] = p.X()
		}
		if p.Y() < min.Y() {
			min[1] = p.Y()
		}
		if p.X() > max.X() {
			max[0] = p.X()
		}
		if p.Y() > max.Y() {
			max[1] = p.Y()
		}
	}
	c := min.Add(max).Mul(0.5)
	return mgl32.Vec3{c.X(), c.Y(), 0}
}

// Iterator walks a subtree in pre-order.
type Iterator struct {
	stack []*Node
}

func NewIterator(root *Node) *Iterator {
	it := &Iterator{}
	if root != nil {
		it.stack = []*Node{root}
	}
	return it
}

func (it *Iterator) HasNext() bool { return len(it.stack) > 0 }

func (it *Iterator) Next() *Node {
	if len(it.stack) == 0 {
		return nil
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	for i := len(n.children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, n.children[i])
	}
	return n
}

// Contains reports whether node lies in root's subtree (including root
// itself).
func Contains(root, node *Node) bool {
	for n := node; n != nil; n = n.parent {
		if n == root {
			return true
		}
	}
	return false
}
