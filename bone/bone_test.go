package bone

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/timeline"
)

// buildForest returns a forest with depth 3 and branching 2 at the root.
func buildForest() *Data {
	d := &Data{}

	spine := NewBone("spine")
	spine.SetLocalPos(mgl32.Vec2{0, 10})
	spine.SetLocalAngle(0.2)
	spine.SetRange(mgl32.Vec2{4, 2}, mgl32.Vec2{6, 3})

	armL := spine.AddChild(NewBone("arm.l"))
	armL.SetLocalPos(mgl32.Vec2{-8, 0})
	armL.AddChild(NewBone("hand.l")).SetLocalPos(mgl32.Vec2{-6, 0})

	armR := spine.AddChild(NewBone("arm.r"))
	armR.SetLocalPos(mgl32.Vec2{8, 0})
	armR.AddChild(NewBone("hand.r")).SetLocalPos(mgl32.Vec2{6, 0})

	d.Push(spine)

	tail := NewBone("tail")
	tail.SetLocalPos(mgl32.Vec2{0, -5})
	d.Push(tail)

	return d
}

func sameShape(t *testing.T, a, b *Bone) {
	t.Helper()
	if a.Name() != b.Name() {
		t.Fatalf("name mismatch: %q vs %q", a.Name(), b.Name())
	}
	if a.LocalPos() != b.LocalPos() || a.LocalAngle() != b.LocalAngle() {
		t.Fatalf("transform mismatch on %q", a.Name())
	}
	ar0, ar1 := a.Range()
	br0, br1 := b.Range()
	if ar0 != br0 || ar1 != br1 {
		t.Fatalf("range mismatch on %q", a.Name())
	}
	if len(a.Children()) != len(b.Children()) {
		t.Fatalf("child count mismatch on %q: %d vs %d",
			a.Name(), len(a.Children()), len(b.Children()))
	}
	for i := range a.Children() {
		sameShape(t, a.Children()[i], b.Children()[i])
	}
}

func TestDataClone(t *testing.T) {
	src := buildForest()
	clone := src.Clone()

	if len(clone.TopBones()) != len(src.TopBones()) {
		t.Fatalf("top bone count mismatch")
	}
	for i := range src.TopBones() {
		sameShape(t, src.TopBones()[i], clone.TopBones()[i])
	}

	// no node sharing
	seen := map[*Bone]bool{}
	for _, top := range src.TopBones() {
		top.each(func(b *Bone) bool { seen[b] = true; return true })
	}
	for _, top := range clone.TopBones() {
		top.each(func(b *Bone) bool {
			if seen[b] {
				t.Fatalf("clone shares bone %q with source", b.Name())
			}
			return true
		})
	}

	// mutating the clone never touches the source
	clone.TopBones()[0].SetName("mutated")
	clone.TopBones()[0].AddChild(NewBone("extra"))
	if src.TopBones()[0].Name() != "spine" {
		t.Fatalf("source name changed by clone mutation")
	}
	if len(src.TopBones()[0].Children()) != 2 {
		t.Fatalf("source children changed by clone mutation")
	}
}

func TestDataIsBinding(t *testing.T) {
	d := buildForest()
	node := timeline.NewNode("layer")
	other := timeline.NewNode("other")

	if d.IsBinding(node) {
		t.Fatalf("fresh forest binds nothing")
	}

	// bind on a deep bone
	d.TopBones()[0].Children()[0].Children()[0].BindNode(node)
	if !d.IsBinding(node) {
		t.Fatalf("expected binding to be found")
	}
	if d.IsBinding(other) {
		t.Fatalf("unrelated node must not be bound")
	}

	// the binding is weak: a destroyed node reads as unbound
	node.Destroy()
	if d.IsBinding(node) {
		t.Fatalf("destroyed node must read as unbound")
	}
}

func TestBoneBindUnbind(t *testing.T) {
	b := NewBone("b")
	n := timeline.NewNode("n")

	b.BindNode(n)
	b.BindNode(n) // duplicate is a no-op
	if len(b.Bindings()) != 1 {
		t.Fatalf("expected one binding, got %d", len(b.Bindings()))
	}

	b.UnbindNode(n)
	if b.IsBindingNode(n) {
		t.Fatalf("unbind should remove the binding")
	}
}

func TestCloneKeepsBindings(t *testing.T) {
	n := timeline.NewNode("layer")
	src := NewBone("b")
	src.BindNode(n)

	clone := src.Clone()
	if !clone.IsBindingNode(n) {
		t.Fatalf("clone should bind the same node")
	}

	clone.UnbindNode(n)
	if !src.IsBindingNode(n) {
		t.Fatalf("unbinding the clone must not touch the source")
	}
}
