package sakuga

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/bone"
	"github.com/sakuga-dev/sakuga/config"
	"github.com/sakuga-dev/sakuga/mesh"
	"github.com/sakuga-dev/sakuga/resource"
	"github.com/sakuga-dev/sakuga/timeline"
)

func newProject(t *testing.T) *Project {
	t.Helper()
	p := NewProject("test", config.Default())
	t.Cleanup(p.Close)
	return p
}

func newHandle(name string, w, h int) resource.Handle {
	img := resource.NewImage(name, image.NewNRGBA(image.Rect(0, 0, w, h)))
	return resource.NewHandle(img)
}

type attrCall struct {
	node   *timeline.Node
	undone bool
}

func TestAssignDepth(t *testing.T) {
	p := newProject(t)
	node := p.Root().AddChild(timeline.NewNode("layer"))

	var calls []attrCall
	p.SetOnNodeAttributeModified(func(n *timeline.Node, undone bool) {
		calls = append(calls, attrCall{node: n, undone: undone})
	})

	p.AssignDepth(node, 5)
	if node.Depth() != 5 {
		t.Fatalf("depth not applied")
	}
	if len(calls) != 1 || calls[0].node != node || calls[0].undone {
		t.Fatalf("expected one executed notification, got %+v", calls)
	}

	if label := p.Stack().Undo(); label != "assign node depth" {
		t.Fatalf("unexpected undo label %q", label)
	}
	if node.Depth() != 0 {
		t.Fatalf("undo did not restore depth")
	}
	if len(calls) != 2 || !calls[1].undone {
		t.Fatalf("expected an undone notification, got %+v", calls)
	}

	p.Stack().Redo()
	if node.Depth() != 5 {
		t.Fatalf("redo did not reapply depth")
	}
	if len(calls) != 3 || calls[2].undone {
		t.Fatalf("expected a redone notification, got %+v", calls)
	}
}

func TestAssignSameValueLeavesNoHistory(t *testing.T) {
	p := newProject(t)
	node := p.Root().AddChild(timeline.NewNode("layer"))

	p.AssignDepth(node, node.Depth())
	p.AssignClipped(node, node.Clipped())
	p.AssignBlendMode(node, node.BlendMode())

	if p.Stack().CanUndo() {
		t.Fatalf("no-value-change edits must leave no history entry")
	}
}

func TestAssignBlendModeAndClipped(t *testing.T) {
	p := newProject(t)
	node := p.Root().AddChild(timeline.NewNode("layer"))

	p.AssignBlendMode(node, timeline.BlendAdd)
	p.AssignClipped(node, true)

	if node.BlendMode() != timeline.BlendAdd || !node.Clipped() {
		t.Fatalf("attributes not applied")
	}

	p.Stack().Undo() // clipping
	p.Stack().Undo() // blend mode
	if node.BlendMode() != timeline.BlendNormal || node.Clipped() {
		t.Fatalf("undo order wrong: mode=%v clipped=%v", node.BlendMode(), node.Clipped())
	}
}

func TestUpdateResourcesThroughProject(t *testing.T) {
	p := newProject(t)
	node := p.Root().AddChild(timeline.NewNode("layer"))
	node.SetTimeLine(timeline.NewTimeLine())

	a := newHandle("a", 64, 64)
	b := newHandle("b", 64, 64)
	key := timeline.NewImageKey(0, a)
	node.TimeLine().Push(key)

	ev := resource.NewEvent()
	ev.Append(a.SerialAddress(), b)

	if !p.UpdateResources(node, ev, false) {
		t.Fatalf("expected the swap to construct")
	}
	if key.Resource() != b {
		t.Fatalf("swap not applied")
	}
	p.Stack().Undo()
	if key.Resource() != a {
		t.Fatalf("undo did not restore handle")
	}

	// a node without a timeline has nothing to update
	if p.UpdateResources(timeline.NewNode("bare"), ev, false) {
		t.Fatalf("bare node must report nothing to do")
	}
}

func TestAreaMeshPrefersImageKey(t *testing.T) {
	p := newProject(t)
	node := p.Root().AddChild(timeline.NewNode("layer"))
	node.SetTimeLine(timeline.NewTimeLine())
	base := mesh.NewGridMesh(16, 16, mgl32.Vec2{}, 32)
	node.SetMesh(base)

	key := timeline.NewImageKey(10, newHandle("a", 64, 64))
	node.TimeLine().Push(key)

	if got := p.Blender().AreaMesh(node, 12); got.FrameSign() != key.Mesh().FrameSign() {
		t.Fatalf("frame at or after the key must use the key mesh")
	}
	if got := p.Blender().AreaMesh(node, 5); got.FrameSign() != base.FrameSign() {
		t.Fatalf("frame before the key must fall back to the base mesh")
	}
}

func TestRelativeMatrixAccumulatesTranslation(t *testing.T) {
	p := newProject(t)
	owner := p.Root().AddChild(timeline.NewNode("owner"))
	mid := owner.AddChild(timeline.NewNode("mid"))
	leaf := mid.AddChild(timeline.NewNode("leaf"))

	mid.SetTimeLine(timeline.NewTimeLine())
	srt := timeline.NewSRTKey(0)
	srt.Pos = mgl32.Vec2{3, 4}
	mid.TimeLine().Push(srt)

	got := p.Blender().RelativeMatrix(leaf, owner, 0)
	if want := mgl32.Translate3D(3, 4, 0); got != want {
		t.Fatalf("relative matrix mismatch:\n%v\nwant\n%v", got, want)
	}
}

func TestProjectDrivesCacheEngine(t *testing.T) {
	p := newProject(t)
	owner := p.Root().AddChild(timeline.NewNode("owner"))
	a := owner.AddChild(timeline.NewNode("a"))
	a.SetMesh(mesh.NewGridMesh(64, 64, mgl32.Vec2{}, 32))

	k := bone.NewKey(0)
	k.Data().Push(bone.NewBone("spine"))

	k.ResetCaches(p, owner)
	p.Paralleler().Drain()

	caches := k.Caches()
	if len(caches) != 1 || caches[0].Node() != a {
		t.Fatalf("expected one cache bound to the meshed node")
	}
	if !caches[0].Influence().Ready() {
		t.Fatalf("influence computation should settle after drain")
	}
}
