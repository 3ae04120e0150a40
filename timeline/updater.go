package timeline

import (
	"github.com/sakuga-dev/sakuga/mesh"
	"github.com/sakuga-dev/sakuga/resource"
	"github.com/sakuga-dev/sakuga/undo"
)

// updateTarget is one image key affected by a resource event, with the
// handles needed to replay the swap in either direction.
type updateTarget struct {
	key  *ImageKey
	prev resource.Handle
	next resource.Handle
}

// resourceUpdater batch-swaps every image key whose bound resource is named
// in a resource event. Transition datasets are generated only during the
// one-time apply; undo and redo just replay the handles and invalidate the
// derived meshes.
type resourceUpdater struct {
	line              *TimeLine
	event             *resource.Event
	targets           []updateTarget
	workspace         *mesh.Workspace
	createTransitions bool
}

// NewResourceUpdater builds the swap transaction for node. A node without a
// timeline has nothing to update: the result is nil and callers must treat
// that as "nothing to do".
func NewResourceUpdater(node *Node, event *resource.Event, workspace *mesh.Workspace, createTransitions bool) undo.Command {
	if node == nil || node.TimeLine() == nil {
		return nil
	}
	return &resourceUpdater{
		line:              node.TimeLine(),
		event:             event,
		workspace:         workspace,
		createTransitions: createTransitions,
	}
}

func (u *resourceUpdater) Exec() {
	u.line.Map(TypeImage).Each(func(_ int, k Key) bool {
		imgKey, ok := k.(*ImageKey)
		if !ok {
			panic("timeline: non-image key in image lane")
		}
		if next, ok := u.event.FindTarget(imgKey.Resource().SerialAddress()); ok {
			u.targets = append(u.targets, updateTarget{
				key:  imgKey,
				prev: imgKey.Resource(),
				next: next,
			})
		}
		return true
	})

	for _, t := range u.targets {
		// snapshot geometry and anchor before the swap mutates them
		creator := mesh.NewTransitionCreator(t.key.Mesh(), t.prev.Get().Pos())

		t.key.SetResource(t.next)
		t.key.ResetMesh()

		if u.createTransitions {
			rebuilt := t.key.Mesh()
			if tr, ok := creator.Create(rebuilt.Positions(), rebuilt.VertexCount(), t.next.Get().Pos()); ok {
				*u.workspace.MakeSureTransition(t.key) = tr
			}
		}
	}
	u.workspace = nil // finish using
}

func (u *resourceUpdater) Redo() {
	for _, t := range u.targets {
		t.key.SetResource(t.next)
		t.key.ResetMesh()
	}
}

func (u *resourceUpdater) Undo() {
	for _, t := range u.targets {
		t.key.SetResource(t.prev)
		t.key.ResetMesh()
	}
}
