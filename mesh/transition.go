package mesh

import "github.com/go-gl/mathgl/mgl32"

// Transition remaps a key's pre-swap geometry onto the anchor position of a
// newly bound resource, so the swap can blend instead of snapping.
type Transition struct {
	// Positions is the previous geometry translated into the new anchor's
	// frame, one entry per vertex of the post-swap mesh.
	Positions []mgl32.Vec2
	// Offset is the anchor delta that was applied.
	Offset mgl32.Vec2
}

// Valid reports whether the transition holds any remapped geometry.
func (t *Transition) Valid() bool {
	return t != nil && len(t.Positions) > 0
}

// TransitionCreator snapshots a mesh and its anchor before a resource swap
// mutates them. Create is called after the swap with the new state.
type TransitionCreator struct {
	oldPositions []mgl32.Vec2
	oldAnchor    mgl32.Vec2
}

// NewTransitionCreator copies the current geometry of m as the pre-mutation
// baseline.
func NewTransitionCreator(m Mesh, anchor mgl32.Vec2) *TransitionCreator {
	c := &TransitionCreator{oldAnchor: anchor}
	if m != nil {
		c.oldPositions = append(c.oldPositions, m.Positions()...)
	}
	return c
}

// Create maps the snapshot onto the new anchor position. When the post-swap
// vertex count differs from the snapshot, no transition is produced: blending
// mismatched buffers would pair unrelated vertices, so the swap falls back to
// a plain replacement.
func (c *TransitionCreator) Create(newPositions []mgl32.Vec2, vertexCount int, newAnchor mgl32.Vec2) (Transition, bool) {
	if vertexCount <= 0 || vertexCount != len(c.oldPositions) {
		return Transition{}, false
	}
	offset := newAnchor.Sub(c.oldAnchor)
	out := make([]mgl32.Vec2, vertexCount)
	for i, p := range c.oldPositions {
		out[i] = p.Add(offset)
	}
	return Transition{Positions: out, Offset: offset}, true
}

// Workspace carries the transition datasets produced while one resource
// update transaction applies. The transaction releases it after its one-time
// apply step; it is never shared across transactions.
type Workspace struct {
	transitions map[any]*Transition
}

func NewWorkspace() *Workspace {
	return &Workspace{transitions: make(map[any]*Transition)}
}

// MakeSureTransition returns the transition slot for key, creating it if
// needed.
func (ws *Workspace) MakeSureTransition(key any) *Transition {
	if t, ok := ws.transitions[key]; ok {
		return t
	}
	t := &Transition{}
	ws.transitions[key] = t
	return t
}

// Transition returns the stored transition for key, or nil.
func (ws *Workspace) Transition(key any) *Transition {
	if ws == nil {
		return nil
	}
	return ws.transitions[key]
}

// Len returns the number of stored transitions.
func (ws *Workspace) Len() int {
	if ws == nil {
		return 0
	}
	return len(ws.transitions)
}
