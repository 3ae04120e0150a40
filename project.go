// Package sakuga ties the document engine together: the object tree, the
// edit history, the worker pool for influence computation, and the attribute
// edit operations an editor host drives.
package sakuga

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sakuga-dev/sakuga/bone"
	"github.com/sakuga-dev/sakuga/config"
	"github.com/sakuga-dev/sakuga/mesh"
	"github.com/sakuga-dev/sakuga/resource"
	"github.com/sakuga-dev/sakuga/timeline"
	"github.com/sakuga-dev/sakuga/undo"
	"github.com/sakuga-dev/sakuga/worker"
)

// AttributeObserver is told when a node attribute edit lands. undone is true
// when the change arrives via undo.
type AttributeObserver func(n *timeline.Node, undone bool)

// Project is one open document.
type Project struct {
	id        uuid.UUID
	name      string
	cfg       config.Config
	root      *timeline.Node
	stack     *undo.Stack
	pool      *worker.Pool
	blender   bone.Blender
	cacheLock sync.RWMutex
	frame     int

	onNodeAttributeModified AttributeObserver
}

func NewProject(name string, cfg config.Config) *Project {
	return &Project{
		id:      uuid.New(),
		name:    name,
		cfg:     cfg,
		root:    timeline.NewNode("top"),
		stack:   undo.NewStack(cfg.UndoLimit),
		pool:    worker.NewPool(cfg.Workers),
		blender: docBlender{},
	}
}

func (p *Project) ID() uuid.UUID { return p.id }

func (p *Project) Name() string { return p.name }

func (p *Project) Config() config.Config { return p.cfg }

// Root is the top of the object tree.
func (p *Project) Root() *timeline.Node { return p.root }

func (p *Project) Stack() *undo.Stack { return p.stack }

// Frame is the current document time.
func (p *Project) Frame() int { return p.frame }

func (p *Project) SetFrame(f int) { p.frame = f }

func (p *Project) Blender() bone.Blender { return p.blender }

func (p *Project) Paralleler() *worker.Pool { return p.pool }

func (p *Project) CacheLock() *sync.RWMutex { return &p.cacheLock }

// SetOnNodeAttributeModified installs the host hook fired by attribute edit
// macros, on execute, undo, and redo alike.
func (p *Project) SetOnNodeAttributeModified(fn AttributeObserver) {
	p.onNodeAttributeModified = fn
}

func (p *Project) notifyNodeAttribute(n *timeline.Node, undone bool) {
	if p.onNodeAttributeModified != nil {
		p.onNodeAttributeModified(n, undone)
	}
}

// NewFocus builds a focus query over rows using the configured timeline
// metrics.
func (p *Project) NewFocus(rows []timeline.Row) *timeline.Focus {
	scale := timeline.Scale{FrameWidth: p.cfg.Timeline.FrameWidth}
	return timeline.NewFocus(rows, scale, p.cfg.Timeline.Margin)
}

// Close stops the worker pool. In-flight influence computations run to
// completion first.
func (p *Project) Close() {
	p.pool.Close()
}

// nodeAttrNotifier reports an attribute macro's outcome to the host, once per
// history entry.
type nodeAttrNotifier struct {
	project *Project
	node    *timeline.Node
}

func (n *nodeAttrNotifier) OnExecuted() { n.project.notifyNodeAttribute(n.node, false) }

func (n *nodeAttrNotifier) OnUndone() { n.project.notifyNodeAttribute(n.node, true) }

func (n *nodeAttrNotifier) OnRedone() { n.project.notifyNodeAttribute(n.node, false) }

// AssignDepth sets target's render depth as one undoable unit.
func (p *Project) AssignDepth(target *timeline.Node, depth float32) {
	if target == nil {
		return
	}
	prev := target.Depth()
	if prev == depth {
		return
	}
	p.stack.BeginMacro("assign node depth")
	p.stack.GrabListener(&nodeAttrNotifier{project: p, node: target})
	p.stack.Push(undo.NewDelegate(
		func() { target.SetDepth(depth) },
		func() { target.SetDepth(prev) },
	))
	p.stack.EndMacro()
}

// AssignBlendMode sets target's blend mode as one undoable unit.
func (p *Project) AssignBlendMode(target *timeline.Node, mode timeline.BlendMode) {
	if target == nil {
		return
	}
	prev := target.BlendMode()
	if prev == mode {
		return
	}
	p.stack.BeginMacro("assign blend mode")
	p.stack.GrabListener(&nodeAttrNotifier{project: p, node: target})
	p.stack.Push(undo.NewDelegate(
		func() { target.SetBlendMode(mode) },
		func() { target.SetBlendMode(prev) },
	))
	p.stack.EndMacro()
}

// AssignClipped sets target's clipping flag as one undoable unit.
func (p *Project) AssignClipped(target *timeline.Node, clipped bool) {
	if target == nil {
		return
	}
	prev := target.Clipped()
	if prev == clipped {
		return
	}
	p.stack.BeginMacro("assign node clipping flag")
	p.stack.GrabListener(&nodeAttrNotifier{project: p, node: target})
	p.stack.Push(undo.NewDelegate(
		func() { target.SetClipped(clipped) },
		func() { target.SetClipped(prev) },
	))
	p.stack.EndMacro()
}

// WatchResources opens a watcher over the configured resource directories.
// Its events feed UpdateResources.
func (p *Project) WatchResources() (*resource.Watcher, error) {
	return resource.NewWatcher(p.cfg.ResourceDirs...)
}

// UpdateResources batch-swaps node's image keys per the event. Returns false
// when the node has nothing to update.
func (p *Project) UpdateResources(node *timeline.Node, ev *resource.Event, createTransitions bool) bool {
	cmd := timeline.NewResourceUpdater(node, ev, mesh.NewWorkspace(), createTransitions)
	if cmd == nil {
		return false
	}
	p.stack.Push(cmd)
	return true
}
