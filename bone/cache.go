package bone

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/mesh"
	"github.com/sakuga-dev/sakuga/timeline"
	"github.com/sakuga-dev/sakuga/worker"
)

// maxBoneCount caps how many bones one cache's influence map may reference.
const maxBoneCount = 32

// Blender resolves time-dependent node state for cache recomputation.
type Blender interface {
	// AreaMesh returns the node's effective mesh at frame, or nil when the
	// node has no geometry there.
	AreaMesh(node *timeline.Node, frame int) mesh.Mesh
	// RelativeMatrix returns the node's world transform relative to owner
	// at frame.
	RelativeMatrix(node, owner *timeline.Node, frame int) mgl32.Mat4
}

// Project is the document context a recompute runs against.
type Project interface {
	Blender() Blender
	Paralleler() *worker.Pool
	// CacheLock guards cache bookkeeping against concurrent readers. It does
	// not cover the asynchronous weight computation itself.
	CacheLock() *sync.RWMutex
}

// Cache is the derived influence state for one descendant node: the weight
// map, the node's inner transform relative to the cache owner, and the frame
// sign of the mesh it was computed from. The node reference is weak and, once
// set, stable until the cache is destroyed.
type Cache struct {
	influence InfluenceMap
	node      timeline.Ref
	innerMtx  mgl32.Mat4
	frameSign int32
}

func NewCache() *Cache {
	c := &Cache{innerMtx: mgl32.Ident4()}
	c.influence.SetMaxBoneCount(maxBoneCount)
	return c
}

func (c *Cache) setNode(n *timeline.Node) {
	c.node = n.Pointee()
}

// Node returns the cached node, or nil after it was destroyed.
func (c *Cache) Node() *timeline.Node { return c.node.Get() }

func (c *Cache) Influence() *InfluenceMap { return &c.influence }

func (c *Cache) InnerMatrix() mgl32.Mat4 { return c.innerMtx }

func (c *Cache) FrameSign() int32 { return c.frameSign }

// UpdateCaches recomputes the given caches against the current forest.
// Bookkeeping runs synchronously under the project's cache lock; the weight
// computation itself is queued on the worker pool and woken once per batch.
func (k *Key) UpdateCaches(p Project, targets []*Cache) {
	if len(targets) == 0 {
		return
	}
	owner := k.cacheOwner.Get()
	if owner == nil {
		panic("bone: update caches without an owner")
	}

	lock := p.CacheLock()
	lock.Lock()
	defer lock.Unlock()

	for _, cache := range targets {
		node := cache.node.Get()
		if node == nil {
			panic("bone: cache without a node")
		}

		m := p.Blender().AreaMesh(node, k.Frame())
		if m == nil {
			continue
		}
		cache.frameSign = m.FrameSign()
		if m.VertexCount() <= 0 {
			continue
		}

		center := node.CenterOffset()
		inner := p.Blender().RelativeMatrix(node, owner, k.Frame())
		inner = inner.Mul4(mgl32.Translate3D(-center.X(), -center.Y(), -center.Z()))
		cache.innerMtx = inner

		cache.influence.Allocate(m.VertexCount(), false)
		cache.influence.WriteAsync(p.Paralleler(), k.data.topBones, cache.innerMtx, m)
	}

	p.Paralleler().WakeAll()
}

// UpdateCachesUnder recomputes only the caches whose nodes fall under the
// given subtree roots within owner. Roots outside owner are skipped.
// Rebinding the owner while a cache set for a different owner is attached is
// a programmer error.
func (k *Key) UpdateCachesUnder(p Project, owner *timeline.Node, uniqueRoots []*timeline.Node) {
	if owner == nil {
		panic("bone: update caches under a nil owner")
	}

	var targets []*Cache
	seen := make(map[*Cache]bool)

	for _, root := range uniqueRoots {
		if root == nil {
			panic("bone: nil subtree root")
		}
		if !timeline.Contains(owner, root) {
			continue
		}
		for it := timeline.NewIterator(root); it.HasNext(); {
			if cache := k.findCache(it.Next()); cache != nil && !seen[cache] {
				seen[cache] = true
				targets = append(targets, cache)
			}
		}
	}

	if prev := k.cacheOwner.Get(); prev != nil && prev != owner {
		panic("bone: cache owner rebind while attached")
	}
	k.cacheOwner = owner.Pointee()

	k.UpdateCaches(p, targets)
}

// ResetCaches rebuilds the cache set for owner's current descendant set.
// Caches for nodes still in the set keep their identity, nodes new to the set
// get fresh caches, and caches whose nodes dropped out are destroyed. The
// surviving set is then recomputed.
func (k *Key) ResetCaches(p Project, owner *timeline.Node) {
	if owner == nil {
		panic("bone: reset caches for a nil owner")
	}
	if prev := k.cacheOwner.Get(); prev != nil && prev != owner {
		panic("bone: cache owner rebind while attached")
	}

	var next []*Cache
	for it := timeline.NewIterator(owner); it.HasNext(); {
		node := it.Next()

		m := p.Blender().AreaMesh(node, k.Frame())
		if m == nil || m.VertexCount() <= 0 {
			continue
		}

		cache := k.popCache(node)
		if cache == nil {
			cache = NewCache()
			cache.setNode(node)
		}
		next = append(next, cache)
	}

	k.DestroyCaches()
	k.caches = next
	k.cacheOwner = owner.Pointee()

	k.UpdateCaches(p, k.caches)
}

// popCache removes and returns the cache for node, or nil.
func (k *Key) popCache(node *timeline.Node) *Cache {
	for i, cache := range k.caches {
		if n := cache.node.Get(); n != nil && n == node {
			k.caches = append(k.caches[:i], k.caches[i+1:]...)
			return cache
		}
	}
	return nil
}

// findCache returns the cache for node, or nil.
func (k *Key) findCache(node *timeline.Node) *Cache {
	for _, cache := range k.caches {
		if n := cache.node.Get(); n != nil && n == node {
			return cache
		}
	}
	return nil
}

// DestroyCaches drops the cache set and releases the owner.
func (k *Key) DestroyCaches() {
	k.caches = nil
	k.cacheOwner = timeline.Ref{}
}
