package bone

import (
	"github.com/sakuga-dev/sakuga/timeline"
)

// Data owns an ordered forest of top-level bone trees.
type Data struct {
	topBones []*Bone
}

func (d *Data) TopBones() []*Bone { return d.topBones }

// Push appends a top-level bone tree.
func (d *Data) Push(b *Bone) {
	if b == nil {
		return
	}
	d.topBones = append(d.topBones, b)
}

// DeleteAll releases the whole forest.
func (d *Data) DeleteAll() {
	d.topBones = nil
}

// Clone deep-copies the forest. The copy shares no bones with the source.
func (d *Data) Clone() Data {
	var c Data
	for _, top := range d.topBones {
		c.topBones = append(c.topBones, top.Clone())
	}
	return c
}

// IsBinding reports whether any bone in the forest binds n.
func (d *Data) IsBinding(n *timeline.Node) bool {
	for _, top := range d.topBones {
		bound := false
		top.each(func(b *Bone) bool {
			if b.IsBindingNode(n) {
				bound = true
				return false
			}
			return true
		})
		if bound {
			return true
		}
	}
	return false
}

// Key is the bone keyframe: a skeleton forest posed at one frame, plus the
// influence caches derived for the descendant nodes it deforms.
type Key struct {
	timeline.KeyBase
	data       Data
	caches     []*Cache
	cacheOwner timeline.Ref
}

func NewKey(frame int) *Key {
	k := &Key{}
	k.SetFrame(frame)
	return k
}

func (k *Key) Type() timeline.KeyType { return timeline.TypeBone }

func (k *Key) Data() *Data { return &k.data }

// Caches returns the current cache set.
func (k *Key) Caches() []*Cache { return k.caches }

// CacheOwner returns the subtree root the cache set was computed for, or nil.
func (k *Key) CacheOwner() *timeline.Node { return k.cacheOwner.Get() }
