package bone

import (
	"github.com/sakuga-dev/sakuga/stream"
	"github.com/sakuga-dev/sakuga/timeline"
)

// Serialize encodes the forest in pre-order, then the cache set. Node
// references go out as opaque IDs; the caller must have registered the node
// graph on the writer in document order.
func (k *Key) Serialize(w *stream.Writer) error {
	w.WriteInt32(int32(len(k.data.topBones)))
	for _, top := range k.data.topBones {
		if err := serializeBone(w, top); err != nil {
			return err
		}
	}

	w.WriteRef(k.cacheOwner.Get())

	w.WriteInt32(int32(len(k.caches)))
	for _, cache := range k.caches {
		w.WriteRef(cache.node.Get())
		w.WriteMat4(cache.innerMtx)
		w.WriteInt32(cache.frameSign)
		if err := cache.influence.Serialize(w); err != nil {
			return err
		}
	}

	return w.CheckStream()
}

func serializeBone(w *stream.Writer, b *Bone) error {
	b.Serialize(w)

	w.WriteInt32(int32(len(b.children)))
	for _, child := range b.children {
		if err := serializeBone(w, child); err != nil {
			return err
		}
	}
	return w.CheckStream()
}

// Deserialize decodes a block written by Serialize. The forest and cache set
// are cleared up front, and again on any failure, so a corrupt stream never
// leaves partially populated state observable. Node references resolve in the
// reader's post-pass; an unmatched ID leaves the field unset.
func (k *Key) Deserialize(r *stream.Reader) error {
	k.data.DeleteAll()
	k.DestroyCaches()

	if err := k.deserialize(r); err != nil {
		k.data.DeleteAll()
		k.DestroyCaches()
		return err
	}
	return nil
}

func (k *Key) deserialize(r *stream.Reader) error {
	r.PushScope("BoneKey")
	defer r.PopScope()

	topBoneCount := r.ReadInt32()
	if topBoneCount < 0 {
		return r.Errored("invalid top bone count")
	}
	for i := int32(0); i < topBoneCount; i++ {
		top := NewBone("")
		k.data.Push(top)
		if err := deserializeBone(r, top); err != nil {
			return err
		}
	}

	if !r.OrderRef(func(obj any) {
		if n, ok := obj.(*timeline.Node); ok {
			k.cacheOwner = n.Pointee()
		}
	}) {
		return r.Errored("invalid cache owner reference id")
	}

	cacheCount := r.ReadInt32()
	if cacheCount < 0 {
		return r.Errored("invalid cache count")
	}
	for i := int32(0); i < cacheCount; i++ {
		cache := NewCache()
		k.caches = append(k.caches, cache)

		if !r.OrderRef(func(obj any) {
			if n, ok := obj.(*timeline.Node); ok {
				cache.setNode(n)
			}
		}) {
			return r.Errored("invalid cache reference id")
		}

		cache.innerMtx = r.ReadMat4()
		cache.frameSign = r.ReadInt32()

		if err := cache.influence.Deserialize(r); err != nil {
			return err
		}
	}

	return r.CheckStream()
}

func deserializeBone(r *stream.Reader, b *Bone) error {
	if err := b.Deserialize(r); err != nil {
		return err
	}

	childCount := r.ReadInt32()
	if childCount < 0 {
		return r.Errored("invalid child count")
	}
	for i := int32(0); i < childCount; i++ {
		if err := deserializeBone(r, b.AddChild(NewBone(""))); err != nil {
			return err
		}
	}
	return r.CheckStream()
}
