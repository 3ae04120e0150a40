package sakuga

import (
	"io"

	"github.com/sakuga-dev/sakuga/bone"
	"github.com/sakuga-dev/sakuga/stream"
	"github.com/sakuga-dev/sakuga/timeline"
)

// WriteDocument encodes the object tree in pre-order, registering each node
// as it is written, then every node's bone keys in the same order. The
// registration pass is what lets bone-key node references travel as opaque
// IDs.
func WriteDocument(out io.Writer, root *timeline.Node) error {
	w := stream.NewWriter(out)

	if err := writeNode(w, root); err != nil {
		return err
	}
	for it := timeline.NewIterator(root); it.HasNext(); {
		if err := writeBoneLane(w, it.Next()); err != nil {
			return err
		}
	}
	return w.CheckStream()
}

func writeNode(w *stream.Writer, n *timeline.Node) error {
	w.Register(n)
	w.WriteString(n.Name())
	w.WriteFloat32(n.Depth())
	w.WriteInt32(int32(n.BlendMode()))
	w.WriteBool(n.Clipped())
	w.WriteBool(n.Folded())

	w.WriteInt32(int32(len(n.Children())))
	for _, c := range n.Children() {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	return w.CheckStream()
}

func writeBoneLane(w *stream.Writer, n *timeline.Node) error {
	var keys []*bone.Key
	if tl := n.TimeLine(); tl != nil {
		tl.Map(timeline.TypeBone).Each(func(_ int, k timeline.Key) bool {
			if bk, ok := k.(*bone.Key); ok {
				keys = append(keys, bk)
			}
			return true
		})
	}

	w.WriteInt32(int32(len(keys)))
	for _, bk := range keys {
		w.WriteInt32(int32(bk.Frame()))
		if err := bk.Serialize(w); err != nil {
			return err
		}
	}
	return w.CheckStream()
}

// ReadDocument decodes a stream written by WriteDocument. Cross-references
// resolve in a post-pass once the whole tree exists; unmatched IDs leave
// their fields unset.
func ReadDocument(in io.Reader) (*timeline.Node, error) {
	r := stream.NewReader(in)

	root, err := readNode(r)
	if err != nil {
		return nil, err
	}
	for it := timeline.NewIterator(root); it.HasNext(); {
		if err := readBoneLane(r, it.Next()); err != nil {
			return nil, err
		}
	}
	r.Resolve()

	if err := r.CheckStream(); err != nil {
		return nil, err
	}
	return root, nil
}

func readNode(r *stream.Reader) (*timeline.Node, error) {
	r.PushScope("ObjectNode")
	defer r.PopScope()

	n := timeline.NewNode(r.ReadString())
	r.Register(n)
	n.SetDepth(r.ReadFloat32())

	mode := timeline.BlendMode(r.ReadInt32())
	if mode < 0 || mode >= timeline.BlendModeCount {
		return nil, r.Errored("invalid blend mode")
	}
	n.SetBlendMode(mode)
	n.SetClipped(r.ReadBool())
	n.SetFolded(r.ReadBool())

	childCount := r.ReadInt32()
	if childCount < 0 {
		return nil, r.Errored("invalid child count")
	}
	for i := int32(0); i < childCount; i++ {
		child, err := readNode(r)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	if err := r.CheckStream(); err != nil {
		return nil, err
	}
	return n, nil
}

func readBoneLane(r *stream.Reader, n *timeline.Node) error {
	r.PushScope("BoneLane")
	count := r.ReadInt32()
	if count < 0 {
		err := r.Errored("invalid bone key count")
		r.PopScope()
		return err
	}
	r.PopScope()

	for i := int32(0); i < count; i++ {
		frame := r.ReadInt32()
		bk := bone.NewKey(int(frame))
		if err := bk.Deserialize(r); err != nil {
			return err
		}
		if n.TimeLine() == nil {
			n.SetTimeLine(timeline.NewTimeLine())
		}
		n.TimeLine().Push(bk)
	}
	return r.CheckStream()
}
