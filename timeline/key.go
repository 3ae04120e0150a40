// Package timeline holds the animated document model: typed keyframes in
// per-type ordered frame maps, the scene-graph nodes that own them, the
// reversible resource-update transaction, and the focus structure that turns
// pixel queries into key selections.
package timeline

import "github.com/go-gl/mathgl/mgl32"

// KeyType tags a keyframe with the property lane it animates.
type KeyType int

const (
	TypeSRT KeyType = iota
	TypeOpacity
	TypeBone
	TypePose
	TypeMesh
	TypeFFD
	TypeImage

	TypeCount
)

func (t KeyType) String() string {
	switch t {
	case TypeSRT:
		return "SRT"
	case TypeOpacity:
		return "Opacity"
	case TypeBone:
		return "Bone"
	case TypePose:
		return "Pose"
	case TypeMesh:
		return "Mesh"
	case TypeFFD:
		return "FFD"
	case TypeImage:
		return "Image"
	}
	return "Unknown"
}

// FocusToken marks keys hit by the current focus query. Each query constructs
// a fresh token; keys still carrying an older token read as unfocused.
// The struct is deliberately non-empty so every token gets a distinct address.
type FocusToken struct {
	_ byte
}

// Key is a single typed keyframe at an integer frame. A key is owned by
// exactly one TimeLine slot.
type Key interface {
	Type() KeyType
	Frame() int
	SetFrame(int)
	SetFocus(*FocusToken)
	Focus() *FocusToken
}

// KeyBase carries the fields shared by every key kind. Concrete keys embed
// it and add their own data.
type KeyBase struct {
	frame int
	focus *FocusToken
}

func (k *KeyBase) Frame() int { return k.frame }

func (k *KeyBase) SetFrame(f int) { k.frame = f }

func (k *KeyBase) SetFocus(t *FocusToken) { k.focus = t }

func (k *KeyBase) Focus() *FocusToken { return k.focus }

// SRTKey animates a node's translate/rotate/scale.
type SRTKey struct {
	KeyBase
	Pos    mgl32.Vec2
	Rotate float32
	Scale  mgl32.Vec2
}

func NewSRTKey(frame int) *SRTKey {
	k := &SRTKey{Scale: mgl32.Vec2{1, 1}}
	k.SetFrame(frame)
	return k
}

func (k *SRTKey) Type() KeyType { return TypeSRT }

// OpacityKey animates a node's opacity.
type OpacityKey struct {
	KeyBase
	Opacity float32
}

func NewOpacityKey(frame int, opacity float32) *OpacityKey {
	k := &OpacityKey{Opacity: opacity}
	k.SetFrame(frame)
	return k
}

func (k *OpacityKey) Type() KeyType { return TypeOpacity }

// FFDKey stores free-form vertex offsets against the node's mesh.
type FFDKey struct {
	KeyBase
	Offsets []mgl32.Vec2
}

func NewFFDKey(frame int) *FFDKey {
	k := &FFDKey{}
	k.SetFrame(frame)
	return k
}

func (k *FFDKey) Type() KeyType { return TypeFFD }
