package timeline

import (
	"image"
	"math"
)

// Scale converts between frame indices and horizontal pixels.
type Scale struct {
	FrameWidth int // pixels per frame
}

// Frame returns the frame index nearest to the pixel offset.
func (s Scale) Frame(px int) int {
	if s.FrameWidth <= 0 {
		return 0
	}
	return int(math.Round(float64(px) / float64(s.FrameWidth)))
}

// PixelWidth returns the pixel offset of a frame index.
func (s Scale) PixelWidth(frame int) int {
	return frame * s.FrameWidth
}

// Row is one visible timeline row: a node and its inclusive pixel bounds.
// A closed-folder row stands in for its whole collapsed subtree, so keys of
// hidden descendants still hit-test inside it; an open row covers only its
// own node, descendants having rows of their own.
type Row struct {
	Node         *Node
	Rect         image.Rectangle
	ClosedFolder bool
}

// keyHeight returns the vertical center of lane validIndex out of validNum
// lanes stacked within the row.
func (r Row) keyHeight(validIndex, validNum int) int {
	if validNum <= 0 {
		return r.Rect.Min.Y
	}
	return r.Rect.Min.Y + r.Rect.Dy()*(2*validIndex+1)/(2*validNum)
}

// Single identifies one focused key.
type Single struct {
	Node  *Node
	Line  *TimeLine
	Type  KeyType
	Frame int
}

func (s Single) Valid() bool {
	return s.Node != nil && s.Line != nil
}

// Event accumulates the keys matched by a focus selection as edit targets.
type Event struct {
	targets []EventTarget
}

// EventTarget addresses one key for a subsequent edit operation.
type EventTarget struct {
	Node  *Node
	Type  KeyType
	Frame int
}

func (e *Event) PushTarget(n *Node, t KeyType, frame int) {
	e.targets = append(e.targets, EventTarget{Node: n, Type: t, Frame: frame})
}

func (e *Event) Targets() []EventTarget { return e.targets }

func (e *Event) Empty() bool { return len(e.targets) == 0 }

// Focus is the transient selection state over the visible timeline rows: a
// frame range crossed with a vertical pixel range, hit-tested against each
// row's per-type lanes.
type Focus struct {
	rows        []Row
	scale       Scale
	token       *FocusToken
	point       image.Point
	left        int // frame range
	right       int
	top         int // pixel range
	bottom      int
	found       bool
	viewChanged bool
	margin      int
	radius      int
}

// NewFocus builds a focus over the given rows. margin is the fixed pixel
// inset of the frame area within each row.
func NewFocus(rows []Row, scale Scale, margin int) *Focus {
	return &Focus{
		rows:   rows,
		scale:  scale,
		margin: margin,
		radius: 5,
	}
}

// ResetAt anchors the focus at point and hit-tests a ±2 pixel window around
// it, stopping at the first match.
func (f *Focus) ResetAt(point image.Point) Single {
	f.point = point
	f.left = f.scale.Frame((point.X - 2) - f.margin)
	f.right = f.scale.Frame((point.X + 2) - f.margin)
	f.top = point.Y
	f.bottom = point.Y

	single := f.updateMarks(true)

	found := single.Valid()
	f.viewChanged = found != f.found
	f.found = found
	return single
}

// UpdateTo extends the range from the anchor point to point, normalizing the
// drag direction, and collects every match.
func (f *Focus) UpdateTo(point image.Point) bool {
	frame0 := f.scale.Frame(f.point.X - f.margin)
	frame1 := f.scale.Frame(point.X - f.margin)
	if frame0 <= frame1 {
		f.left, f.right = frame0, frame1
	} else {
		f.left, f.right = frame1, frame0
	}
	if f.point.Y <= point.Y {
		f.top, f.bottom = f.point.Y, point.Y
	} else {
		f.top, f.bottom = point.Y, f.point.Y
	}

	single := f.updateMarks(false)

	found := single.Valid()
	f.viewChanged = found != f.found
	f.found = found
	return found
}

// VisualRect is the inclusive pixel rectangle of the current range, for
// painting.
func (f *Focus) VisualRect() image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(f.scale.PixelWidth(f.left)+f.margin, f.top),
		Max: image.Pt(f.scale.PixelWidth(f.right)+f.margin, f.bottom),
	}
}

// BoundingRect is the visual rectangle padded vertically by the hit-test
// radius.
func (f *Focus) BoundingRect() image.Rectangle {
	r := f.VisualRect()
	r.Min.Y = f.top - f.radius
	r.Max.Y = f.bottom + f.radius
	return r
}

// MoveBoundingRect shifts the frame range by addFrame, for range dragging.
func (f *Focus) MoveBoundingRect(addFrame int) {
	f.left += addFrame
	f.right += addFrame
}

// Select collects every key in the current range into event, without
// touching focus marks. Returns whether anything matched.
func (f *Focus) Select(event *Event) bool {
	found := false
	f.walk(func(node *Node, _ *TimeLine, t KeyType, frame int, _ Key) bool {
		event.PushTarget(node, t, frame)
		found = true
		return true
	})
	return found
}

// updateMarks runs the shared query, marking every matched key with a fresh
// focus token. In stopAtFirst mode the walk ends at the first match.
func (f *Focus) updateMarks(stopAtFirst bool) Single {
	var single Single
	f.token = &FocusToken{}

	f.walk(func(node *Node, line *TimeLine, t KeyType, frame int, k Key) bool {
		k.SetFocus(f.token)
		single = Single{Node: node, Line: line, Type: t, Frame: frame}
		return !stopAtFirst
	})
	return single
}

// walk visits every key inside the bounding box, in row order, node
// pre-order, type order, frame order. fn returning false stops the walk.
func (f *Focus) walk(fn func(node *Node, line *TimeLine, t KeyType, frame int, k Key) bool) {
	box := f.BoundingRect()

	for _, row := range f.rows {
		if !overlapsInclusive(row.Rect, box) {
			continue
		}
		it := NewIterator(row.Node)
		for it.HasNext() {
			node := it.Next()
			line := node.TimeLine()
			if line == nil {
				if !row.ClosedFolder {
					break
				}
				continue
			}
			validNum := line.ValidTypeCount()
			validIndex := 0

			for t := KeyType(0); t < TypeCount; t++ {
				m := line.Map(t)
				if m.Empty() {
					continue
				}
				height := row.keyHeight(validIndex, validNum)
				validIndex++
				if height < box.Min.Y || box.Max.Y < height {
					continue
				}

				stopped := false
				m.Range(f.left, f.right, func(frame int, k Key) bool {
					if k == nil {
						return true
					}
					if !fn(node, line, t, frame, k) {
						stopped = true
						return false
					}
					return true
				})
				if stopped {
					return
				}
			}
			if !row.ClosedFolder {
				break
			}
		}
	}
}

// IsFocused reports whether k carries the current query's token.
func (f *Focus) IsFocused(k Key) bool {
	return f.token != nil && k != nil && k.Focus() == f.token
}

// Found reports whether the last query matched anything.
func (f *Focus) Found() bool { return f.found }

// ViewIsChanged reports whether the found state flipped on the last query,
// for view invalidation.
func (f *Focus) ViewIsChanged() bool { return f.viewChanged }

// HasRange reports whether the current range spans more than a point.
func (f *Focus) HasRange() bool {
	return f.left < f.right && f.top < f.bottom
}

// IsInRange reports whether the pixel point lies inside the visual range.
func (f *Focus) IsInRange(p image.Point) bool {
	r := f.VisualRect()
	return r.Min.X <= p.X && p.X <= r.Max.X && r.Min.Y <= p.Y && p.Y <= r.Max.Y
}

// Clear drops the range, marks, and found state.
func (f *Focus) Clear() {
	f.point = image.Point{}
	f.left, f.right, f.top, f.bottom = 0, 0, 0, 0
	f.token = nil
	f.found = false
	f.viewChanged = true
}

// overlapsInclusive treats both rectangles as inclusive coordinate boxes, so
// zero-width ranges still intersect what they touch.
func overlapsInclusive(a, b image.Rectangle) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}
