package timeline

import (
	"image"
	"testing"
)

// focusFixture builds one row over a node with SRT keys at frames 1, 5, 10.
// Scale: 10 px per frame, row spans y 0..20, margin 0.
func focusFixture() (*Focus, *Node) {
	node := NewNode("layer")
	node.SetTimeLine(NewTimeLine())
	for _, f := range []int{1, 5, 10} {
		node.TimeLine().Push(NewSRTKey(f))
	}
	rows := []Row{{Node: node, Rect: image.Rect(0, 0, 300, 20)}}
	return NewFocus(rows, Scale{FrameWidth: 10}, 0), node
}

func TestFocusPointQuery(t *testing.T) {
	cases := []struct {
		name      string
		x, y      int
		wantFound bool
		wantFrame int
	}{
		{"on_frame_5", 50, 10, true, 5},
		{"near_frame_10", 99, 10, true, 10},
		{"window_covers_no_key", 35, 10, false, 0},
		{"outside_row", 50, 200, false, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, _ := focusFixture()
			single := f.ResetAt(image.Pt(c.x, c.y))
			if single.Valid() != c.wantFound || f.Found() != c.wantFound {
				t.Fatalf("found=%v, want %v", single.Valid(), c.wantFound)
			}
			if c.wantFound && single.Frame != c.wantFrame {
				t.Fatalf("expected frame %d, got %d", c.wantFrame, single.Frame)
			}
		})
	}
}

func TestFocusDragRange(t *testing.T) {
	f, node := focusFixture()

	// anchor near frame 3, drag to frame 10
	f.ResetAt(image.Pt(30, 10))
	if !f.UpdateTo(image.Pt(100, 10)) {
		t.Fatalf("drag over frames [3,10] should match")
	}

	var ev Event
	if !f.Select(&ev) {
		t.Fatalf("select should report matches")
	}
	got := map[int]bool{}
	for _, target := range ev.Targets() {
		if target.Node != node || target.Type != TypeSRT {
			t.Fatalf("unexpected target %+v", target)
		}
		got[target.Frame] = true
	}
	if len(got) != 2 || !got[5] || !got[10] {
		t.Fatalf("expected exactly frames {5,10}, got %v", got)
	}
	if got[1] {
		t.Fatalf("frame 1 lies outside the range")
	}
}

func TestFocusDragNormalizesDirection(t *testing.T) {
	f, _ := focusFixture()
	f.ResetAt(image.Pt(100, 15))
	f.UpdateTo(image.Pt(30, 5)) // drag right-to-left, bottom-to-top

	r := f.VisualRect()
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		t.Fatalf("range must normalize, got %v", r)
	}

	var ev Event
	f.Select(&ev)
	if len(ev.Targets()) != 2 {
		t.Fatalf("reverse drag should match the same keys, got %d", len(ev.Targets()))
	}
}

func TestFocusMarksKeys(t *testing.T) {
	f, node := focusFixture()
	f.ResetAt(image.Pt(30, 10))
	f.UpdateTo(image.Pt(100, 10))

	key5 := node.TimeLine().Key(TypeSRT, 5)
	key1 := node.TimeLine().Key(TypeSRT, 1)
	if !f.IsFocused(key5) {
		t.Fatalf("matched key should carry the current token")
	}
	if f.IsFocused(key1) {
		t.Fatalf("unmatched key must not be focused")
	}

	// a new query constructs a fresh token; old marks go stale
	f.ResetAt(image.Pt(10, 10))
	if f.IsFocused(key5) {
		t.Fatalf("stale token must read as unfocused")
	}
	if !f.IsFocused(node.TimeLine().Key(TypeSRT, 1)) {
		t.Fatalf("new query should mark frame 1")
	}
}

func TestFocusViewChanged(t *testing.T) {
	f, _ := focusFixture()

	f.ResetAt(image.Pt(50, 10)) // not found -> found
	if !f.ViewIsChanged() {
		t.Fatalf("first hit should flip the view state")
	}
	f.ResetAt(image.Pt(50, 10)) // found -> found
	if f.ViewIsChanged() {
		t.Fatalf("steady found state should not flag a view change")
	}
	f.ResetAt(image.Pt(35, 10)) // found -> not found
	if !f.ViewIsChanged() {
		t.Fatalf("losing the hit should flip the view state")
	}
}

func TestFocusMoveBoundingRect(t *testing.T) {
	f, _ := focusFixture()
	f.ResetAt(image.Pt(30, 10))
	f.UpdateTo(image.Pt(100, 10))
	before := f.VisualRect()

	f.MoveBoundingRect(2)
	after := f.VisualRect()
	if after.Min.X-before.Min.X != 2*10 || after.Max.X-before.Max.X != 2*10 {
		t.Fatalf("range should shift by two frames, got %v -> %v", before, after)
	}
}

func TestFocusFolderRows(t *testing.T) {
	parent := NewNode("folder")
	parent.SetTimeLine(NewTimeLine())
	child := parent.AddChild(NewNode("child"))
	child.SetTimeLine(NewTimeLine())
	child.TimeLine().Push(NewSRTKey(5))

	scale := Scale{FrameWidth: 10}

	t.Run("closed_folder_descends", func(t *testing.T) {
		rows := []Row{{Node: parent, Rect: image.Rect(0, 0, 300, 20), ClosedFolder: true}}
		f := NewFocus(rows, scale, 0)
		single := f.ResetAt(image.Pt(50, 10))
		if !single.Valid() || single.Node != child {
			t.Fatalf("closed folder should hit-test hidden descendants")
		}
	})

	t.Run("open_row_stops_at_own_node", func(t *testing.T) {
		rows := []Row{{Node: parent, Rect: image.Rect(0, 0, 300, 20)}}
		f := NewFocus(rows, scale, 0)
		if single := f.ResetAt(image.Pt(50, 10)); single.Valid() {
			t.Fatalf("open row must not descend into child rows")
		}
	})
}

func TestFocusClear(t *testing.T) {
	f, node := focusFixture()
	f.ResetAt(image.Pt(50, 10))
	f.Clear()

	if f.Found() || f.HasRange() {
		t.Fatalf("clear should drop found state and range")
	}
	if !f.ViewIsChanged() {
		t.Fatalf("clear invalidates the view")
	}
	if f.IsFocused(node.TimeLine().Key(TypeSRT, 5)) {
		t.Fatalf("clear should drop focus marks")
	}
}

func TestScaleRounding(t *testing.T) {
	s := Scale{FrameWidth: 10}
	cases := []struct {
		px   int
		want int
	}{
		{0, 0}, {4, 0}, {5, 1}, {14, 1}, {15, 2}, {-4, 0}, {-6, -1},
	}
	for _, c := range cases {
		if got := s.Frame(c.px); got != c.want {
			t.Fatalf("Frame(%d) = %d, want %d", c.px, got, c.want)
		}
	}
}
