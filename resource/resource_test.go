package resource

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSerialAddressesAreUnique(t *testing.T) {
	a := NewImage("a", nil)
	b := NewImage("b", nil)
	if a.SerialAddress() == b.SerialAddress() {
		t.Fatalf("serial addresses must be unique")
	}
	if a.SerialAddress() <= 0 {
		t.Fatalf("serial address must be positive, got %d", a.SerialAddress())
	}
}

func TestHandleComparison(t *testing.T) {
	res := NewImage("a", nil)
	h1 := NewHandle(res)
	h2 := NewHandle(res)
	if h1 != h2 {
		t.Fatalf("handles to the same resource must compare equal")
	}
	var empty Handle
	if empty.Valid() || empty.SerialAddress() != 0 {
		t.Fatalf("empty handle must be invalid with address 0")
	}
}

func TestEventLookup(t *testing.T) {
	old := NewImage("old", nil)
	next := NewHandle(NewImage("next", nil))

	ev := NewEvent()
	if !ev.Empty() {
		t.Fatalf("fresh event should be empty")
	}
	ev.Append(old.SerialAddress(), next)

	got, ok := ev.FindTarget(old.SerialAddress())
	if !ok || got != next {
		t.Fatalf("expected replacement handle")
	}
	if _, ok := ev.FindTarget(old.SerialAddress() + 999); ok {
		t.Fatalf("unknown serial should not match")
	}
}

func writeTestPNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "sprite.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoadAndThumbnail(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), 64, 32)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Size() != image.Pt(64, 32) {
		t.Fatalf("unexpected size %v", res.Size())
	}
	if res.Name() != "sprite" {
		t.Fatalf("unexpected name %q", res.Name())
	}

	thumb := Thumbnail(res, 16)
	if thumb == nil || thumb.Bounds().Dx() != 16 || thumb.Bounds().Dy() != 8 {
		t.Fatalf("unexpected thumbnail bounds %v", thumb.Bounds())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
