// Package resource manages the image resources a document binds to its
// keys: stable serial addressing, shared handles, and the replacement events
// that drive resource-update transactions.
package resource

import (
	"image"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

var serialCounter atomic.Int64

// nextSerial allocates a serial address. Addresses are never reused within a
// process, so a replaced resource keeps a distinct identity from its
// replacement.
func nextSerial() int64 {
	return serialCounter.Add(1)
}

// Image is a raster resource. Its serial address identifies it across
// renames and reloads for as long as the document is open.
type Image struct {
	serial int64
	name   string
	path   string
	pos    mgl32.Vec2
	size   image.Point
	pixels *image.NRGBA
}

// NewImage wraps decoded pixel data into a resource with a fresh serial
// address.
func NewImage(name string, pixels *image.NRGBA) *Image {
	r := &Image{serial: nextSerial(), name: name}
	if pixels != nil {
		r.pixels = pixels
		r.size = pixels.Bounds().Size()
	}
	return r
}

func (r *Image) SerialAddress() int64 { return r.serial }

func (r *Image) Name() string { return r.name }

func (r *Image) Path() string { return r.path }

// Pos is the resource's anchor position within the document.
func (r *Image) Pos() mgl32.Vec2 { return r.pos }

func (r *Image) SetPos(p mgl32.Vec2) { r.pos = p }

func (r *Image) Size() image.Point { return r.size }

func (r *Image) Pixels() *image.NRGBA { return r.pixels }

// Handle is a shared, by-value reference to an Image. Handles compare equal
// when they reference the same resource.
type Handle struct {
	res *Image
}

func NewHandle(res *Image) Handle {
	return Handle{res: res}
}

// Valid reports whether the handle references a resource.
func (h Handle) Valid() bool { return h.res != nil }

func (h Handle) Get() *Image { return h.res }

// SerialAddress returns the referenced resource's address, or 0 for an empty
// handle.
func (h Handle) SerialAddress() int64 {
	if h.res == nil {
		return 0
	}
	return h.res.serial
}

// Event is an externally supplied batch of resource replacements, keyed by
// the serial address being replaced. It is read-only to the document core.
type Event struct {
	targets map[int64]Handle
}

func NewEvent() *Event {
	return &Event{targets: make(map[int64]Handle)}
}

// Append records that the resource at oldSerial is replaced by next.
func (e *Event) Append(oldSerial int64, next Handle) {
	e.targets[oldSerial] = next
}

// FindTarget returns the replacement for serial, if the event names one.
func (e *Event) FindTarget(serial int64) (Handle, bool) {
	if e == nil {
		return Handle{}, false
	}
	h, ok := e.targets[serial]
	return h, ok
}

// Empty reports whether the event names no replacements.
func (e *Event) Empty() bool {
	return e == nil || len(e.targets) == 0
}

// Len returns the number of replacements in the batch.
func (e *Event) Len() int {
	if e == nil {
		return 0
	}
	return len(e.targets)
}
