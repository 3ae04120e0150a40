// Package stream implements the binary document codec: primitive value
// encoding plus identity-based cross-references that are written as opaque
// integer IDs and resolved in a second pass after the whole node graph exists.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Writer encodes values little-endian. Errors are sticky: after the first
// failed write every later write is a no-op and CheckStream reports the error.
type Writer struct {
	w    io.Writer
	ids  map[any]int32
	next int32
	err  error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, ids: make(map[any]int32), next: 1}
}

// Register assigns the next reference ID to obj, or returns the existing one.
// Encode and decode must register the node graph in the same order so IDs
// line up across a round trip.
func (w *Writer) Register(obj any) int32 {
	if obj == nil {
		return 0
	}
	if id, ok := w.ids[obj]; ok {
		return id
	}
	id := w.next
	w.next++
	w.ids[obj] = id
	return id
}

// WriteRef writes the reference ID for obj, registering it on first use.
// A nil obj writes ID 0, which decodes as an unset reference.
func (w *Writer) WriteRef(obj any) {
	w.WriteInt32(w.Register(obj))
}

func (w *Writer) write(v any) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.LittleEndian, v)
}

func (w *Writer) WriteInt32(v int32) { w.write(v) }

func (w *Writer) WriteFloat32(v float32) { w.write(v) }

func (w *Writer) WriteBool(v bool) {
	var b uint8
	if v {
		b = 1
	}
	w.write(b)
}

func (w *Writer) WriteString(s string) {
	w.WriteInt32(int32(len(s)))
	if w.err != nil || len(s) == 0 {
		return
	}
	_, err := io.WriteString(w.w, s)
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) WriteVec2(v mgl32.Vec2) {
	w.WriteFloat32(v.X())
	w.WriteFloat32(v.Y())
}

func (w *Writer) WriteMat4(m mgl32.Mat4) {
	for i := 0; i < 16; i++ {
		w.WriteFloat32(m[i])
	}
}

// Err returns the sticky write error, if any.
func (w *Writer) Err() error { return w.err }

// CheckStream verifies stream integrity after a block of writes.
func (w *Writer) CheckStream() error {
	if w.err != nil {
		return fmt.Errorf("stream: write failed: %w", w.err)
	}
	return nil
}
