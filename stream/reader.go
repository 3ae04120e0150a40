package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// maxStringLen bounds decoded string fields so a corrupt length cannot force
// a huge allocation.
const maxStringLen = 1 << 20

type order struct {
	id    int32
	solve func(any)
}

// Reader decodes values written by Writer. Cross-references are collected via
// OrderRef and resolved against a registration table once the whole node
// graph has been reconstructed; an ID that never matches leaves the field
// unset. Errors are sticky, like Writer's.
type Reader struct {
	r      io.Reader
	scopes []string
	table  map[int32]any
	next   int32
	orders []order
	err    error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, table: make(map[int32]any), next: 1}
}

// Register records obj under the next reference ID, mirroring
// Writer.Register. Both sides must register the node graph in the same order.
func (r *Reader) Register(obj any) int32 {
	id := r.next
	r.next++
	if obj != nil {
		r.table[id] = obj
	}
	return id
}

// OrderRef reads a reference ID and queues solve to run during Resolve.
// ID 0 is an unset reference and queues nothing. Returns false on a corrupt
// (negative) ID or a read failure.
func (r *Reader) OrderRef(solve func(any)) bool {
	id := r.ReadInt32()
	if r.err != nil || id < 0 {
		return false
	}
	if id == 0 {
		return true
	}
	r.orders = append(r.orders, order{id: id, solve: solve})
	return true
}

// Resolve runs every queued reference solver whose ID was registered.
// Unmatched IDs are skipped, leaving their fields unset.
func (r *Reader) Resolve() {
	for _, o := range r.orders {
		if obj, ok := r.table[o.id]; ok {
			o.solve(obj)
		}
	}
	r.orders = nil
}

func (r *Reader) read(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}

func (r *Reader) ReadInt32() int32 {
	var v int32
	r.read(&v)
	return v
}

func (r *Reader) ReadFloat32() float32 {
	var v float32
	r.read(&v)
	return v
}

func (r *Reader) ReadBool() bool {
	var b uint8
	r.read(&b)
	return b != 0
}

func (r *Reader) ReadString() string {
	n := r.ReadInt32()
	if r.err != nil {
		return ""
	}
	if n < 0 || n > maxStringLen {
		r.err = fmt.Errorf("invalid string length %d", n)
		return ""
	}
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return ""
	}
	return string(buf)
}

func (r *Reader) ReadVec2() mgl32.Vec2 {
	x := r.ReadFloat32()
	y := r.ReadFloat32()
	return mgl32.Vec2{x, y}
}

func (r *Reader) ReadMat4() mgl32.Mat4 {
	var m mgl32.Mat4
	for i := 0; i < 16; i++ {
		m[i] = r.ReadFloat32()
	}
	return m
}

// PushScope names the structure being parsed, for error messages.
func (r *Reader) PushScope(name string) {
	r.scopes = append(r.scopes, name)
}

func (r *Reader) PopScope() {
	if len(r.scopes) > 0 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

// Errored marks the stream corrupt and returns a scoped error.
func (r *Reader) Errored(msg string) error {
	scoped := msg
	if len(r.scopes) > 0 {
		scoped = strings.Join(r.scopes, ".") + ": " + msg
	}
	err := fmt.Errorf("stream: %s", scoped)
	if r.err == nil {
		r.err = err
	}
	return err
}

// Err returns the sticky read error, if any.
func (r *Reader) Err() error { return r.err }

// CheckStream verifies stream integrity after a block of reads.
func (r *Reader) CheckStream() error {
	if r.err != nil {
		return fmt.Errorf("stream: read failed: %w", r.err)
	}
	return nil
}
