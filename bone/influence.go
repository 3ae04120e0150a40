package bone

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/sakuga-dev/sakuga/mesh"
	"github.com/sakuga-dev/sakuga/stream"
	"github.com/sakuga-dev/sakuga/worker"
)

// influencesPerVertex is how many bones may contribute to one vertex. Weaker
// contributions beyond it are dropped before normalization.
const influencesPerVertex = 4

// maxVertexCount bounds decoded maps so a corrupt count cannot force a huge
// allocation.
const maxVertexCount = 1 << 20

// InfluenceMap stores, per mesh vertex, the contributing bone indices and
// normalized weights. Population is asynchronous: WriteAsync queues the
// computation and readers observe the previous values until it lands. Ready
// reports whether the current values reflect the latest request.
type InfluenceMap struct {
	maxBones int
	ready    atomic.Bool

	mu      sync.Mutex
	count   int
	bones   []int32
	weights []float32
}

// SetMaxBoneCount caps how many bones the map may index.
func (m *InfluenceMap) SetMaxBoneCount(n int) {
	if n <= 0 {
		panic("bone: non-positive max bone count")
	}
	m.maxBones = n
}

func (m *InfluenceMap) MaxBoneCount() int { return m.maxBones }

// Allocate sizes the map for count vertices. With preserve set, values for
// vertices present in both sizes survive. Resizing marks the map not ready.
func (m *InfluenceMap) Allocate(count int, preserve bool) {
	if count < 0 {
		panic("bone: negative vertex count")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.count == count && m.bones != nil {
		return
	}
	bones := make([]int32, count*influencesPerVertex)
	weights := make([]float32, count*influencesPerVertex)
	if preserve {
		copy(bones, m.bones)
		copy(weights, m.weights)
	}
	m.count = count
	m.bones = bones
	m.weights = weights
	m.ready.Store(false)
}

// VertexCount returns the allocated vertex count.
func (m *InfluenceMap) VertexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Ready reports whether the latest requested computation has landed. Readers
// that ignore it see the previous values, never torn ones.
func (m *InfluenceMap) Ready() bool { return m.ready.Load() }

// Influences returns the bone indices and weights for vertex v. A bone index
// of -1 marks an unused slot.
func (m *InfluenceMap) Influences(v int) ([]int32, []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v < 0 || v >= m.count {
		return nil, nil
	}
	lo := v * influencesPerVertex
	hi := lo + influencesPerVertex
	return m.bones[lo:hi], m.weights[lo:hi]
}

// WriteAsync snapshots the forest and mesh geometry, then queues the weight
// computation on the pool. It does not wake the workers; the caller
// broadcasts once per batch. Completion is observed via Ready.
func (m *InfluenceMap) WriteAsync(pool *worker.Pool, tops []*Bone, innerMtx mgl32.Mat4, msh mesh.Mesh) {
	segs := flattenSegments(tops, m.maxBones)
	positions := make([]mgl32.Vec2, msh.VertexCount())
	copy(positions, msh.Positions())
	count := len(positions)

	m.ready.Store(false)
	pool.Push(func() {
		bones, weights := computeWeights(segs, innerMtx, positions)

		m.mu.Lock()
		if m.count == count {
			m.bones = bones
			m.weights = weights
			m.ready.Store(true)
		}
		m.mu.Unlock()
	})
}

// computeWeights evaluates every segment's falloff at every vertex, keeps the
// strongest influencesPerVertex contributions, and normalizes them.
func computeWeights(segs []segment, innerMtx mgl32.Mat4, positions []mgl32.Vec2) ([]int32, []float32) {
	bones := make([]int32, len(positions)*influencesPerVertex)
	weights := make([]float32, len(positions)*influencesPerVertex)

	for v, p := range positions {
		world := mgl32.TransformCoordinate(mgl32.Vec3{p.X(), p.Y(), 0}, innerMtx)
		pos := mgl32.Vec2{world.X(), world.Y()}

		lo := v * influencesPerVertex
		slotBones := bones[lo : lo+influencesPerVertex]
		slotWeights := weights[lo : lo+influencesPerVertex]
		for i := range slotBones {
			slotBones[i] = -1
		}

		for i, seg := range segs {
			w := seg.weightAt(pos)
			if w <= 0 {
				continue
			}
			// replace the weakest slot if this contribution beats it
			weakest := 0
			for s := 1; s < influencesPerVertex; s++ {
				if slotWeights[s] < slotWeights[weakest] {
					weakest = s
				}
			}
			if w > slotWeights[weakest] {
				slotBones[weakest] = int32(i)
				slotWeights[weakest] = w
			}
		}

		var sum float32
		for _, w := range slotWeights {
			sum += w
		}
		if sum > 0 {
			for s := range slotWeights {
				slotWeights[s] /= sum
			}
		}
	}
	return bones, weights
}

// weightAt evaluates the segment's falloff at a world-space point. Inside the
// interpolated full-weight radius the weight is 1; it fades linearly to 0
// across the falloff band.
func (s segment) weightAt(p mgl32.Vec2) float32 {
	dir := s.end.Sub(s.origin)
	t := float32(0)
	if lenSq := dir.Dot(dir); lenSq > 0 {
		t = p.Sub(s.origin).Dot(dir) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	closest := s.origin.Add(dir.Mul(t))
	d := p.Sub(closest).Len()

	r := s.range0.Mul(1 - t).Add(s.range1.Mul(t))
	if d <= r.X() {
		return 1
	}
	band := r.Y()
	if band <= 0 || d >= r.X()+band {
		return 0
	}
	return 1 - (d-r.X())/band
}

// Serialize writes the map as a self-describing block.
func (m *InfluenceMap) Serialize(w *stream.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w.WriteInt32(int32(m.maxBones))
	w.WriteInt32(int32(m.count))
	w.WriteInt32(influencesPerVertex)
	for i := range m.bones {
		w.WriteInt32(m.bones[i])
		w.WriteFloat32(m.weights[i])
	}
	return w.CheckStream()
}

// Deserialize reads a block written by Serialize.
func (m *InfluenceMap) Deserialize(r *stream.Reader) error {
	r.PushScope("BoneInfluenceMap")
	defer r.PopScope()

	maxBones := r.ReadInt32()
	if maxBones < 0 {
		return r.Errored("invalid max bone count")
	}
	count := r.ReadInt32()
	if count < 0 || count > maxVertexCount {
		return r.Errored("invalid vertex count")
	}
	if stride := r.ReadInt32(); stride != influencesPerVertex {
		return r.Errored("unsupported influence stride")
	}

	bones := make([]int32, int(count)*influencesPerVertex)
	weights := make([]float32, int(count)*influencesPerVertex)
	for i := range bones {
		bones[i] = r.ReadInt32()
		weights[i] = r.ReadFloat32()
	}
	if err := r.CheckStream(); err != nil {
		return err
	}

	m.mu.Lock()
	m.maxBones = int(maxBones)
	m.count = int(count)
	m.bones = bones
	m.weights = weights
	m.mu.Unlock()
	m.ready.Store(count > 0)
	return nil
}
