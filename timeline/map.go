package timeline

import "sort"

// KeyMap stores the keys of one type for one timeline, ordered by frame.
// Frames are unique within a map.
type KeyMap struct {
	frames []int
	keys   map[int]Key
}

func (m *KeyMap) Len() int { return len(m.frames) }

func (m *KeyMap) Empty() bool { return len(m.frames) == 0 }

// Get returns the key at frame, if present.
func (m *KeyMap) Get(frame int) (Key, bool) {
	if m.keys == nil {
		return nil, false
	}
	k, ok := m.keys[frame]
	return k, ok
}

// Has reports whether a key sits at frame.
func (m *KeyMap) Has(frame int) bool {
	_, ok := m.Get(frame)
	return ok
}

// Put inserts k at its frame. Returns false when the frame is occupied.
func (m *KeyMap) Put(k Key) bool {
	if k == nil {
		return false
	}
	frame := k.Frame()
	if m.keys == nil {
		m.keys = make(map[int]Key)
	}
	if _, ok := m.keys[frame]; ok {
		return false
	}
	i := sort.SearchInts(m.frames, frame)
	m.frames = append(m.frames, 0)
	copy(m.frames[i+1:], m.frames[i:])
	m.frames[i] = frame
	m.keys[frame] = k
	return true
}

// Remove deletes and returns the key at frame.
func (m *KeyMap) Remove(frame int) (Key, bool) {
	k, ok := m.Get(frame)
	if !ok {
		return nil, false
	}
	delete(m.keys, frame)
	i := sort.SearchInts(m.frames, frame)
	m.frames = append(m.frames[:i], m.frames[i+1:]...)
	return k, true
}

// Frames returns the occupied frames in ascending order. The slice is shared;
// callers must not mutate it.
func (m *KeyMap) Frames() []int { return m.frames }

// Range calls fn for every key with lo <= frame <= hi, in frame order.
// Returning false stops the walk.
func (m *KeyMap) Range(lo, hi int, fn func(frame int, k Key) bool) {
	i := sort.SearchInts(m.frames, lo)
	for ; i < len(m.frames) && m.frames[i] <= hi; i++ {
		if !fn(m.frames[i], m.keys[m.frames[i]]) {
			return
		}
	}
}

// Each calls fn for every key in frame order.
func (m *KeyMap) Each(fn func(frame int, k Key) bool) {
	for _, f := range m.frames {
		if !fn(f, m.keys[f]) {
			return
		}
	}
}
