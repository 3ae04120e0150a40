package timeline

// TimeLine is one node's keyframe collection, partitioned by key type.
type TimeLine struct {
	maps [TypeCount]KeyMap
}

func NewTimeLine() *TimeLine {
	return &TimeLine{}
}

// Map returns the ordered frame map for t.
func (tl *TimeLine) Map(t KeyType) *KeyMap {
	if t < 0 || t >= TypeCount {
		panic("timeline: invalid key type")
	}
	return &tl.maps[t]
}

// Push inserts k into the map of its own type. Returns false when the frame
// is occupied.
func (tl *TimeLine) Push(k Key) bool {
	if k == nil {
		return false
	}
	return tl.Map(k.Type()).Put(k)
}

// HasKey reports whether a key of type t sits at frame.
func (tl *TimeLine) HasKey(t KeyType, frame int) bool {
	return tl.Map(t).Has(frame)
}

// Key returns the key of type t at frame, or nil.
func (tl *TimeLine) Key(t KeyType, frame int) Key {
	k, _ := tl.Map(t).Get(frame)
	return k
}

// Remove deletes the key of type t at frame.
func (tl *TimeLine) Remove(t KeyType, frame int) (Key, bool) {
	return tl.Map(t).Remove(frame)
}

// ValidTypeCount returns how many type lanes hold at least one key.
func (tl *TimeLine) ValidTypeCount() int {
	n := 0
	for i := range tl.maps {
		if !tl.maps[i].Empty() {
			n++
		}
	}
	return n
}

// Empty reports whether no lane holds a key.
func (tl *TimeLine) Empty() bool {
	return tl.ValidTypeCount() == 0
}
