package track

// Collection is an ordered sequence of tracks.
// Insertion order is display and navigation order.
type Collection []Track

// IndexOf returns the position of the track with the given ID, or -1.
func (c Collection) IndexOf(id string) int {
	for i, t := range c {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the track with the given ID.
func (c Collection) Find(id string) (Track, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c[i], true
	}
	return Track{}, false
}

// IDs returns all track IDs in order.
func (c Collection) IDs() []string {
	ids := make([]string, len(c))
	for i, t := range c {
		ids[i] = t.ID
	}
	return ids
}

// Clone returns a copy that does not share backing storage.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Concat joins collections in the given order.
func Concat(cs ...Collection) Collection {
	n := 0
	for _, c := range cs {
		n += len(c)
	}
	out := make(Collection, 0, n)
	for _, c := range cs {
		out = append(out, c...)
	}
	return out
}
