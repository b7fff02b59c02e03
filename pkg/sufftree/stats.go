package sufftree

// NodeCount returns the total number of nodes in the tree, including the
// root. Per spec.md §8, this is at most 2·|S| and at least |S|+1 once
// terminated.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// LeafCount returns the number of leaf nodes, computed by walking the
// child-edge map from the root. For a terminated tree this equals Size()
// plus one (the terminator's own suffix).
func (t *Tree) LeafCount() int {
	return t.countLeaves(rootIdx)
}

// Phase returns the zero-based index of the most recently added symbol,
// needed by callers that want [Node.Length] for leaves (Trick 3 means a
// leaf's edge length is a function of how far construction has
// progressed, not a stored value).
func (t *Tree) Phase() int {
	return t.phase
}

// MapStats reports the child-edge TwoKeyMap's current size, capacity, and
// cumulative grow (rehash) count — the footprint-relevant counters spec.md
// §4.2 calls out as the performance-critical data structure.
type MapStats struct {
	Len       int
	Cap       int
	GrowCount int
}

// MapStats returns the current state of the tree's child-edge map.
func (t *Tree) MapStats() MapStats {
	return MapStats{
		Len:       t.children.Len(),
		Cap:       t.children.Cap(),
		GrowCount: t.children.GrowCount(),
	}
}

// LoadFactor returns the map's current Len/Cap ratio as a fraction in
// [0, 1]. The engine never removes entries, so this equals the
// (size+deleted)/capacity quantity the map's grow trigger keeps near or
// below 1/2.
func (s MapStats) LoadFactor() float64 {
	if s.Cap == 0 {
		return 0
	}

	return float64(s.Len) / float64(s.Cap)
}
