package sufftree

import "github.com/basepair-labs/sufftree/pkg/safeconv"

// Contains reports whether query appears as a substring anywhere in the
// tree's stored string, including the terminator once the tree is
// terminated. It is a thin client over the same child-edge lookup that
// [Node.Child] uses, plus the stored string for mid-edge comparison —
// substring search is not part of the core construction algorithm, but the
// tree already has everything a caller needs to build one.
func (t *Tree) Contains(query []byte) bool {
	_, ok := t.walk(query)

	return ok
}

// CountOccurrences reports how many times query appears as a substring of
// the tree's stored string, including overlapping occurrences. It walks to
// the node (or mid-edge position) where query's path ends, then counts the
// leaves in that subtree — each leaf below the match corresponds to one
// starting position of query in S.
func (t *Tree) CountOccurrences(query []byte) int {
	node, ok := t.walk(query)
	if !ok {
		return 0
	}

	return t.countLeaves(node)
}

// walk follows query from the root one symbol at a time, converting each
// byte through the tree's alphabet first (the terminator byte is taken as
// is, since the alphabet never converts it). It returns the deepest node
// whose subtree contains every occurrence of query, and whether the full
// query was matched.
func (t *Tree) walk(query []byte) (uint32, bool) {
	node := uint32(rootIdx)
	remaining := query

	for len(remaining) > 0 {
		symbol, ok := t.querySymbol(remaining[0])
		if !ok {
			return 0, false
		}

		child, ok := t.children.Get(node, symbol)
		if !ok {
			return 0, false
		}

		edgeLen := t.currentEdgeLength(child)
		take := min(edgeLen, len(remaining))

		if !t.edgeMatches(child, remaining[:take]) {
			return 0, false
		}

		remaining = remaining[take:]
		node = child
	}

	return node, true
}

// currentEdgeLength is the edge length to idx as of the tree's current
// state: the fixed edgeEnd-edgeStart for an internal node, or the
// Trick-3-computed length to the current end of S for a leaf.
func (t *Tree) currentEdgeLength(idx uint32) int {
	if t.nodes[idx].kind == kindLeaf {
		return t.leafLength(idx, t.phase)
	}

	return t.internalEdgeLength(idx)
}

// edgeMatches reports whether label matches the first len(label) symbols
// of idx's incoming edge, after converting label through the alphabet.
func (t *Tree) edgeMatches(idx uint32, label []byte) bool {
	start := t.nodes[idx].edgeStart

	for i, b := range label {
		symbol, ok := t.querySymbol(b)
		if !ok {
			return false
		}

		if t.s[start+safeconv.MustIntToUint32(i)] != symbol {
			return false
		}
	}

	return true
}

// querySymbol converts one query byte to its internal symbol: the
// terminator maps to itself, every other byte goes through the alphabet.
func (t *Tree) querySymbol(b byte) (byte, bool) {
	if b == t.alphabet.Terminator() {
		return b, true
	}

	return t.alphabet.Convert(b)
}

// countLeaves counts the leaves in idx's subtree, including idx itself if
// it is a leaf.
func (t *Tree) countLeaves(idx uint32) int {
	if t.nodes[idx].kind == kindLeaf {
		return 1
	}

	total := 0

	it := t.children.IterateByK1(idx)
	for {
		_, child, ok := it.Next()
		if !ok {
			break
		}

		total += t.countLeaves(child)
	}

	return total
}
