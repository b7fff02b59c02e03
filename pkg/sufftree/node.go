package sufftree

import "github.com/basepair-labs/sufftree/pkg/safeconv"

// noIndex is the sentinel arena index meaning "no such node" — a nil
// parent (only the root has one), an unset suffix link, or an unset
// bookkeeping register.
const noIndex = ^uint32(0)

// rootIdx is the arena slot the root always occupies.
const rootIdx = 0

type nodeKind uint8

const (
	kindRoot nodeKind = iota
	kindInternal
	kindLeaf
)

// arenaNode is one node's record in the tree's arena. Parent, child, and
// suffix-link references are arena indices, not pointers: nodes never move
// once created, and indices avoid the pointer cycles a parent/child/link
// graph would otherwise require.
//
// edgeEndOrStringStart is edgeEnd for an Internal node and stringStart for
// a Leaf; the two never apply to the same node, so one field carries both.
type arenaNode struct {
	kind                 nodeKind
	parent               uint32
	edgeStart            uint32
	edgeEndOrStringStart uint32
	suffixLink           uint32
}

func (t *Tree) newLeafNode(parent, edgeStart, stringStart uint32) uint32 {
	t.nodes = append(t.nodes, arenaNode{
		kind:                 kindLeaf,
		parent:               parent,
		edgeStart:            edgeStart,
		edgeEndOrStringStart: stringStart,
		suffixLink:           noIndex,
	})

	return safeconv.MustIntToUint32(len(t.nodes) - 1)
}

func (t *Tree) newInternalNodeRecord(parent, edgeStart, edgeEnd uint32) uint32 {
	t.nodes = append(t.nodes, arenaNode{
		kind:                 kindInternal,
		parent:               parent,
		edgeStart:            edgeStart,
		edgeEndOrStringStart: edgeEnd,
		suffixLink:           noIndex,
	})

	return safeconv.MustIntToUint32(len(t.nodes) - 1)
}

func (t *Tree) internalEdgeLength(idx uint32) int {
	n := t.nodes[idx]

	return int(n.edgeEndOrStringStart - n.edgeStart)
}

func (t *Tree) leafLength(idx uint32, phase int) int {
	return phase + 1 - int(t.nodes[idx].edgeStart)
}

// split divides self's incoming edge at edgeLength, inserting a new
// internal node N between self's former parent and self. Preconditions
// (checked by the caller, asserted here): 0 < edgeLength < the current
// length of self's incoming edge; firstEdgeChar is S[self.edgeStart];
// nextEdgeChar is S[self.edgeStart + edgeLength].
//
// self may be a Leaf or an Internal node — split only touches the fields
// common to both (parent, edgeStart), never edgeEnd or stringStart.
func (t *Tree) split(selfIdx uint32, firstEdgeChar, nextEdgeChar byte, edgeLength uint32) uint32 {
	parent := t.nodes[selfIdx].parent
	edgeStart := t.nodes[selfIdx].edgeStart

	// newInternalNodeRecord may grow t.nodes and reallocate its backing
	// array, so every access to t.nodes[selfIdx] below is a fresh index
	// lookup — never a pointer cached across this call.
	n := t.newInternalNodeRecord(parent, edgeStart, edgeStart+edgeLength)

	prev, existed := t.children.Put(parent, firstEdgeChar, n)
	assertInvariant(existed && prev == selfIdx, "split: replaced entry under parent was not self")

	t.nodes[selfIdx].parent = n
	t.nodes[selfIdx].edgeStart += edgeLength

	_, existed = t.children.Put(n, nextEdgeChar, selfIdx)
	assertInvariant(!existed, "split: child slot under new internal node was already occupied")

	return n
}

// Node is a read-only handle onto one node of a [Tree]. It is a thin
// (tree, index) pair — cheap to copy, valid only as long as the tree it
// came from is not mutated concurrently with its use (the core is
// single-writer; see the tree's package doc).
type Node struct {
	tree *Tree
	idx  uint32
}

// Equal reports whether n and other name the same node of the same tree.
func (n Node) Equal(other Node) bool {
	return n.tree == other.tree && n.idx == other.idx
}

// IsRoot reports whether n is the tree's root.
func (n Node) IsRoot() bool { return n.tree.nodes[n.idx].kind == kindRoot }

// IsInternal reports whether n is an internal node (root or otherwise —
// the root is also, structurally, an internal node with a fixed empty
// incoming edge).
func (n Node) IsInternal() bool {
	k := n.tree.nodes[n.idx].kind

	return k == kindInternal || k == kindRoot
}

// IsLeaf reports whether n is a leaf.
func (n Node) IsLeaf() bool { return n.tree.nodes[n.idx].kind == kindLeaf }

// Parent returns n's parent and true, or the zero Node and false if n is
// the root.
func (n Node) Parent() (Node, bool) {
	p := n.tree.nodes[n.idx].parent
	if p == noIndex {
		return Node{}, false
	}

	return Node{tree: n.tree, idx: p}, true
}

// SuffixLink returns the internal node n's suffix link points to, and true
// — or the zero Node and false if n is a leaf or has no suffix link yet.
func (n Node) SuffixLink() (Node, bool) {
	rec := n.tree.nodes[n.idx]
	if rec.kind == kindLeaf || rec.suffixLink == noIndex {
		return Node{}, false
	}

	return Node{tree: n.tree, idx: rec.suffixLink}, true
}

// Child returns n's child reached by the edge whose first symbol is
// symbol, and true — or the zero Node and false if there is none.
func (n Node) Child(symbol byte) (Node, bool) {
	childIdx, ok := n.tree.children.Get(n.idx, symbol)
	if !ok {
		return Node{}, false
	}

	return Node{tree: n.tree, idx: childIdx}, true
}

// Children returns an iterator over n's (symbol, child) pairs, in
// TwoKeyMap per-K1 iteration order (unspecified, but stable as long as the
// tree is not mutated during iteration).
func (n Node) Children() func(yield func(byte, Node) bool) {
	return func(yield func(byte, Node) bool) {
		it := n.tree.children.IterateByK1(n.idx)

		for {
			symbol, childIdx, ok := it.Next()
			if !ok {
				return
			}

			if !yield(symbol, Node{tree: n.tree, idx: childIdx}) {
				return
			}
		}
	}
}

// Length returns the length of n's incoming edge. For a leaf this is
// `phase + 1 - edgeStart`, per Trick 3 — leaves carry no stored end, so
// their length depends on how far construction has progressed. For an
// internal node (including the root, which is always 0) it is the fixed
// edgeEnd - edgeStart and phase is ignored.
func (n Node) Length(phase int) int {
	rec := n.tree.nodes[n.idx]
	if rec.kind == kindLeaf {
		return n.tree.leafLength(n.idx, phase)
	}

	return n.tree.internalEdgeLength(n.idx)
}

// EdgeStart returns the index in the tree's stored string where n's
// incoming edge label begins.
func (n Node) EdgeStart() int {
	return int(n.tree.nodes[n.idx].edgeStart)
}

// StringStart returns the starting index in the tree's stored string of
// the suffix that ends at this leaf. Valid only for leaves.
func (n Node) StringStart() (int, bool) {
	rec := n.tree.nodes[n.idx]
	if rec.kind != kindLeaf {
		return 0, false
	}

	return int(rec.edgeEndOrStringStart), true
}
