// Package sufftree builds a generalized suffix tree over a string drawn
// from a small alphabet, using Ukkonen's linear-time online construction.
// It is single-writer and not safe for concurrent use: one goroutine owns
// a Tree for its entire lifetime, appending symbols and eventually
// terminating it.
//
// Child edges of every internal node are stored not inside the node but in
// one tree-wide [twokeymap.Map] keyed by (node index, first edge symbol).
// This amortizes hash-table overhead across a tree that may hold millions
// of nodes, each with only a handful of children, trading a per-node map
// allocation for bucketed locality in a single flat table.
package sufftree

import (
	"errors"
	"fmt"

	"github.com/basepair-labs/sufftree/pkg/alphabet"
	"github.com/basepair-labs/sufftree/pkg/safeconv"
	"github.com/basepair-labs/sufftree/pkg/twokeymap"
)

// Tree is a generalized suffix tree under online construction. The zero
// value is not usable; construct with [NewTree].
type Tree struct {
	alphabet alphabet.Alphabet

	s     []byte
	nodes []arenaNode

	children *twokeymap.Map[uint32, byte, uint32]

	phase             int
	startingExtension int
	lastEnd           uint32
	lastEndOffset     int
	newInternalNode   uint32
	leaf1             uint32
	element           byte

	isTerminated bool
}

// NewTree constructs an empty tree over the given alphabet, with just a
// root node and no stored symbols.
func NewTree(a alphabet.Alphabet) *Tree {
	t := &Tree{
		alphabet:        a,
		nodes:           make([]arenaNode, 0, 1),
		phase:           -1,
		lastEnd:         rootIdx,
		newInternalNode: noIndex,
		leaf1:           noIndex,
	}

	t.nodes = append(t.nodes, arenaNode{
		kind:       kindRoot,
		parent:     noIndex,
		suffixLink: noIndex,
	})

	t.children = twokeymap.New[uint32, byte, uint32](a.Size(), hashNodeIndex, hashSymbol)

	return t
}

// hashNodeIndex and hashSymbol widen a node index / symbol to a 64-bit
// value for twokeymap.Map's internal avalanche mixing; they need not mix
// on their own.
func hashNodeIndex(idx uint32) uint64 { return uint64(idx) }
func hashSymbol(b byte) uint64        { return uint64(b) }

// Append converts and inserts each byte of seq in order. A nil or empty
// seq is a tolerated no-op, even on a terminated tree. Otherwise Append
// fails with [AlreadyTerminatedError] if the tree was already terminated,
// or [InvalidSymbolError] at the first byte the alphabet rejects — symbols
// appended before the offending byte remain in the tree.
func (t *Tree) Append(seq []byte) error {
	if len(seq) == 0 {
		return nil
	}

	if t.isTerminated {
		return AlreadyTerminatedError
	}

	for _, b := range seq {
		internal, ok := t.alphabet.Convert(b)
		if !ok {
			return fmt.Errorf("%w: byte %q", InvalidSymbolError, b)
		}

		if err := t.safeAddSymbol(internal); err != nil {
			return err
		}
	}

	return nil
}

// Terminate appends the alphabet's terminator and forces one final
// explicit phase so every suffix of the stored string ends at a leaf,
// turning the implicit tree into a true suffix tree. It fails with
// [AlreadyTerminatedError] on a second call.
func (t *Tree) Terminate() error {
	if t.isTerminated {
		return AlreadyTerminatedError
	}

	term := t.alphabet.Terminator()

	if len(t.s) == 0 {
		t.s = append(t.s, term)
		t.phase = 0
		t.isTerminated = true

		return nil
	}

	// Re-enter the tree at the position representing the entire previous
	// string: leaf1's incoming edge already spans all of it by Trick 3, so
	// anchoring at leaf1's parent (always internal or root — an anchor
	// must never itself be a leaf) with pathLength equal to leaf1's
	// current edge length reaches the same place the suffix-link descent
	// machinery expects.
	prevLen := safeconv.MustIntToUint32(len(t.s))
	t.lastEnd = t.nodes[t.leaf1].parent
	t.lastEndOffset = int(prevLen - t.nodes[t.leaf1].edgeStart)
	t.startingExtension = 1

	if err := t.safeAddSymbol(term); err != nil {
		return err
	}

	t.isTerminated = true

	return nil
}

// Size returns the number of symbols appended, excluding the terminator.
func (t *Tree) Size() int {
	n := len(t.s)
	if t.isTerminated {
		n--
	}

	return n
}

// Root returns the tree's root node.
func (t *Tree) Root() Node {
	return Node{tree: t, idx: rootIdx}
}

// safeAddSymbol runs addSymbol, converting a twokeymap capacity panic into
// a returned error so construction fails at an operation boundary instead
// of crashing the process; an [AssertionFailure] is a programming error and
// is allowed to propagate as a panic.
func (t *Tree) safeAddSymbol(symbol byte) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if capErr, ok := r.(error); ok && errors.Is(capErr, twokeymap.ErrCapacityExceeded) {
			err = capErr

			return
		}

		panic(r)
	}()

	t.addSymbol(symbol)

	return nil
}

// addSymbol implements §4.4.3: append the symbol, advance the phase, and
// either bootstrap the very first leaf (phase 0) or run a full phase.
func (t *Tree) addSymbol(symbol byte) {
	t.s = append(t.s, symbol)
	t.element = symbol
	t.phase++

	if t.phase == 0 {
		leaf := t.newLeafNode(rootIdx, 0, 0)
		_, existed := t.children.Put(rootIdx, symbol, leaf)
		assertInvariant(!existed, "addSymbol: root already had a child on the first symbol")
		t.leaf1 = leaf
		t.startingExtension = 1
		// Extension 0 now ends one symbol below the root, on leaf1's edge.
		t.lastEndOffset++

		return
	}

	t.doPhase()
	t.lastEndOffset++
}

// doPhase implements §4.4.4: run extensions startingExtension..lastExtension,
// stopping early (Trick 2) the moment an extension reports rule 3.
//
// lastExtension is always the current phase, terminator phase included: the
// terminator's own singleton suffix (extension == phase, the suffix
// consisting of just the terminator) must become an explicit leaf like any
// other extension — boundary scenarios that count reachable suffixes after
// termination depend on it — so the terminator is not special-cased out of
// the loop bound here.
func (t *Tree) doPhase() {
	t.newInternalNode = noIndex

	lastExtension := t.phase

	if t.startingExtension > lastExtension {
		return
	}

	processed := t.startingExtension
	ruleThreeBroke := false

	for i := t.startingExtension; i <= lastExtension; i++ {
		processed = i

		if t.extendViaSuffixLink(i) {
			ruleThreeBroke = true

			break
		}
	}

	if ruleThreeBroke {
		t.startingExtension = processed
	} else {
		t.startingExtension = processed + 1
	}
}

// extendViaSuffixLink implements §4.4.5 (SEA): ascend to the nearest
// suffix-linked ancestor (or the root), chase the link, extend, and wire
// the previous extension's new internal node's suffix link from the
// result. Returns whether rule 3 applied.
func (t *Tree) extendViaSuffixLink(extension int) bool {
	node := t.lastEnd
	pathLength := t.lastEndOffset

	if node != rootIdx && t.nodes[node].suffixLink == noIndex {
		pathLength += t.internalEdgeLength(node)
		node = t.nodes[node].parent
	}

	if node == rootIdx {
		pathLength--
	} else {
		node = t.nodes[node].suffixLink
	}

	assertInvariant(pathLength >= 0, "extendViaSuffixLink: negative pathLength before extend")

	rule3Node, createdInternalNode := t.extend(node, safeconv.MustIntToUint32(pathLength), extension)

	if t.newInternalNode != noIndex {
		target := t.lastEnd
		if rule3Node != noIndex {
			target = rule3Node
		}

		t.nodes[t.newInternalNode].suffixLink = target
	}

	t.newInternalNode = createdInternalNode

	return rule3Node != noIndex
}

// extend implements §4.4.6: tail-recursive skip/count descent from node by
// pathLength symbols, dispatching to the matching Gusfield rule once it
// lands. At most one of the two returned indices is not [noIndex].
func (t *Tree) extend(node uint32, pathLength uint32, extension int) (rule3Node, createdInternalNode uint32) {
	if pathLength == 0 {
		if _, ok := t.children.Get(node, t.element); ok {
			// Rule 3: this suffix already extends with the current symbol.
			return node, noIndex
		}

		// Rule 2a.
		t.lastEnd = node
		t.lastEndOffset = 0

		leaf := t.newLeafNode(node, safeconv.MustIntToUint32(t.phase), safeconv.MustIntToUint32(extension))
		_, existed := t.children.Put(node, t.element, leaf)
		assertInvariant(!existed, "extend/rule2a: leaf inserted over an existing child")

		return noIndex, noIndex
	}

	nextElementOnEdge := t.s[safeconv.MustIntToUint32(t.phase)-pathLength]

	child, ok := t.children.Get(node, nextElementOnEdge)
	assertInvariant(ok, "extend: descent character has no child edge")

	if t.nodes[child].kind == kindLeaf {
		childLength := t.leafLength(child, t.phase-1)
		if safeconv.MustIntToUint32(childLength) == pathLength {
			// Rule 1: suffix ends at an existing leaf, which auto-extends.
			t.lastEnd = node
			t.lastEndOffset = int(pathLength)

			return noIndex, noIndex
		}
	} else {
		edgeLen := t.internalEdgeLength(child)
		excess := int(pathLength) - edgeLen

		if excess >= 0 {
			// Trick 1: skip/count, O(1) edges instead of O(edge length) symbols.
			return t.extend(child, safeconv.MustIntToUint32(excess), extension)
		}
	}

	// Inside child's edge, strictly before its end.
	nextEdgeChar := t.s[t.nodes[child].edgeStart+pathLength]

	if t.element == nextEdgeChar {
		// Rule 3.
		return node, noIndex
	}

	// Rule 2b: split child's edge and hang a new leaf off the split point.
	firstEdgeChar := t.s[t.nodes[child].edgeStart]

	n := t.split(child, firstEdgeChar, nextEdgeChar, pathLength)

	leaf := t.newLeafNode(n, safeconv.MustIntToUint32(t.phase), safeconv.MustIntToUint32(extension))
	_, existed := t.children.Put(n, t.element, leaf)
	assertInvariant(!existed, "extend/rule2b: leaf inserted over an existing child")

	t.lastEnd = n
	t.lastEndOffset = 0

	return noIndex, n
}
