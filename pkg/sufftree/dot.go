package sufftree

import (
	"fmt"
	"io"

	"github.com/basepair-labs/sufftree/pkg/safeconv"
)

// Dot renders the tree as a strict directed Graphviz graph to w, for
// diagnostics. Every edge is emitted as a chain of per-symbol sub-edges so
// Graphviz draws the label as the concatenation of the edge's symbols;
// suffix links are dashed red edges; the current extension's newly created
// internal node and lastEnd are marked with small annotated auxiliary
// nodes. Dot gives no consistency guarantee if called while the tree is
// concurrently being extended — construction is single-writer, so that
// never happens in normal use.
func (t *Tree) Dot(w io.Writer) error {
	bw := &errWriter{w: w}

	bw.printf("strict digraph sufftree {\n")
	bw.printf("  rankdir=LR;\n")
	bw.printf("  node [shape=circle];\n")
	bw.printf("  n0 [shape=doublecircle, style=bold, label=\"root\"];\n")

	for idx := uint32(1); idx < safeconv.MustIntToUint32(len(t.nodes)); idx++ {
		t.dotNode(bw, idx)
	}

	for idx := uint32(1); idx < safeconv.MustIntToUint32(len(t.nodes)); idx++ {
		t.dotEdge(bw, idx)

		if link := t.nodes[idx].suffixLink; link != noIndex {
			bw.printf("  n%d -> n%d [style=dashed, color=red, constraint=false];\n", idx, link)
		}
	}

	t.dotAux(bw, "new_internal", t.newInternalNode)
	t.dotAux(bw, "last_end", t.lastEnd)

	bw.printf("}\n")

	return bw.err
}

func (t *Tree) dotNode(bw *errWriter, idx uint32) {
	switch t.nodes[idx].kind {
	case kindLeaf:
		start, _ := Node{tree: t, idx: idx}.StringStart()
		bw.printf("  n%d [shape=circle, label=\"%d\"];\n", idx, start)
	case kindInternal:
		bw.printf("  n%d [shape=circle, label=\"\"];\n", idx)
	case kindRoot:
		// The root is emitted once, unconditionally, by Dot itself.
	}
}

// dotEdge emits idx's incoming edge as a chain of single-symbol sub-edges
// labeled with the literal symbol value, so a renderer can show the full
// edge label as their concatenation without the graph needing one edge
// object carrying a multi-character label.
func (t *Tree) dotEdge(bw *errWriter, idx uint32) {
	rec := t.nodes[idx]

	length := Node{tree: t, idx: idx}.Length(t.phase)
	if length <= 0 {
		return
	}

	origin := fmt.Sprintf("n%d", rec.parent)

	for i := 0; i < length-1; i++ {
		sym := t.s[rec.edgeStart+safeconv.MustIntToUint32(i)]

		chainNode := fmt.Sprintf("chain_%d_%d", idx, i)
		bw.printf("  %s [shape=point];\n", chainNode)
		bw.printf("  %s -> %s [label=%q];\n", origin, chainNode, string(sym))

		origin = chainNode
	}

	lastSym := t.s[rec.edgeStart+safeconv.MustIntToUint32(length-1)]
	bw.printf("  %s -> n%d [label=%q];\n", origin, idx, string(lastSym))
}

func (t *Tree) dotAux(bw *errWriter, label string, idx uint32) {
	if idx == noIndex {
		return
	}

	bw.printf("  aux_%s [shape=box, style=filled, fillcolor=lightgrey, label=%q];\n", label, label)
	bw.printf("  aux_%s -> n%d [style=dotted];\n", label, idx)
}

// errWriter accumulates the first write error so dotNode/dotEdge/dotAux can
// be written as plain printf calls without individually checking err.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}

	_, e.err = fmt.Fprintf(e.w, format, args...)
}
