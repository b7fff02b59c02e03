package sufftree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basepair-labs/sufftree/pkg/alphabet"
	"github.com/basepair-labs/sufftree/pkg/sufftree"
)

func TestBoundary_EmptyTree(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.NoError(t, tree.Terminate())

	assert.Equal(t, 0, tree.Size())

	n := 0

	tree.Root().Children()(func(_ byte, _ sufftree.Node) bool {
		n++

		return true
	})
	assert.Equal(t, 0, n)
}

func TestBoundary_SingleSymbol(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.NoError(t, tree.Append([]byte("A")))
	require.NoError(t, tree.Terminate())

	assert.Equal(t, 1, tree.Size())

	children := map[byte]sufftree.Node{}

	tree.Root().Children()(func(symbol byte, child sufftree.Node) bool {
		children[symbol] = child

		return true
	})

	require.Len(t, children, 2)
	require.Contains(t, children, byte('A'))
	require.Contains(t, children, byte('$'))
	assert.True(t, children['A'].IsLeaf())
}

func TestBoundary_TAA_ThreeSuffixes(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.NoError(t, tree.Append([]byte("TAA")))
	require.NoError(t, tree.Terminate())

	assert.Equal(t, 3, tree.Size())

	for _, suffix := range []string{"TAA$", "AA$", "A$", "$"} {
		assert.True(t, tree.Contains([]byte(suffix)), "suffix %q not found", suffix)
	}
}

func TestBoundary_TAA_Twice(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.NoError(t, tree.Append([]byte("TAA")))
	require.NoError(t, tree.Append([]byte("TAA")))
	require.NoError(t, tree.Terminate())

	assert.Equal(t, 6, tree.Size())

	terminatorChildren := 0

	tree.Root().Children()(func(symbol byte, _ sufftree.Node) bool {
		if symbol == '$' {
			terminatorChildren++
		}

		return true
	})
	assert.Equal(t, 1, terminatorChildren)

	for _, suffix := range []string{"TAATAA$", "AATAA$", "ATAA$", "TAA$", "AA$", "A$", "$"} {
		assert.True(t, tree.Contains([]byte(suffix)), "suffix %q not found", suffix)
	}
}

func TestBoundary_DoubleTerminate(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.NoError(t, tree.Append([]byte("TAA")))
	require.NoError(t, tree.Terminate())

	require.ErrorIs(t, tree.Terminate(), sufftree.AlreadyTerminatedError)
	require.ErrorIs(t, tree.Append([]byte("C")), sufftree.AlreadyTerminatedError)
}

func TestAppend_RejectsTerminatorByte(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.ErrorIs(t, tree.Append([]byte("A$C")), sufftree.InvalidSymbolError)
}

func TestAppend_RejectsUnknownSymbol(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.ErrorIs(t, tree.Append([]byte("AXC")), sufftree.InvalidSymbolError)
}

func TestAppend_EmptyIsNoOp(t *testing.T) {
	t.Parallel()

	tree := sufftree.NewTree(alphabet.DNA())
	require.NoError(t, tree.Append(nil))
	require.NoError(t, tree.Append([]byte{}))
	assert.Equal(t, 0, tree.Size())

	require.NoError(t, tree.Terminate())
	require.NoError(t, tree.Append(nil), "append after termination must still tolerate an empty slice")
}
