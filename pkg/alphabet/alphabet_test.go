package alphabet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basepair-labs/sufftree/pkg/alphabet"
)

func TestDNA_ConvertsKnownSymbols(t *testing.T) {
	t.Parallel()

	a := alphabet.DNA()

	for _, b := range []byte("ACGT") {
		internal, ok := a.Convert(b)
		require.True(t, ok)
		assert.Equal(t, b, internal)
	}

	assert.Equal(t, byte('$'), a.Terminator())
	assert.Equal(t, 5, a.Size())
}

func TestDNA_RejectsUnknownSymbol(t *testing.T) {
	t.Parallel()

	a := alphabet.DNA()

	_, ok := a.Convert('N')
	assert.False(t, ok)

	_, ok = a.Convert('$')
	assert.False(t, ok)
}

func TestDNAWithN_Size(t *testing.T) {
	t.Parallel()

	a := alphabet.DNAWithN()
	assert.Equal(t, 6, a.Size())

	internal, ok := a.Convert('N')
	require.True(t, ok)
	assert.Equal(t, byte('N'), internal)
}

func TestProtein_Size(t *testing.T) {
	t.Parallel()

	a := alphabet.Protein()
	assert.Equal(t, 21, a.Size())
	assert.Equal(t, byte('*'), a.Terminator())
}

func TestFromJSON_RejectsTerminatorCollision(t *testing.T) {
	t.Parallel()

	_, err := alphabet.FromJSON([]byte("AB$"), '$')
	require.ErrorIs(t, err, alphabet.ErrTerminatorCollision)
}

func TestFromJSON_RejectsEmptySet(t *testing.T) {
	t.Parallel()

	_, err := alphabet.FromJSON(nil, '$')
	require.ErrorIs(t, err, alphabet.ErrEmptySymbolSet)
}

func TestFromJSON_BuildsCustomAlphabet(t *testing.T) {
	t.Parallel()

	a, err := alphabet.FromJSON([]byte("01"), '#')
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size())

	internal, ok := a.Convert('1')
	require.True(t, ok)
	assert.Equal(t, byte('1'), internal)
}

func TestFromJSON_DuplicateSymbolsCountOnce(t *testing.T) {
	t.Parallel()

	a, err := alphabet.FromJSON([]byte("AAAA"), '$')
	require.NoError(t, err)
	assert.Equal(t, 2, a.Size())
}
