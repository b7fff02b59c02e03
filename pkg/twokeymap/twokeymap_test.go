package twokeymap_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basepair-labs/sufftree/pkg/twokeymap"
)

// Test constants.
const (
	testBucketCap   = 4
	testOracleOps   = 20000
	testOracleK1s   = 50
	testOracleK2s   = 8
	testGrowEntries = 5000
)

func hashUint32(v uint32) uint64 { return uint64(v) }
func hashByte(v byte) uint64     { return uint64(v) }

func newTestMap() *twokeymap.Map[uint32, byte, string] {
	return twokeymap.New[uint32, byte, string](testBucketCap, hashUint32, hashByte)
}

func TestPutGet_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestMap()

	prev, existed := m.Put(1, 'A', "leaf-a")
	assert.False(t, existed)
	assert.Empty(t, prev)

	v, ok := m.Get(1, 'A')
	require.True(t, ok)
	assert.Equal(t, "leaf-a", v)
}

func TestPut_OverwriteReturnsPreviousValue(t *testing.T) {
	t.Parallel()

	m := newTestMap()

	_, _ = m.Put(1, 'A', "first")

	prev, existed := m.Put(1, 'A', "second")
	require.True(t, existed)
	assert.Equal(t, "first", prev)

	v, ok := m.Get(1, 'A')
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestGet_AbsentKeyReportsNotFound(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "x")

	_, ok := m.Get(1, 'C')
	assert.False(t, ok)

	_, ok = m.Get(2, 'A')
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "x")

	assert.True(t, m.Contains(1, 'A'))
	assert.False(t, m.Contains(1, 'T'))
}

func TestRemove_ThenAbsent(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "x")

	prev, ok := m.Remove(1, 'A')
	require.True(t, ok)
	assert.Equal(t, "x", prev)

	assert.False(t, m.Contains(1, 'A'))

	_, ok = m.Remove(1, 'A')
	assert.False(t, ok)
}

func TestRemove_DoesNotDisturbOtherKeysInSameBucket(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "a")
	_, _ = m.Put(1, 'C', "c")
	_, _ = m.Put(1, 'G', "g")

	_, _ = m.Remove(1, 'C')

	va, ok := m.Get(1, 'A')
	require.True(t, ok)
	assert.Equal(t, "a", va)

	vg, ok := m.Get(1, 'G')
	require.True(t, ok)
	assert.Equal(t, "g", vg)
}

func TestLen_TracksDistinctLivePairs(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	assert.Equal(t, 0, m.Len())

	_, _ = m.Put(1, 'A', "a")
	_, _ = m.Put(1, 'C', "c")
	assert.Equal(t, 2, m.Len())

	_, _ = m.Put(1, 'A', "a-updated")
	assert.Equal(t, 2, m.Len())

	_, _ = m.Remove(1, 'C')
	assert.Equal(t, 1, m.Len())
}

func TestGrowth_PreservesAllPriorPairs(t *testing.T) {
	t.Parallel()

	m := twokeymap.New[uint32, byte, int](testBucketCap, hashUint32, hashByte)

	for i := range testGrowEntries {
		k1 := uint32(i) //nolint:gosec // test loop index fits uint32.
		_, _ = m.Put(k1, 'A', i)
		_, _ = m.Put(k1, 'C', i*2)
	}

	for i := range testGrowEntries {
		k1 := uint32(i) //nolint:gosec // test loop index fits uint32.

		va, ok := m.Get(k1, 'A')
		require.True(t, ok)
		assert.Equal(t, i, va)

		vc, ok := m.Get(k1, 'C')
		require.True(t, ok)
		assert.Equal(t, i*2, vc)
	}

	assert.Equal(t, testGrowEntries*2, m.Len())
	assert.Positive(t, m.GrowCount())
}

func TestGrowCount_ZeroBeforeAnyGrowth(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "x")

	assert.Equal(t, 0, m.GrowCount())
}

func TestIterateByK1_YieldsExactlyThatK1sPairs(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "1a")
	_, _ = m.Put(1, 'C', "1c")
	_, _ = m.Put(2, 'G', "2g")

	got := map[byte]string{}

	it := m.IterateByK1(1)
	for {
		k2, v, ok := it.Next()
		if !ok {
			break
		}

		got[k2] = v
	}

	assert.Equal(t, map[byte]string{'A': "1a", 'C': "1c"}, got)
}

func TestIterateByK1_EmptyForUnknownK1(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "1a")

	it := m.IterateByK1(99)
	_, _, ok := it.Next()
	assert.False(t, ok)
}

func TestIterateByK1_InvalidatedByPutPanics(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "1a")
	_, _ = m.Put(1, 'C', "1c")

	it := m.IterateByK1(1)
	_, _, ok := it.Next()
	require.True(t, ok)

	_, _ = m.Put(5, 'G', "unrelated")

	assert.PanicsWithValue(t, twokeymap.ErrIterationInvalidated, func() {
		it.Next()
	})
}

func TestIterateByK1_SurvivesGrowthOfOtherKeys(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	_, _ = m.Put(1, 'A', "1a")

	for i := range testGrowEntries {
		k1 := uint32(i + 100) //nolint:gosec // test loop index fits uint32.
		_, _ = m.Put(k1, 'G', strconv.Itoa(i))
	}

	it := m.IterateByK1(1)
	k2, v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, byte('A'), k2)
	assert.Equal(t, "1a", v)
}

// oracle mirrors a TwoKeyMap independently via a nested Go map, so property
// tests can check every observable operation against ground truth.
type oracle struct {
	data map[uint32]map[byte]string
}

func newOracle() *oracle {
	return &oracle{data: make(map[uint32]map[byte]string)}
}

func (o *oracle) put(k1 uint32, k2 byte, v string) (string, bool) {
	bucket, ok := o.data[k1]
	if !ok {
		bucket = make(map[byte]string)
		o.data[k1] = bucket
	}

	prev, existed := bucket[k2]
	bucket[k2] = v

	return prev, existed
}

func (o *oracle) remove(k1 uint32, k2 byte) (string, bool) {
	bucket, ok := o.data[k1]
	if !ok {
		return "", false
	}

	prev, existed := bucket[k2]
	delete(bucket, k2)

	return prev, existed
}

func (o *oracle) get(k1 uint32, k2 byte) (string, bool) {
	bucket, ok := o.data[k1]
	if !ok {
		return "", false
	}

	v, ok := bucket[k2]

	return v, ok
}

func (o *oracle) size() int {
	n := 0
	for _, bucket := range o.data {
		n += len(bucket)
	}

	return n
}

// TestOracle_RandomOperationsMatchReference runs a long randomized sequence
// of Put/Get/Remove against both the TwoKeyMap and a trivial nested-map
// oracle, asserting agreement after every operation.
func TestOracle_RandomOperationsMatchReference(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(0)) //nolint:gosec // deterministic test seed, not security-sensitive.

	m := twokeymap.New[uint32, byte, string](testBucketCap, hashUint32, hashByte)
	o := newOracle()

	symbols := []byte("ACGT$")

	for range testOracleOps {
		k1 := uint32(rng.Intn(testOracleK1s)) //nolint:gosec // bounded by testOracleK1s.
		k2 := symbols[rng.Intn(len(symbols))]

		switch rng.Intn(3) {
		case 0, 1:
			v := randValue(rng)

			wantPrev, wantExisted := o.put(k1, k2, v)
			gotPrev, gotExisted := m.Put(k1, k2, v)

			require.Equal(t, wantExisted, gotExisted)
			require.Equal(t, wantPrev, gotPrev)
		default:
			wantPrev, wantExisted := o.remove(k1, k2)
			gotPrev, gotExisted := m.Remove(k1, k2)

			require.Equal(t, wantExisted, gotExisted)
			require.Equal(t, wantPrev, gotPrev)
		}
	}

	require.Equal(t, o.size(), m.Len())

	for k1 := uint32(0); k1 < testOracleK1s; k1++ {
		for _, k2 := range symbols {
			wantV, wantOK := o.get(k1, k2)
			gotV, gotOK := m.Get(k1, k2)

			require.Equal(t, wantOK, gotOK, "k1=%d k2=%c", k1, k2)
			require.Equal(t, wantV, gotV, "k1=%d k2=%c", k1, k2)
		}
	}
}

func randValue(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"

	b := make([]byte, testOracleK2s)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}

	return string(b)
}
