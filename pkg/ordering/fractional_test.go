package ordering

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestAllocateEmptyListIsDeterministic(t *testing.T) {
	first, err := Allocate(nil, nil)
	require.NoError(t, err)

	second, err := Allocate(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, Seed, first)
	assert.Equal(t, first, second)
}

func TestAllocateBoundaries(t *testing.T) {
	above, err := Allocate(fp(5.0), nil)
	require.NoError(t, err)
	assert.Greater(t, above, 5.0)

	below, err := Allocate(nil, fp(5.0))
	require.NoError(t, err)
	assert.Less(t, below, 5.0)
}

func TestAllocateBetweenStaysStrictlyBetween(t *testing.T) {
	cases := []struct{ prev, next float64 }{
		{0, 1},
		{1, 2},
		{-10, 10},
		{65536, 131072},
		{0.001, 0.002},
	}
	for _, tc := range cases {
		k, err := Allocate(fp(tc.prev), fp(tc.next))
		require.NoError(t, err)
		assert.Greater(t, k, tc.prev)
		assert.Less(t, k, tc.next)
	}
}

func TestAllocateRepeatedInsertionEventuallyExhausts(t *testing.T) {
	prev := 0.0
	next := 1.0

	var exhausted bool
	for i := 0; i < 128; i++ {
		k, err := Allocate(&prev, &next)
		if err != nil {
			assert.ErrorIs(t, err, ErrGapExhausted)
			exhausted = true
			break
		}
		// Keep inserting directly below the upper neighbor.
		prev = k
	}
	assert.True(t, exhausted, "gap never underflowed after repeated midpoint insertion")
}

func TestSpreadPreservesRelativeOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// Arbitrary, partially near-colliding keys.
	items := make([]struct {
		id  int
		key float64
	}, 50)
	for i := range items {
		items[i].id = i
		items[i].key = rng.Float64() * 10
	}
	items[10].key = items[9].key + 1e-12

	sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })
	before := make([]int, len(items))
	for i, it := range items {
		before[i] = it.id
	}

	keys := Spread(len(items))
	require.Len(t, keys, len(items))
	for i := range items {
		items[i].key = keys[i]
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })
	after := make([]int, len(items))
	for i, it := range items {
		after[i] = it.id
	}

	assert.Equal(t, before, after)

	// Canonical keys are evenly spaced.
	for i := 1; i < len(keys); i++ {
		assert.InDelta(t, Step, keys[i]-keys[i-1], 1e-6)
	}
}
