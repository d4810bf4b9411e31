package cycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
)

// fourParty is the Pedro/Pilar/Andrea/David ring.
func fourParty() (*debtmatrix.Matrix, *debtmatrix.Names) {
	m := debtmatrix.MustNew([][]int64{
		{0, 10, 0, 0},
		{0, 0, 20, 0},
		{0, 0, 0, 30},
		{40, 0, 0, 0},
	})

	return m, debtmatrix.NamesFromList([]string{"Pedro", "Pilar", "Andrea", "David"})
}

// TestEnumerate_FourPartyRing finds the single ring and its bottleneck.
func TestEnumerate_FourPartyRing(t *testing.T) {
	m, _ := fourParty()
	cycles, err := cycle.Enumerate(m)
	require.NoError(t, err)
	require.Len(t, cycles, 1)

	// David → Pedro → Pilar → Andrea → David, reported from the smallest index.
	assert.True(t, cycle.Equivalent(cycle.Cycle{3, 0, 1, 2}, cycles[0]))
	assert.Equal(t, cycle.Cycle{0, 1, 2, 3}, cycles[0])

	b, err := cycle.Bottleneck(m, cycles[0])
	require.NoError(t, err)
	assert.EqualValues(t, 10, b)
}

// TestEnumerate_NilAndEmpty covers trivial inputs.
func TestEnumerate_NilAndEmpty(t *testing.T) {
	_, err := cycle.Enumerate(nil)
	assert.ErrorIs(t, err, cycle.ErrNilMatrix)

	cycles, err := cycle.Enumerate(debtmatrix.MustNew(nil))
	assert.NoError(t, err)
	assert.Empty(t, cycles)
}

// TestEnumerate_AcyclicAndSelfLoop: a chain has no cycles and a diagonal
// entry is not a cycle.
func TestEnumerate_AcyclicAndSelfLoop(t *testing.T) {
	m := debtmatrix.MustNew([][]int64{
		{5, 1, 0},
		{0, 0, 1},
		{0, 0, 0},
	})
	cycles, err := cycle.Enumerate(m)
	require.NoError(t, err)
	assert.Empty(t, cycles)
}

// TestEnumerate_CompleteGraph3 checks the exact set and order on K3
// (three 2-cycles and two 3-cycles).
func TestEnumerate_CompleteGraph3(t *testing.T) {
	m := debtmatrix.MustNew([][]int64{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	})
	cycles, err := cycle.Enumerate(m)
	require.NoError(t, err)
	assert.Equal(t, []cycle.Cycle{
		{0, 1},
		{0, 1, 2},
		{0, 2},
		{0, 2, 1},
		{1, 2},
	}, cycles)
}

// TestEnumerate_CompleteGraphCount compares with the closed-form count of
// simple cycles in the complete digraph K_n: Σ_{k=2..n} C(n,k)·(k-1)!.
func TestEnumerate_CompleteGraphCount(t *testing.T) {
	n := 5
	rows := make([][]int64, n)
	for i := range rows {
		rows[i] = make([]int64, n)
		for j := range rows[i] {
			if i != j {
				rows[i][j] = 1
			}
		}
	}
	cycles, err := cycle.Enumerate(debtmatrix.MustNew(rows))
	require.NoError(t, err)
	// k=2: 10, k=3: 20, k=4: 30, k=5: 24
	assert.Len(t, cycles, 84)

	seen := map[string]bool{}
	for _, c := range cycles {
		require.NoError(t, cycle.Check(c, n))
		assert.Equal(t, cycle.Normalize(c), c, "cycles start at their smallest node")
		key := ""
		for _, v := range c {
			key += string(rune('a' + v))
		}
		assert.False(t, seen[key], "duplicate cycle %v", c)
		seen[key] = true
	}
}

// TestEnumerate_Limits exercises MaxCycles and MaxLength.
func TestEnumerate_Limits(t *testing.T) {
	m := debtmatrix.MustNew([][]int64{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	})

	cycles, err := cycle.Enumerate(m, cycle.WithMaxCycles(2))
	assert.ErrorIs(t, err, cycle.ErrCycleLimit)
	assert.Len(t, cycles, 2)

	cycles, err = cycle.Enumerate(m, cycle.WithMaxLength(2))
	require.NoError(t, err)
	assert.Equal(t, []cycle.Cycle{{0, 1}, {0, 2}, {1, 2}}, cycles)

	assert.Panics(t, func() { cycle.WithMaxCycles(-1) })
}

// TestEnumerate_Cancelled returns the context error.
func TestEnumerate_Cancelled(t *testing.T) {
	m, _ := fourParty()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cycle.Enumerate(m, cycle.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestBottleneck_Wraparound: the closing edge takes part in the minimum.
func TestBottleneck_Wraparound(t *testing.T) {
	m := debtmatrix.MustNew([][]int64{
		{0, 50, 0},
		{0, 0, 40},
		{7, 0, 0},
	})
	b, err := cycle.Bottleneck(m, cycle.Cycle{0, 1, 2})
	require.NoError(t, err)
	assert.EqualValues(t, 7, b)
}

// TestBottleneck_Invalid covers the error taxonomy.
func TestBottleneck_Invalid(t *testing.T) {
	m, _ := fourParty()

	_, err := cycle.Bottleneck(m, cycle.Cycle{1})
	assert.ErrorIs(t, err, cycle.ErrInvalidCycle)

	_, err = cycle.Bottleneck(m, cycle.Cycle{0, 1, 0})
	assert.ErrorIs(t, err, cycle.ErrInvalidCycle)

	_, err = cycle.Bottleneck(m, cycle.Cycle{0, 9})
	assert.ErrorIs(t, err, debtmatrix.ErrNodeNotFound)

	// 1 → 0 is not an edge.
	_, err = cycle.Bottleneck(m, cycle.Cycle{0, 1})
	assert.ErrorIs(t, err, cycle.ErrInvalidCycle)
}

// TestShortestBack_MatchesEnumeration: Pedro → Pilar closes the same ring
// that full enumeration reports.
func TestShortestBack_MatchesEnumeration(t *testing.T) {
	m, names := fourParty()

	got, err := cycle.ShortestBackByName(m, names, "Pedro", "Pilar")
	require.NoError(t, err)
	assert.Equal(t, cycle.Cycle{0, 1, 2, 3}, got)

	all, err := cycle.Enumerate(m)
	require.NoError(t, err)
	assert.True(t, cycle.Contains(all, got))
	assert.Equal(t, []string{"Pedro", "Pilar", "Andrea", "David"}, got.Names(names))
}

// TestShortestBack_PicksShortestReturn prefers the cheaper way home.
func TestShortestBack_PicksShortestReturn(t *testing.T) {
	// 0 → 1, then 1 → 2 → 0 costs 2 while 1 → 3 → 0 costs 10.
	m := debtmatrix.MustNew([][]int64{
		{0, 5, 0, 0},
		{0, 0, 1, 5},
		{1, 0, 0, 0},
		{5, 0, 0, 0},
	})
	got, err := cycle.ShortestBack(m, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, cycle.Cycle{0, 1, 2}, got)
}

// TestShortestBack_Errors covers every failure kind.
func TestShortestBack_Errors(t *testing.T) {
	m, names := fourParty()

	_, err := cycle.ShortestBack(m, 0, 2)
	assert.ErrorIs(t, err, cycle.ErrNoDirectEdge)

	_, err = cycle.ShortestBack(m, 0, 7)
	assert.ErrorIs(t, err, debtmatrix.ErrNodeNotFound)

	_, err = cycle.ShortestBack(m, 1, 1)
	assert.ErrorIs(t, err, cycle.ErrInvalidCycle)

	_, err = cycle.ShortestBackByName(m, names, "Pedro", "Nobody")
	assert.ErrorIs(t, err, debtmatrix.ErrNodeNotFound)

	chain := debtmatrix.MustNew([][]int64{
		{0, 3},
		{0, 0},
	})
	_, err = cycle.ShortestBack(chain, 0, 1)
	assert.ErrorIs(t, err, cycle.ErrNoPath)
}

// TestCanonicalizeAndEquivalent covers the representation helpers.
func TestCanonicalizeAndEquivalent(t *testing.T) {
	assert.Equal(t, cycle.Cycle{0, 1, 2}, cycle.Canonicalize([]int{0, 1, 2, 0}))
	assert.Equal(t, cycle.Cycle{0, 1, 2}, cycle.Canonicalize([]int{0, 1, 2}))
	assert.Equal(t, cycle.Cycle{1, 2, 3}, cycle.Normalize(cycle.Cycle{3, 1, 2}))

	assert.True(t, cycle.Equivalent(cycle.Cycle{2, 0, 1}, cycle.Cycle{0, 1, 2, 0}))
	assert.False(t, cycle.Equivalent(cycle.Cycle{0, 2, 1}, cycle.Cycle{0, 1, 2}))

	c := cycle.Cycle{3, 0, 1}
	assert.Equal(t, []int{3, 0, 1, 3}, c.Closed())
	assert.Equal(t, [][2]int{{3, 0}, {0, 1}, {1, 3}}, c.Edges())

	_, names := fourParty()
	assert.Equal(t, []string{"David", "Pedro", "Pilar"}, c.Names(names))
	assert.Equal(t, []string{"#3", "#0", "#1"}, c.Names(nil))
}

// TestAnnotate pairs cycles with bottlenecks.
func TestAnnotate(t *testing.T) {
	m, _ := fourParty()
	cycles, err := cycle.Enumerate(m)
	require.NoError(t, err)

	w, err := cycle.Annotate(m, cycles)
	require.NoError(t, err)
	assert.Equal(t, []cycle.Weighted{{Cycle: cycle.Cycle{0, 1, 2, 3}, Bottleneck: 10}}, w)
}
