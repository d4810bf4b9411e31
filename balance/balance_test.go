package balance_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedronavarrovera/amo/balance"
	"github.com/pedronavarrovera/amo/debtmatrix"
)

func ring() *debtmatrix.Matrix {
	return debtmatrix.MustNew([][]int64{
		{0, 10, 0, 0},
		{0, 0, 20, 0},
		{0, 0, 0, 30},
		{40, 0, 0, 0},
	})
}

// TestCompute_Ring checks the documented Pedro/Pilar/Andrea/David balances.
func TestCompute_Ring(t *testing.T) {
	b := balance.Compute(ring())
	assert.Equal(t, []int64{10, 20, 30, 40}, b.OwedBy)
	assert.Equal(t, []int64{40, 10, 20, 30}, b.OwedTo)
	assert.Equal(t, []int64{30, -10, -10, -10}, b.Net)
	assert.Zero(t, b.Total())
}

// TestCompute_Nil treats a nil matrix as empty.
func TestCompute_Nil(t *testing.T) {
	b := balance.Compute(nil)
	assert.Zero(t, b.Len())
	_, err := balance.Summarize(b)
	assert.ErrorIs(t, err, balance.ErrEmpty)
}

// TestSummarize_Ring verifies the four insights and the smallest-index tie-break.
func TestSummarize_Ring(t *testing.T) {
	s, err := balance.Summarize(balance.Compute(ring()))
	require.NoError(t, err)
	assert.Equal(t, balance.Extreme{Index: 0, Value: 40}, s.MostOwedTo)
	assert.Equal(t, balance.Extreme{Index: 3, Value: 40}, s.OwesMost)
	assert.Equal(t, balance.Extreme{Index: 0, Value: 30}, s.TopCreditor)
	// Pilar, Andrea and David all sit at -10; Pilar has the smallest index.
	assert.Equal(t, balance.Extreme{Index: 1, Value: -10}, s.TopDebtor)
}

// TestSummarize_AllTied picks index 0 everywhere on an empty-edge network.
func TestSummarize_AllTied(t *testing.T) {
	m, err := debtmatrix.Zero(3)
	require.NoError(t, err)
	s, err := balance.Summarize(balance.Compute(m))
	require.NoError(t, err)
	for _, e := range []balance.Extreme{s.MostOwedTo, s.OwesMost, s.TopCreditor, s.TopDebtor} {
		assert.Equal(t, balance.Extreme{Index: 0, Value: 0}, e)
	}
}

// TestSummarize_Empty reports ErrEmpty.
func TestSummarize_Empty(t *testing.T) {
	m, err := debtmatrix.Zero(0)
	require.NoError(t, err)
	_, err = balance.Summarize(balance.Compute(m))
	assert.ErrorIs(t, err, balance.ErrEmpty)
}

// TestCompute_Properties checks sums and the zero-total invariant on random matrices.
func TestCompute_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.IntN(12)
		rows := make([][]int64, n)
		for i := range rows {
			rows[i] = make([]int64, n)
			for j := range rows[i] {
				rows[i][j] = rng.Int64N(100)
			}
		}
		m := debtmatrix.MustNew(rows)
		b := balance.Compute(m)

		require.Zero(t, b.Total(), "trial %d", trial)
		for i := 0; i < n; i++ {
			r, _ := m.RowSum(i)
			c, _ := m.ColSum(i)
			assert.Equal(t, r, b.OwedBy[i])
			assert.Equal(t, c, b.OwedTo[i])
		}
	}
}
