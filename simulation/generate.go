package simulation

import (
	"fmt"
	"math/rand/v2"

	"github.com/pedronavarrovera/amo/debtmatrix"
)

// Generate draws an n×n matrix with every entry uniform in [0, maxWeight).
// The diagonal is drawn too; self-debts are never traversed.
func Generate(rng *rand.Rand, n int, maxWeight int64) (*debtmatrix.Matrix, error) {
	if n < 0 || maxWeight < 1 {
		return nil, fmt.Errorf("simulation: size %d, max weight %d: %w", n, maxWeight, debtmatrix.ErrValidation)
	}
	rows := make([][]int64, n)
	for i := range rows {
		rows[i] = make([]int64, n)
		for j := range rows[i] {
			rows[i][j] = rng.Int64N(maxWeight)
		}
	}

	return debtmatrix.New(rows)
}

// trialRand seeds one trial independently of scheduling order.
func trialRand(seed uint64, trial int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(trial)))
}
