// Package balance derives every party's aggregate position from a debt matrix.
//
// For node i:
//
//	OwedBy[i] = Σ_j M[i][j]   (row sum: what i owes)
//	OwedTo[i] = Σ_j M[j][i]   (column sum: what i is owed)
//	Net[i]    = OwedTo[i] − OwedBy[i]
//
// Every unit of debt is one party's liability and another's asset, so
// Σ Net[i] == 0 for any valid matrix.
//
// Summary picks the four extremal parties. Ties always go to the smallest
// index, in all four rankings.
//
// Complexity: Compute O(n²) over a single snapshot; Summarize O(n).
package balance

import (
	"errors"

	"github.com/pedronavarrovera/amo/debtmatrix"
)

// ErrEmpty is returned by Summarize for a network without nodes.
var ErrEmpty = errors.New("balance: empty network")

// Balances holds the per-node aggregates, indexed by node.
type Balances struct {
	OwedBy []int64 `json:"owed_by"`
	OwedTo []int64 `json:"owed_to"`
	Net    []int64 `json:"net_balance"`
}

// Compute reads m once and returns its balances. A nil matrix has none.
func Compute(m *debtmatrix.Matrix) Balances {
	if m == nil {
		return Balances{}
	}
	rows := m.Rows()
	n := len(rows)
	b := Balances{
		OwedBy: make([]int64, n),
		OwedTo: make([]int64, n),
		Net:    make([]int64, n),
	}

	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			b.OwedBy[i] += rows[i][j]
			b.OwedTo[j] += rows[i][j]
		}
	}
	for i = 0; i < n; i++ {
		b.Net[i] = b.OwedTo[i] - b.OwedBy[i]
	}

	return b
}

// Len returns the node count.
func (b Balances) Len() int {
	return len(b.Net)
}

// Total returns Σ Net. It is zero for balances produced by Compute.
func (b Balances) Total() int64 {
	var sum int64
	for _, v := range b.Net {
		sum += v
	}

	return sum
}

// Extreme is one ranked party.
type Extreme struct {
	Index int   `json:"index"`
	Value int64 `json:"value"`
}

// Summary is the read-only insight set.
type Summary struct {
	MostOwedTo  Extreme `json:"most_owed_to"` // max OwedTo
	OwesMost    Extreme `json:"owes_most"`    // max OwedBy
	TopCreditor Extreme `json:"top_creditor"` // max Net
	TopDebtor   Extreme `json:"top_debtor"`   // min Net
}

// Summarize ranks b.
func Summarize(b Balances) (Summary, error) {
	if b.Len() == 0 {
		return Summary{}, ErrEmpty
	}

	return Summary{
		MostOwedTo:  argBest(b.OwedTo, greater),
		OwesMost:    argBest(b.OwedBy, greater),
		TopCreditor: argBest(b.Net, greater),
		TopDebtor:   argBest(b.Net, less),
	}, nil
}

func greater(a, b int64) bool { return a > b }
func less(a, b int64) bool    { return a < b }

// argBest scans in index order and only moves on a strict improvement,
// so the first of several equal values is kept.
func argBest(vals []int64, better func(a, b int64) bool) Extreme {
	best := Extreme{Index: 0, Value: vals[0]}
	for i := 1; i < len(vals); i++ {
		if better(vals[i], best.Value) {
			best = Extreme{Index: i, Value: vals[i]}
		}
	}

	return best
}
