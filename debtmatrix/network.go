// SPDX-License-Identifier: MIT

package debtmatrix

import (
	"fmt"
	"math"
)

// Network pairs a Matrix with its Names. Both always have the same size.
type Network struct {
	Matrix *Matrix
	Names  *Names
}

// NewNetwork checks that m and names agree on n. A nil names table is
// replaced by DefaultNames.
func NewNetwork(m *Matrix, names *Names) (*Network, error) {
	if m == nil {
		return nil, fmt.Errorf("nil matrix: %w", ErrValidation)
	}
	if names == nil {
		names = DefaultNames(m.Size())
	}
	if names.Len() != m.Size() {
		return nil, fmt.Errorf("%d names for %d nodes: %w", names.Len(), m.Size(), ErrSizeMismatch)
	}

	return &Network{Matrix: m, Names: names}, nil
}

// Size returns the node count.
func (nw *Network) Size() int {
	return nw.Matrix.Size()
}

// Resolve maps a name to its index.
func (nw *Network) Resolve(name string) (int, error) {
	return nw.Names.Index(name)
}

// Clone deep-copies matrix and names.
func (nw *Network) Clone() *Network {
	return &Network{Matrix: nw.Matrix.Clone(), Names: NamesFromList(nw.Names.List())}
}

// Amount converts a decoded numeric value into a matrix amount.
// Integral floats (10.0) are accepted; fractions, NaN and ±Inf are not.
func Amount(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("value %v: %w", v, ErrNonInteger)
	}
	if v < 0 {
		return 0, fmt.Errorf("value %v: %w", v, ErrNegativeEntry)
	}
	// float64(MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if v >= 1<<63 {
		return 0, fmt.Errorf("value %v: %w", v, ErrOverflow)
	}

	return int64(v), nil
}

// FromFloat builds a Matrix from decoded numeric rows, converting each cell
// with Amount. Shape is checked before values.
func FromFloat(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	out := make([][]int64, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, ErrNonSquare)
		}
	}
	for i, row := range rows {
		out[i] = make([]int64, n)
		for j, v := range row {
			a, err := Amount(v)
			if err != nil {
				return nil, cellErrorf("FromFloat", i, j, err)
			}
			out[i][j] = a
		}
	}

	return New(out)
}
