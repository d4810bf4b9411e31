// SPDX-License-Identifier: MIT

package debtmatrix

import "fmt"

// PadInfo reports how much zero padding was synthesized for an input.
type PadInfo struct {
	AddedRows    int `json:"added_rows"`
	AddedColsMax int `json:"added_cols_max"`
}

// Pad fits a possibly ragged rows slice to an n×n Matrix.
//
// Short rows are extended with zeros, missing trailing rows are appended as
// zero rows. More than n rows, or any row longer than n, fails with
// ErrTruncation: data is never dropped. Negative entries and overflowing
// sums fail as in New.
func Pad(rows [][]int64, n int) (*Matrix, PadInfo, error) {
	var info PadInfo
	if n < 0 {
		return nil, info, fmt.Errorf("declared size %d: %w", n, ErrValidation)
	}
	if len(rows) > n {
		return nil, info, fmt.Errorf("%d rows > %d nodes: %w", len(rows), n, ErrTruncation)
	}

	m, err := Zero(n)
	if err != nil {
		return nil, info, err
	}

	var i, j int
	for i = 0; i < len(rows); i++ {
		if len(rows[i]) > n {
			return nil, info, fmt.Errorf("row %d width %d > %d nodes: %w", i, len(rows[i]), n, ErrTruncation)
		}
		if add := n - len(rows[i]); add > info.AddedColsMax {
			info.AddedColsMax = add
		}
		for j = 0; j < len(rows[i]); j++ {
			if rows[i][j] < 0 {
				return nil, PadInfo{}, cellErrorf("Pad", i, j, ErrNegativeEntry)
			}
			m.data[i*n+j] = rows[i][j]
		}
	}
	if err := checkSums(m.data, n); err != nil {
		return nil, PadInfo{}, err
	}
	info.AddedRows = n - len(rows)

	return m, info, nil
}
