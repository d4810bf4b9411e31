// SPDX-License-Identifier: MIT

package debtmatrix

import (
	"errors"
	"fmt"
	"math"
)

// Every message is prefixed with "debtmatrix:". The fine-grained validation
// sentinels wrap ErrValidation, so errors.Is(err, ErrValidation) holds for all
// of them and callers that only care about "bad input" need a single check.
var (
	// ErrValidation is the umbrella sentinel for malformed matrix input.
	ErrValidation = errors.New("debtmatrix: validation failed")

	// ErrNonSquare indicates that a row length differs from the row count.
	ErrNonSquare = fmt.Errorf("%w: matrix is not square", ErrValidation)

	// ErrNegativeEntry indicates an entry below zero.
	ErrNegativeEntry = fmt.Errorf("%w: negative entry", ErrValidation)

	// ErrNonInteger indicates an entry that is not integer-valued.
	ErrNonInteger = fmt.Errorf("%w: entry is not an integer", ErrValidation)

	// ErrTruncation indicates that fitting the input to the declared size
	// would require dropping rows or columns.
	ErrTruncation = fmt.Errorf("%w: input larger than declared size", ErrValidation)

	// ErrOverflow indicates an amount, row sum or column sum beyond MaxInt64.
	ErrOverflow = fmt.Errorf("%w: amount overflows int64", ErrValidation)

	// ErrSizeMismatch indicates that a name table and a matrix disagree on n.
	ErrSizeMismatch = fmt.Errorf("%w: names and matrix sizes differ", ErrValidation)

	// ErrNodeNotFound indicates an index or a name outside the node set.
	ErrNodeNotFound = errors.New("debtmatrix: node not found")
)

// checkSums fails with ErrOverflow when any row or column of the n×n
// row-major data sums past MaxInt64. Entries are already non-negative.
func checkSums(data []int64, n int) error {
	cols := make([]int64, n)
	var i, j int
	for i = 0; i < n; i++ {
		var row int64
		for j = 0; j < n; j++ {
			v := data[i*n+j]
			if v > math.MaxInt64-row {
				return fmt.Errorf("row %d: %w", i, ErrOverflow)
			}
			if v > math.MaxInt64-cols[j] {
				return fmt.Errorf("column %d: %w", j, ErrOverflow)
			}
			row += v
			cols[j] += v
		}
	}

	return nil
}

// cellErrorf attaches coordinates to a sentinel.
func cellErrorf(op string, row, col int, err error) error {
	return fmt.Errorf("Matrix.%s(%d,%d): %w", op, row, col, err)
}
