// SPDX-License-Identifier: MIT

// Package debtmatrix is the canonical in-memory model of a debt network.
//
// A debt network is a weighted directed graph over n parties identified by the
// dense indices 0..n-1. The entry [i][j] of the square Matrix is the amount
// party i owes party j. Entries are non-negative integers and a zero entry
// means "no obligation": only entries > 0 are traversable edges.
//
// Components:
//
//	Matrix  - n×n row-major int64 storage with validation, row/column sums,
//	          the positive-edge set, cloning and an exclusive-writer lock.
//	Names   - index → display name table (names need not be unique),
//	          normalized from either ByPosition or ByIndex input.
//	Network - a Matrix paired with the Names of the same size.
//	Pad     - zero-padding of short inputs to a declared size (never truncates).
//
// Errors (sentinel):
//
//	ErrValidation    - umbrella for every malformed-input condition below.
//	ErrNonSquare     - a row length differs from the row count.
//	ErrNegativeEntry - an entry is < 0.
//	ErrNonInteger    - an entry is not integer-valued.
//	ErrTruncation    - padding would need to drop data.
//	ErrNodeNotFound  - an index or name outside the current node set.
//
// Concurrency:
//
//	Reads (At, RowSum, ColSum, Edges, Rows, Clone) take a shared lock and
//	writes (Set, Update) take the exclusive lock, so no reader can observe
//	a Matrix in the middle of a multi-cell Update. Algorithms in sibling
//	packages work on a Rows() snapshot taken under a single read lock.
//
// Complexity quicksheet:
//
//	New: O(n²); At/Set: O(1); RowSum/ColSum: O(n); Edges/Rows/Clone: O(n²).
package debtmatrix
