// SPDX-License-Identifier: MIT

package debtmatrix

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Edge is one positive obligation: From owes To the amount Weight.
type Edge struct {
	From   int
	To     int
	Weight int64
}

// Matrix is a square row-major matrix of non-negative int64 amounts.
//   - n is the node count; data holds n*n cells (offset = i*n + j).
//   - mu guards data. Exported accessors lock; Update hands out a Tx that
//     runs entirely under the write lock.
type Matrix struct {
	mu   sync.RWMutex
	n    int
	data []int64
}

var _ fmt.Stringer = (*Matrix)(nil)

// New validates rows and copies them into a new Matrix.
//
// Validation order (first failure wins):
//  1. every row has exactly len(rows) entries (ErrNonSquare);
//  2. every entry is ≥ 0 (ErrNegativeEntry);
//  3. no row or column sums past MaxInt64 (ErrOverflow).
//
// An empty input yields a valid 0×0 Matrix.
// Complexity: O(n²).
func New(rows [][]int64) (*Matrix, error) {
	n := len(rows)
	var i, j int
	for i = 0; i < n; i++ {
		if len(rows[i]) != n {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(rows[i]), n, ErrNonSquare)
		}
	}

	data := make([]int64, n*n)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if rows[i][j] < 0 {
				return nil, cellErrorf("New", i, j, ErrNegativeEntry)
			}
			data[i*n+j] = rows[i][j]
		}
	}
	if err := checkSums(data, n); err != nil {
		return nil, err
	}

	return &Matrix{n: n, data: data}, nil
}

// Zero returns an n×n Matrix with every entry set to 0.
func Zero(n int) (*Matrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("size %d: %w", n, ErrNonSquare)
	}

	return &Matrix{n: n, data: make([]int64, n*n)}, nil
}

// MustNew is New for literals in tests and examples. It panics on invalid input.
func MustNew(rows [][]int64) *Matrix {
	m, err := New(rows)
	if err != nil {
		panic(err)
	}

	return m
}

// Size returns the node count n.
func (m *Matrix) Size() int {
	return m.n
}

// inRange reports whether i is a valid node index.
func (m *Matrix) inRange(i int) bool {
	return i >= 0 && i < m.n
}

// CheckIndex returns ErrNodeNotFound when i is outside 0..n-1.
func (m *Matrix) CheckIndex(i int) error {
	if !m.inRange(i) {
		return fmt.Errorf("index %d (size %d): %w", i, m.n, ErrNodeNotFound)
	}

	return nil
}

// At returns the amount i owes j.
func (m *Matrix) At(i, j int) (int64, error) {
	if !m.inRange(i) || !m.inRange(j) {
		return 0, cellErrorf("At", i, j, ErrNodeNotFound)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.data[i*m.n+j], nil
}

// Set assigns the amount i owes j. Negative amounts, and amounts that push
// row i or column j past MaxInt64, are rejected.
func (m *Matrix) Set(i, j int, v int64) error {
	return m.Update(func(tx *Tx) error {
		return tx.Set(i, j, v)
	})
}

// RowSum returns the total owed BY node i.
func (m *Matrix) RowSum(i int) (int64, error) {
	if err := m.CheckIndex(i); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum int64
	base := i * m.n
	for j := 0; j < m.n; j++ {
		sum += m.data[base+j]
	}

	return sum, nil
}

// ColSum returns the total owed TO node i.
func (m *Matrix) ColSum(i int) (int64, error) {
	if err := m.CheckIndex(i); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum int64
	for r := 0; r < m.n; r++ {
		sum += m.data[r*m.n+i]
	}

	return sum, nil
}

// Edges returns every (i, j, w) with w > 0 in row-major order.
func (m *Matrix) Edges() []Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := make([]Edge, 0, m.n)
	var i, j int
	for i = 0; i < m.n; i++ {
		for j = 0; j < m.n; j++ {
			if w := m.data[i*m.n+j]; w > 0 {
				edges = append(edges, Edge{From: i, To: j, Weight: w})
			}
		}
	}

	return edges
}

// Rows returns a consistent deep copy of the matrix as a slice of rows.
// Read-only algorithms take one snapshot and index it freely.
func (m *Matrix) Rows() [][]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]int64, m.n)
	for i := 0; i < m.n; i++ {
		row := make([]int64, m.n)
		copy(row, m.data[i*m.n:(i+1)*m.n])
		out[i] = row
	}

	return out
}

// Clone returns an independent deep copy.
func (m *Matrix) Clone() *Matrix {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := make([]int64, len(m.data))
	copy(data, m.data)

	return &Matrix{n: m.n, data: data}
}

// Equal reports whether o has the same size and entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil || m.n != o.n {
		return false
	}
	a, b := m.Rows(), o.Rows()
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}

	return true
}

// IsSymmetric is a diagnostic: debts are directed, so asymmetry is normal.
func (m *Matrix) IsSymmetric() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var i, j int
	for i = 0; i < m.n; i++ {
		for j = i + 1; j < m.n; j++ {
			if m.data[i*m.n+j] != m.data[j*m.n+i] {
				return false
			}
		}
	}

	return true
}

// Update runs fn while holding the exclusive lock. A Tx must not escape fn.
// Whatever fn wrote before returning an error stays written, so callers that
// need all-or-nothing semantics validate before their first Set.
func (m *Matrix) Update(fn func(tx *Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(&Tx{m: m})
}

// String renders one bracketed row per line.
func (m *Matrix) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	for i := 0; i < m.n; i++ {
		sb.WriteString("[")
		for j := 0; j < m.n; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", m.data[i*m.n+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

// Tx is unlocked access to a Matrix whose write lock is already held.
type Tx struct {
	m *Matrix
}

// Size returns the node count.
func (tx *Tx) Size() int { return tx.m.n }

// At returns the amount i owes j.
func (tx *Tx) At(i, j int) (int64, error) {
	if !tx.m.inRange(i) || !tx.m.inRange(j) {
		return 0, cellErrorf("At", i, j, ErrNodeNotFound)
	}

	return tx.m.data[i*tx.m.n+j], nil
}

// Set assigns the amount i owes j, with the same checks as Matrix.Set.
func (tx *Tx) Set(i, j int, v int64) error {
	if !tx.m.inRange(i) || !tx.m.inRange(j) {
		return cellErrorf("Set", i, j, ErrNodeNotFound)
	}
	if v < 0 {
		return cellErrorf("Set", i, j, ErrNegativeEntry)
	}

	// Row and column totals without the old value must leave room for v.
	n, data := tx.m.n, tx.m.data
	old := data[i*n+j]
	var row, col int64
	for k := 0; k < n; k++ {
		row += data[i*n+k]
		col += data[k*n+j]
	}
	if v > math.MaxInt64-(row-old) || v > math.MaxInt64-(col-old) {
		return cellErrorf("Set", i, j, ErrOverflow)
	}
	data[i*n+j] = v

	return nil
}
