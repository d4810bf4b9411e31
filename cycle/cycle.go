package cycle

import (
	"errors"
	"fmt"

	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/dijkstra"
)

// Check validates the shape of c against a network of n nodes:
// at least two nodes (ErrInvalidCycle), all in range (debtmatrix.ErrNodeNotFound)
// and pairwise distinct (ErrInvalidCycle). Edges are not inspected.
func Check(c Cycle, n int) error {
	if len(c) < 2 {
		return fmt.Errorf("%w: %d node(s), need at least 2", ErrInvalidCycle, len(c))
	}
	seen := make(map[int]struct{}, len(c))
	for _, v := range c {
		if v < 0 || v >= n {
			return fmt.Errorf("cycle: node %d: %w", v, debtmatrix.ErrNodeNotFound)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%w: node %d repeated", ErrInvalidCycle, v)
		}
		seen[v] = struct{}{}
	}

	return nil
}

// BottleneckOf returns the wraparound minimum of c over the given rows.
// rows must already be validated against c with Check.
// A ring edge of weight 0 is not an edge and yields ErrInvalidCycle.
func BottleneckOf(rows [][]int64, c Cycle) (int64, error) {
	k := len(c)
	least := int64(-1)
	for i := 0; i < k; i++ {
		u, v := c[i], c[(i+1)%k]
		w := rows[u][v]
		if w <= 0 {
			return 0, fmt.Errorf("%w: no edge %d → %d", ErrInvalidCycle, u, v)
		}
		if least < 0 || w < least {
			least = w
		}
	}

	return least, nil
}

// Bottleneck is the smallest edge weight around c, closing edge included:
// the largest amount that can be cancelled around the whole ring.
func Bottleneck(m *debtmatrix.Matrix, c Cycle) (int64, error) {
	if m == nil {
		return 0, ErrNilMatrix
	}
	if err := Check(c, m.Size()); err != nil {
		return 0, err
	}

	return BottleneckOf(m.Rows(), c)
}

// Annotate pairs every cycle with its bottleneck, reading one snapshot of m.
func Annotate(m *debtmatrix.Matrix, cycles []Cycle) ([]Weighted, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	rows := m.Rows()
	out := make([]Weighted, 0, len(cycles))
	for _, c := range cycles {
		if err := Check(c, len(rows)); err != nil {
			return nil, err
		}
		b, err := BottleneckOf(rows, c)
		if err != nil {
			return nil, err
		}
		out = append(out, Weighted{Cycle: c, Bottleneck: b})
	}

	return out, nil
}

// ShortestBack finds the cycle that starts with the direct edge a → b and
// returns to a along the shortest path from b.
//
// Steps:
//  1. a and b must be distinct nodes of m.
//  2. m[a][b] must be > 0 (ErrNoDirectEdge).
//  3. Shortest path b → a (ErrNoPath when unreachable).
//  4. Cycle = [a, b] ++ path[1:], canonicalized.
func ShortestBack(m *debtmatrix.Matrix, a, b int) (Cycle, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if err := m.CheckIndex(a); err != nil {
		return nil, fmt.Errorf("cycle: start: %w", err)
	}
	if err := m.CheckIndex(b); err != nil {
		return nil, fmt.Errorf("cycle: second: %w", err)
	}
	if a == b {
		return nil, fmt.Errorf("%w: start and second node are both %d", ErrInvalidCycle, a)
	}

	w, err := m.At(a, b)
	if err != nil {
		return nil, err
	}
	if w <= 0 {
		return nil, fmt.Errorf("%w: %d → %d", ErrNoDirectEdge, a, b)
	}

	back, err := dijkstra.To(m, b, a)
	if errors.Is(err, dijkstra.ErrUnreachable) {
		return nil, fmt.Errorf("%w: %d → %d", ErrNoPath, b, a)
	}
	if err != nil {
		return nil, err
	}

	seq := make([]int, 0, len(back.Path)+1)
	seq = append(seq, a, b)
	seq = append(seq, back.Path[1:]...)

	return Canonicalize(seq), nil
}

// ShortestBackByName resolves both names before anything else; an unknown
// name fails with debtmatrix.ErrNodeNotFound. Duplicate names resolve to the
// smallest index.
func ShortestBackByName(m *debtmatrix.Matrix, names *debtmatrix.Names, a, b string) (Cycle, error) {
	if names == nil {
		return nil, fmt.Errorf("cycle: nil names: %w", debtmatrix.ErrValidation)
	}
	ai, err := names.Index(a)
	if err != nil {
		return nil, err
	}
	bi, err := names.Index(b)
	if err != nil {
		return nil, err
	}

	return ShortestBack(m, ai, bi)
}

// Canonicalize drops a trailing repeat of the first node, if present.
// The input is not modified.
func Canonicalize(seq []int) Cycle {
	k := len(seq)
	if k > 1 && seq[k-1] == seq[0] {
		k--
	}
	out := make(Cycle, k)
	copy(out, seq[:k])

	return out
}

// Normalize rotates c so that its smallest node comes first, the order
// Enumerate reports.
func Normalize(c Cycle) Cycle {
	if len(c) == 0 {
		return Cycle{}
	}
	start := 0
	for i, v := range c {
		if v < c[start] {
			start = i
		}
	}
	out := make(Cycle, 0, len(c))
	out = append(out, c[start:]...)

	return append(out, c[:start]...)
}

// Equivalent reports whether a and b describe the same directed ring,
// regardless of which node each starts from.
func Equivalent(a, b Cycle) bool {
	a, b = Canonicalize(a), Canonicalize(b)
	if len(a) != len(b) {
		return false
	}
	na, nb := Normalize(a), Normalize(b)
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}

	return true
}

// Contains reports whether cycles holds a ring equivalent to c.
func Contains(cycles []Cycle, c Cycle) bool {
	for _, x := range cycles {
		if Equivalent(x, c) {
			return true
		}
	}

	return false
}
