package cycle

import (
	"fmt"

	"github.com/pedronavarrovera/amo/debtmatrix"
)

// Enumerate lists every simple directed cycle of positive edges in m using
// Johnson's algorithm.
//
// Output order is deterministic: start nodes ascend, and within one start
// node cycles appear in depth-first order with neighbors visited in
// ascending index order. Every cycle begins at its smallest node index.
// Diagonal entries are ignored; a Cycle always has at least two nodes.
//
// When MaxCycles is reached the cycles found so far are returned together
// with ErrCycleLimit. A cancelled context returns the partial result and
// ctx.Err().
//
// Complexity: O((V+E)·(C+1)) time for C cycles, O(V+E) extra memory.
func Enumerate(m *debtmatrix.Matrix, opts ...Option) ([]Cycle, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if m == nil {
		return nil, ErrNilMatrix
	}

	e := newEnumerator(m.Rows(), cfg)
	for s := 0; s < e.n; s++ {
		if err := cfg.Ctx.Err(); err != nil {
			return e.cycles, fmt.Errorf("cycle: enumerate: %w", err)
		}

		// 1) Restrict to the strongly connected component containing s
		//    inside the subgraph of nodes ≥ s.
		comp := e.componentOf(s)
		if len(comp) < 2 {
			continue
		}

		// 2) Reset blocking state for the component only.
		for _, v := range comp {
			e.blocked[v] = false
			e.blockMap[v] = e.blockMap[v][:0]
		}

		// 3) Search circuits through s.
		e.circuit(s, s)
		if e.stop != nil {
			return e.cycles, e.stop
		}
	}

	return e.cycles, nil
}

// enumerator holds the state of one Enumerate call.
type enumerator struct {
	n        int
	adj      [][]int // positive out-neighbors, ascending, no self-loops
	radj     [][]int // in-neighbors
	cfg      Options
	inComp   []bool
	blocked  []bool
	blockMap [][]int
	stack    []int
	cycles   []Cycle
	stop     error
}

func newEnumerator(rows [][]int64, cfg Options) *enumerator {
	n := len(rows)
	e := &enumerator{
		n:        n,
		adj:      make([][]int, n),
		radj:     make([][]int, n),
		cfg:      cfg,
		inComp:   make([]bool, n),
		blocked:  make([]bool, n),
		blockMap: make([][]int, n),
		stack:    make([]int, 0, n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && rows[i][j] > 0 {
				e.adj[i] = append(e.adj[i], j)
				e.radj[j] = append(e.radj[j], i)
			}
		}
	}

	return e
}

// circuit is Johnson's CIRCUIT(v). It reports whether a cycle through s was
// found below v (or a length cut-off hid one), in which case v is unblocked.
func (e *enumerator) circuit(v, s int) bool {
	if e.stop != nil {
		return true
	}
	if err := e.cfg.Ctx.Err(); err != nil {
		e.stop = fmt.Errorf("cycle: enumerate: %w", err)
		return true
	}

	found := false
	e.stack = append(e.stack, v)
	e.blocked[v] = true

	for _, w := range e.adj[v] {
		if !e.inComp[w] {
			continue
		}
		switch {
		case w == s:
			e.record()
			found = true
			if e.stop != nil {
				e.stack = e.stack[:len(e.stack)-1]
				return true
			}
		case e.blocked[w]:
			// w is on the stack or cannot reach s yet.
		case e.cfg.MaxLength > 0 && len(e.stack) >= e.cfg.MaxLength:
			// Cut off by length: report found so v does not stay blocked
			// on a path that was never fully explored.
			found = true
		default:
			if e.circuit(w, s) {
				found = true
			}
		}
	}

	if found {
		e.unblock(v)
	} else {
		for _, w := range e.adj[v] {
			if e.inComp[w] && !contains(e.blockMap[w], v) {
				e.blockMap[w] = append(e.blockMap[w], v)
			}
		}
	}
	e.stack = e.stack[:len(e.stack)-1]

	return found
}

// record copies the current stack as a new cycle.
func (e *enumerator) record() {
	if len(e.stack) < 2 {
		return
	}
	c := make(Cycle, len(e.stack))
	copy(c, e.stack)
	e.cycles = append(e.cycles, c)
	if e.cfg.MaxCycles > 0 && len(e.cycles) >= e.cfg.MaxCycles {
		e.stop = fmt.Errorf("%w: %d", ErrCycleLimit, e.cfg.MaxCycles)
	}
}

// unblock clears v and, transitively, every node waiting on v.
func (e *enumerator) unblock(v int) {
	queue := []int{v}
	for len(queue) > 0 {
		u := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if !e.blocked[u] {
			continue
		}
		e.blocked[u] = false
		queue = append(queue, e.blockMap[u]...)
		e.blockMap[u] = e.blockMap[u][:0]
	}
}

// componentOf marks and returns the strongly connected component of s in the
// subgraph induced by nodes ≥ s: nodes reachable from s that also reach s.
func (e *enumerator) componentOf(s int) []int {
	for i := range e.inComp {
		e.inComp[i] = false
	}

	fwd := e.reach(s, e.adj)
	rev := e.reach(s, e.radj)

	var comp []int
	for v := s; v < e.n; v++ {
		if fwd[v] && rev[v] {
			e.inComp[v] = true
			comp = append(comp, v)
		}
	}

	return comp
}

// reach is an iterative DFS from s over nodes ≥ s.
func (e *enumerator) reach(s int, next [][]int) []bool {
	seen := make([]bool, e.n)
	seen[s] = true
	stack := []int{s}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range next[u] {
			if w >= s && !seen[w] {
				seen[w] = true
				stack = append(stack, w)
			}
		}
	}

	return seen
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}

	return false
}
