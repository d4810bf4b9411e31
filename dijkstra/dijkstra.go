// Package dijkstra implements Dijkstra's shortest-path algorithm on a debt matrix.
//
// Edges are the positive cells M[u][v] > 0; their weight is the amount. Zero
// cells are "no edge", never zero-cost edges.
//
// The next node to finalize is chosen by a linear scan over unvisited nodes,
// keeping the lowest index among equal distances. Relaxation only accepts a
// strictly shorter distance, so the first shortest path found is the one
// reported. Together these make the reported path reproducible when several
// paths share the minimum length.
//
// Complexity:
//
//   - Time:  O(V²) (V scans of V candidates, V² cell reads for relaxation)
//   - Space: O(V) for distances, parents and visited flags, plus one O(V²) snapshot.
package dijkstra

import (
	"fmt"

	"github.com/pedronavarrovera/amo/debtmatrix"
)

// From computes the shortest-path tree rooted at source. One pass serves
// every target: use Tree.PathTo or Tree.Results on the returned tree.
//
// Preconditions and validation (in order):
//  1. m must be non-nil (ErrNilMatrix).
//  2. source must be a node of m (debtmatrix.ErrNodeNotFound).
//  3. StopAt, when set, must be a node of m (debtmatrix.ErrNodeNotFound).
func From(m *debtmatrix.Matrix, source int, opts ...Option) (*Tree, error) {
	// 1) Build Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs.
	if m == nil {
		return nil, ErrNilMatrix
	}
	if err := m.CheckIndex(source); err != nil {
		return nil, fmt.Errorf("dijkstra: source: %w", err)
	}
	if cfg.StopAt != noParent {
		if err := m.CheckIndex(cfg.StopAt); err != nil {
			return nil, fmt.Errorf("dijkstra: target: %w", err)
		}
	}

	// 3) Run on a single consistent snapshot.
	r := newRunner(m.Rows(), source, cfg)
	r.process()

	return &Tree{Source: source, Dist: r.dist, Parent: r.parent}, nil
}

// To answers a single source → target query and stops once target is final.
// It returns ErrUnreachable when no directed path exists.
func To(m *debtmatrix.Matrix, source, target int, opts ...Option) (Result, error) {
	opts = append(opts, WithStopAt(target))
	tree, err := From(m, source, opts...)
	if err != nil {
		return Result{}, err
	}

	return tree.PathTo(target)
}

// runner holds the mutable state for a single execution.
type runner struct {
	rows    [][]int64 // read-only snapshot
	options Options
	dist    []int64
	parent  []int
	visited []bool
}

// newRunner sets dist[v] = ∞ and parent[v] = -1 for every v, then dist[source] = 0.
func newRunner(rows [][]int64, source int, cfg Options) *runner {
	n := len(rows)
	r := &runner{
		rows:    rows,
		options: cfg,
		dist:    make([]int64, n),
		parent:  make([]int, n),
		visited: make([]bool, n),
	}
	for v := 0; v < n; v++ {
		r.dist[v] = Infinity
		r.parent[v] = noParent
	}
	r.dist[source] = 0

	return r
}

// process finalizes one node per iteration until no reachable candidate is
// left, the next candidate is beyond MaxDistance, or StopAt is finalized.
func (r *runner) process() {
	for {
		// 1) Pick the unvisited node with the smallest finite distance.
		u := r.nearest()
		if u == noParent {
			return
		}

		// 2) Beyond the cap: leave u and everything after it unreached.
		if r.dist[u] > r.options.MaxDistance {
			r.dropBeyondCap()
			return
		}

		// 3) u is final; a finalized node is never revisited.
		r.visited[u] = true
		if u == r.options.StopAt {
			return
		}

		// 4) Relax u's outgoing edges.
		r.relax(u)
	}
}

// nearest is the deterministic linear scan: strict < keeps the lowest index on ties.
func (r *runner) nearest() int {
	best := noParent
	bestDist := Infinity
	for v := range r.dist {
		if !r.visited[v] && r.dist[v] < bestDist {
			best = v
			bestDist = r.dist[v]
		}
	}

	return best
}

// relax tries to improve every neighbor of u through the edge u→v.
func (r *runner) relax(u int) {
	du := r.dist[u]
	for v, w := range r.rows[u] {
		// Zero means no edge; walls are skipped as impassable.
		if w <= 0 || w >= r.options.InfEdgeThreshold || r.visited[v] {
			continue
		}
		// Saturating add: a sum past MaxInt64 cannot beat any finite distance.
		if w > Infinity-du {
			continue
		}
		nd := du + w
		if nd > r.options.MaxDistance {
			continue
		}
		if nd < r.dist[v] {
			r.dist[v] = nd
			r.parent[v] = u
		}
	}
}

// dropBeyondCap clears tentative distances of nodes that were never finalized.
func (r *runner) dropBeyondCap() {
	for v := range r.dist {
		if !r.visited[v] {
			r.dist[v] = Infinity
			r.parent[v] = noParent
		}
	}
}

// Reachable reports whether v was reached from the source.
func (t *Tree) Reachable(v int) bool {
	return v >= 0 && v < len(t.Dist) && t.Dist[v] != Infinity
}

// PathTo rebuilds the path to target by walking parent links and reversing.
func (t *Tree) PathTo(target int) (Result, error) {
	if target < 0 || target >= len(t.Dist) {
		return Result{}, fmt.Errorf("dijkstra: target %d: %w", target, debtmatrix.ErrNodeNotFound)
	}
	if !t.Reachable(target) {
		return Result{Target: target, Distance: Infinity}, fmt.Errorf("%w: %d → %d", ErrUnreachable, t.Source, target)
	}

	path := make([]int, 0, 8)
	for v := target; v != noParent; v = t.Parent[v] {
		path = append(path, v)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return Result{Target: target, Distance: t.Dist[target], Path: path, Reachable: true}, nil
}

// Results returns one Result for every node other than the source, in index
// order. Unreached nodes carry Reachable=false and Distance=Infinity.
func (t *Tree) Results() []Result {
	out := make([]Result, 0, len(t.Dist))
	for v := range t.Dist {
		if v == t.Source {
			continue
		}
		res, err := t.PathTo(v)
		if err != nil {
			res = Result{Target: v, Distance: Infinity}
		}
		out = append(out, res)
	}

	return out
}
