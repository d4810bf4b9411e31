package cycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/pedronavarrovera/amo/debtmatrix"
)

// Sentinel errors.
var (
	// ErrNilMatrix is returned when a nil *debtmatrix.Matrix is passed in.
	ErrNilMatrix = errors.New("cycle: matrix is nil")

	// ErrNoDirectEdge: the two-hop query needs matrix[A][B] > 0.
	ErrNoDirectEdge = errors.New("cycle: no direct edge")

	// ErrNoPath: nothing leads from B back to A.
	ErrNoPath = errors.New("cycle: no path back")

	// ErrInvalidCycle: fewer than two nodes, a repeated node, or a missing edge.
	ErrInvalidCycle = errors.New("cycle: invalid cycle")

	// ErrCycleLimit is returned together with the cycles collected so far
	// when enumeration stops at MaxCycles.
	ErrCycleLimit = errors.New("cycle: cycle limit reached")

	// ErrBadLimit is the panic value of WithMaxCycles and WithMaxLength for negative limits.
	ErrBadLimit = errors.New("cycle: limit must be non-negative")
)

// Cycle is a simple directed cycle in canonical form: at least two distinct
// node indices, the closing edge from the last node back to the first is
// implied and the first node is not repeated.
type Cycle []int

// Len returns the number of nodes (and edges) in the ring.
func (c Cycle) Len() int { return len(c) }

// Closed returns the node sequence with the first node appended, the form
// used for display ("David → Pedro → ... → David").
func (c Cycle) Closed() []int {
	if len(c) == 0 {
		return nil
	}
	out := make([]int, 0, len(c)+1)
	out = append(out, c...)

	return append(out, c[0])
}

// Names maps every node of c through names.
func (c Cycle) Names(names *debtmatrix.Names) []string {
	out := make([]string, len(c))
	for i, v := range c {
		out[i] = names.NameOr(v)
	}

	return out
}

// Edges returns the ring's (from, to) pairs in order, closing edge last.
func (c Cycle) Edges() [][2]int {
	k := len(c)
	out := make([][2]int, k)
	for i := 0; i < k; i++ {
		out[i] = [2]int{c[i], c[(i+1)%k]}
	}

	return out
}

// Weighted is a cycle together with its bottleneck amount.
type Weighted struct {
	Cycle      Cycle `json:"cycle"`
	Bottleneck int64 `json:"bottleneck"`
}

// Options configures Enumerate.
//
//	MaxCycles – stop after this many cycles (0 = unlimited).
//	MaxLength – only report cycles with at most this many nodes (0 = unlimited).
//	Ctx       – checked between start nodes and on every extension step.
type Options struct {
	MaxCycles int
	MaxLength int
	Ctx       context.Context
}

// Option is a functional option for Enumerate.
type Option func(*Options)

// DefaultOptions returns unlimited enumeration under context.Background().
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithMaxCycles caps the number of cycles returned. Negative n panics.
func WithMaxCycles(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(fmt.Sprintf("%v: WithMaxCycles(%d)", ErrBadLimit, n))
		}
		o.MaxCycles = n
	}
}

// WithMaxLength limits the number of nodes per cycle. Negative n panics.
func WithMaxLength(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(fmt.Sprintf("%v: WithMaxLength(%d)", ErrBadLimit, n))
		}
		o.MaxLength = n
	}
}

// WithContext makes enumeration cancellable. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}
