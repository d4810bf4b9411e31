// Package dijkstra defines the result types, sentinel errors and functional
// options for shortest-path queries over a debt matrix.
//
// Options:
//
//	– MaxDistance:      optional cap on distances to explore; nodes beyond it stay unreached.
//	– InfEdgeThreshold: edges with weight >= this threshold are treated as impassable.
//	– StopAt:           finish as soon as the given node is finalized (single-target mode).
//
// Errors (sentinel):
//
//	– ErrNilMatrix       if the provided matrix pointer is nil.
//	– ErrUnreachable     if the requested target has no directed path from the source.
//	– ErrBadMaxDistance  if MaxDistance < 0.
//	– ErrBadInfThreshold if InfEdgeThreshold <= 0.
//
// Out-of-range source or target indices are reported with debtmatrix.ErrNodeNotFound.
package dijkstra

import (
	"errors"
	"math"
)

// Sentinel errors returned by the shortest-path finder.
var (
	// ErrNilMatrix indicates that a nil *debtmatrix.Matrix was passed in.
	ErrNilMatrix = errors.New("dijkstra: matrix is nil")

	// ErrUnreachable indicates that no directed path of positive edges
	// leads from the source to the requested target.
	ErrUnreachable = errors.New("dijkstra: target unreachable")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates that InfEdgeThreshold was set to zero or negative,
	// which would make every edge impassable.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")
)

// Infinity marks a node that has not been reached.
const Infinity = int64(math.MaxInt64)

// noParent marks the source and every unreached node in Tree.Parent.
const noParent = -1

// Options configures a run.
//
// MaxDistance      – must be ≥ 0. Default math.MaxInt64 (no cap).
// InfEdgeThreshold – must be > 0. Default math.MaxInt64 (no walls).
// StopAt           – node index to stop at, or -1 to settle every reachable node.
type Options struct {
	MaxDistance      int64
	InfEdgeThreshold int64
	StopAt           int
}

// Option represents a functional option for configuring a run.
type Option func(*Options)

// WithMaxDistance sets a maximum distance threshold.
// Nodes whose shortest distance would exceed this value are not explored.
// Negative values panic with ErrBadMaxDistance (programmer error).
func WithMaxDistance(max int64) Option {
	return func(o *Options) {
		if max < 0 {
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold treats edges with weight ≥ threshold as absent.
// Zero or negative values panic with ErrBadInfThreshold.
func WithInfEdgeThreshold(threshold int64) Option {
	return func(o *Options) {
		if threshold <= 0 {
			panic(ErrBadInfThreshold.Error())
		}
		o.InfEdgeThreshold = threshold
	}
}

// WithStopAt ends the run once target is finalized. The distances of nodes
// settled earlier are exact; the rest of the tree is left partial.
func WithStopAt(target int) Option {
	return func(o *Options) {
		o.StopAt = target
	}
}

// DefaultOptions returns the settings used when no Option is passed.
func DefaultOptions() Options {
	return Options{
		MaxDistance:      math.MaxInt64,
		InfEdgeThreshold: math.MaxInt64,
		StopAt:           noParent,
	}
}

// Result is one source → target answer.
// Path runs from the source to Target inclusive; it is nil when unreachable.
type Result struct {
	Target    int   `json:"target"`
	Distance  int64 `json:"distance"`
	Path      []int `json:"path,omitempty"`
	Reachable bool  `json:"reachable"`
}

// Tree is the shortest-path tree produced by one relaxation pass.
//
// Dist[v] is the distance from Source (Infinity when unreached) and
// Parent[v] the predecessor of v on the reported path (-1 for the source
// and unreached nodes).
type Tree struct {
	Source int
	Dist   []int64
	Parent []int
}
