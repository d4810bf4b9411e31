// SPDX-License-Identifier: MIT

package merge

import (
	"fmt"

	"github.com/pedronavarrovera/amo/debtmatrix"
)

// BridgeWeight is the amount on the single synthetic edge D[0][a].
const BridgeWeight int64 = 1

// ErrEmptyInput is returned when either side has no nodes: the bridge needs
// node 0 of both A and B.
var ErrEmptyInput = fmt.Errorf("%w: merge input has no nodes", debtmatrix.ErrValidation)

// Options configures MergeRaw and FromEncoded.
//
//	AllowAutoPad – zero-pad inputs smaller than their declared size (default true).
type Options struct {
	AllowAutoPad bool
}

// Option is a functional option for merging.
type Option func(*Options)

// DefaultOptions enables auto-padding.
func DefaultOptions() Options {
	return Options{AllowAutoPad: true}
}

// WithAutoPad turns padding of undersized inputs on or off. With padding off
// an input must be exactly n×n for its n declared names.
func WithAutoPad(on bool) Option {
	return func(o *Options) { o.AllowAutoPad = on }
}

// Input is one side of a merge before validation: raw, possibly ragged rows
// and the names that declare the node count.
type Input struct {
	Rows  [][]int64
	Names *debtmatrix.Names
}

// Sizes records the node counts of both inputs and the result.
type Sizes struct {
	A int `json:"A"`
	B int `json:"B"`
	D int `json:"D"`
}

// Padding records the padding synthesized for each input.
type Padding struct {
	A debtmatrix.PadInfo `json:"A"`
	B debtmatrix.PadInfo `json:"B"`
}

// Result is the merged network plus diagnostics.
type Result struct {
	Network *debtmatrix.Network
	Sizes   Sizes
	Padding Padding
}

// Merge composes two validated networks into one of size a+b:
//
//	D[0:a, 0:a] = A
//	D[a:, a:]   = B
//	D[0][a]     = 1 (bridge from A's node 0 to B's node 0)
//
// every other cell is 0. Names concatenate, B's shifted by a; duplicates are
// kept. Neither input is modified.
func Merge(a, b *debtmatrix.Network) (*Result, error) {
	if a == nil || b == nil || a.Matrix == nil || b.Matrix == nil {
		return nil, fmt.Errorf("merge: nil network: %w", debtmatrix.ErrValidation)
	}

	return compose(a.Matrix.Rows(), b.Matrix.Rows(), a.Names, b.Names, Padding{})
}

// MergeRaw validates (and, if allowed, pads) both inputs before composing
// them. The declared size of each input is its number of names.
func MergeRaw(a, b Input, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	ma, padA, err := fit(a, cfg, "A")
	if err != nil {
		return nil, err
	}
	mb, padB, err := fit(b, cfg, "B")
	if err != nil {
		return nil, err
	}

	return compose(ma.Rows(), mb.Rows(), a.Names, b.Names, Padding{A: padA, B: padB})
}

// fit turns one raw input into a square matrix of its declared size.
func fit(in Input, cfg Options, side string) (*debtmatrix.Matrix, debtmatrix.PadInfo, error) {
	if in.Names == nil {
		return nil, debtmatrix.PadInfo{}, fmt.Errorf("merge: %s: nil names: %w", side, debtmatrix.ErrValidation)
	}
	n := in.Names.Len()

	if !cfg.AllowAutoPad {
		if len(in.Rows) != n {
			return nil, debtmatrix.PadInfo{}, fmt.Errorf("merge: %s: %d rows for %d nodes and auto-padding is off: %w",
				side, len(in.Rows), n, debtmatrix.ErrNonSquare)
		}
		m, err := debtmatrix.New(in.Rows)
		if err != nil {
			return nil, debtmatrix.PadInfo{}, fmt.Errorf("merge: %s: %w", side, err)
		}

		return m, debtmatrix.PadInfo{}, nil
	}

	m, info, err := debtmatrix.Pad(in.Rows, n)
	if err != nil {
		return nil, debtmatrix.PadInfo{}, fmt.Errorf("merge: %s: %w", side, err)
	}

	return m, info, nil
}

// compose builds D and the concatenated names.
func compose(ra, rb [][]int64, na, nb *debtmatrix.Names, pad Padding) (*Result, error) {
	a, b := len(ra), len(rb)
	if a == 0 || b == 0 {
		return nil, fmt.Errorf("merge: sizes %d and %d: %w", a, b, ErrEmptyInput)
	}
	if na == nil {
		na = debtmatrix.DefaultNames(a)
	}
	if nb == nil {
		nb = debtmatrix.DefaultNames(b)
	}

	// 1) Block-diagonal placement.
	n := a + b
	rows := make([][]int64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]int64, n)
	}
	for i := 0; i < a; i++ {
		copy(rows[i][:a], ra[i])
	}
	for i := 0; i < b; i++ {
		copy(rows[a+i][a:], rb[i])
	}

	// 2) Bridge.
	rows[0][a] = BridgeWeight

	m, err := debtmatrix.New(rows)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	// 3) Names: A's as-is, B's shifted by a.
	list := make([]string, 0, n)
	list = append(list, na.List()...)
	list = append(list, nb.List()...)
	nw, err := debtmatrix.NewNetwork(m, debtmatrix.NamesFromList(list))
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	return &Result{
		Network: nw,
		Sizes:   Sizes{A: a, B: b, D: n},
		Padding: pad,
	}, nil
}
