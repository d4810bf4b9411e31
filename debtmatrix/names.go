// SPDX-License-Identifier: MIT

package debtmatrix

import (
	"fmt"
	"sort"
)

// NameSource is the boundary form of a node-name table. It is either
// ByPosition (ordered list) or ByIndex (explicit index → name map) and is
// normalized once by ResolveNames; queries never branch on the form.
type NameSource interface {
	resolve() (*Names, error)
}

// ByPosition names node i with element i.
type ByPosition []string

// ByIndex names node k with the value under key k. Keys must be exactly 0..len-1.
type ByIndex map[int]string

func (p ByPosition) resolve() (*Names, error) {
	return NamesFromList(p), nil
}

func (b ByIndex) resolve() (*Names, error) {
	return NamesFromMap(b)
}

// ResolveNames normalizes any NameSource into a Names table.
func ResolveNames(src NameSource) (*Names, error) {
	if src == nil {
		return nil, fmt.Errorf("nil name source: %w", ErrValidation)
	}

	return src.resolve()
}

// Names is the index-keyed name table co-owned with a Matrix of the same size.
// Duplicate names are allowed; Index resolves to the smallest matching index.
type Names struct {
	list []string
}

// NamesFromList copies list into a new table.
func NamesFromList(list []string) *Names {
	out := make([]string, len(list))
	copy(out, list)

	return &Names{list: out}
}

// NamesFromMap builds a table from an index map whose keys cover 0..len-1.
func NamesFromMap(m map[int]string) (*Names, error) {
	out := make([]string, len(m))
	for k, v := range m {
		if k < 0 || k >= len(m) {
			return nil, fmt.Errorf("name key %d outside 0..%d: %w", k, len(m)-1, ErrValidation)
		}
		out[k] = v
	}

	return &Names{list: out}, nil
}

// DefaultNames returns "Node0".."Node<n-1>".
func DefaultNames(n int) *Names {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Node%d", i)
	}

	return &Names{list: out}
}

// Len returns the number of names.
func (n *Names) Len() int {
	return len(n.list)
}

// Name returns the display name of node i. A nil table has no nodes.
func (n *Names) Name(i int) (string, error) {
	if n == nil || i < 0 || i >= len(n.list) {
		return "", fmt.Errorf("index %d: %w", i, ErrNodeNotFound)
	}

	return n.list[i], nil
}

// NameOr returns the name of node i, or "#i" when i is out of range.
// Used by renderers that must not fail.
func (n *Names) NameOr(i int) string {
	if name, err := n.Name(i); err == nil {
		return name
	}

	return fmt.Sprintf("#%d", i)
}

// Index returns the smallest index carrying name.
func (n *Names) Index(name string) (int, error) {
	for i, v := range n.list {
		if v == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("name %q: %w", name, ErrNodeNotFound)
}

// List returns a copy of the names in index order.
func (n *Names) List() []string {
	out := make([]string, len(n.list))
	copy(out, n.list)

	return out
}

// Map returns the table in ByIndex form.
func (n *Names) Map() ByIndex {
	out := make(ByIndex, len(n.list))
	for i, v := range n.list {
		out[i] = v
	}

	return out
}

// Keys returns the map keys of m in ascending order.
func (b ByIndex) Keys() []int {
	keys := make([]int, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	return keys
}

// Equal reports whether both tables hold the same names in the same order.
func (n *Names) Equal(o *Names) bool {
	if n == nil || o == nil {
		return n == o
	}
	if len(n.list) != len(o.list) {
		return false
	}
	for i := range n.list {
		if n.list[i] != o.list[i] {
			return false
		}
	}

	return true
}
