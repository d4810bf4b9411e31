// SPDX-License-Identifier: MIT

// Package merge implements the Bridge-Embedded Block-Diagonal Merge (BEBDiM)
// of two debt networks.
//
// The result D has A in the top-left block, B in the bottom-right block,
// zeros elsewhere and a single unit bridge D[0][a] from A's first node to
// B's first node. Names concatenate in the same order; duplicates are kept,
// since the merge never reconciles parties across networks.
//
// Raw inputs (MergeRaw, FromEncoded) may be smaller than their declared node
// count and are zero-padded when auto-padding is on. An input larger than
// its declared size is always rejected with debtmatrix.ErrTruncation.
package merge
